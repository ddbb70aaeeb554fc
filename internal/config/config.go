package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
)

// Environment variables with defaults
type ServerEnvironment struct {

	// http server settings
	Environment           string        `env:"ENVIRONMENT,default=dev"`
	Host                  string        `env:"HOST,default=0.0.0.0"`
	Port                  int           `env:"PORT,default=8080"`
	LogLevel              string        `env:"LOG_LEVEL,default=debug"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	RateLimitRPS          int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst        int32         `env:"RATE_LIMIT_BURST,default=200"`
	MaxRequestBodySize    int64         `env:"MAX_REQUEST_BODY_SIZE,default=1048576"`

	// outbound authority call settings
	AuthorityTimeout time.Duration `env:"AUTHORITY_TIMEOUT,default=30s"`

	// Required MRA configuration - must be set by environment variables
	TokenURL         string `env:"MRA_TOKEN_URL,required=true"`
	TransmitURL      string `env:"MRA_TRANSMIT_URL,required=true"`
	MRAUsername      string `env:"MRA_USERNAME,required=true"`
	MRAPassword      string `env:"MRA_PASSWORD,required=true"`
	EbsMraID         string `env:"MRA_EBS_ID,required=true"`
	AreaCode         string `env:"MRA_AREA_CODE,required=true"`
	MRAPublicKeyPath string `env:"MRA_PUBLIC_KEY_PATH,required=true"`

	// Seller identity included on every mapped invoice
	SellerName         string `env:"SELLER_NAME,required=true"`
	SellerTradeName    string `env:"SELLER_TRADE_NAME"`
	SellerTan          string `env:"SELLER_TAN,required=true"`
	SellerBrn          string `env:"SELLER_BRN,required=true"`
	SellerAddress      string `env:"SELLER_ADDRESS,required=true"`
	SellerPhone        string `env:"SELLER_PHONE,required=true"`
	SellerEbsCounterNo string `env:"SELLER_EBS_COUNTER_NO"`
	CashierID          string `env:"CASHIER_ID,default=SYSTEM"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

// NewServerConfig loads environment variables and returns a ServerEnvironment struct that contains the values
func NewServerConfig() (*ServerEnvironment, error) {
	var cfg ServerEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateConfig checks for required env variables
func validateConfig(cfg *ServerEnvironment) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}

	if cfg.AuthorityTimeout <= 0 {
		return fmt.Errorf("AUTHORITY_TIMEOUT must be greater than zero")
	}

	if cfg.MaxRequestBodySize < 1 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be at least 1 byte")
	}

	// the trade name defaults to the registered name when not set separately
	if cfg.SellerTradeName == "" {
		cfg.SellerTradeName = cfg.SellerName
	}

	return nil
}
