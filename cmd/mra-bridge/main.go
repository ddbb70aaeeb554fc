package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/unif001/mra-encrypt/internal/config"
	"github.com/unif001/mra-encrypt/internal/logger"
	"github.com/unif001/mra-encrypt/internal/server"
	"github.com/unif001/mra-encrypt/internal/version"
)

//	@title			mra-bridge
//	@description	mra-bridge sits between a Zoho-style invoicing system and the MRA
//	@description	(Mauritius Revenue Authority) e-invoicing platform. It exposes the
//	@description	cryptographic building blocks of the MRA key exchange as individual
//	@description	endpoints and a single orchestration endpoint that maps, encrypts and
//	@description	transmits one invoice per call.
//	@description
//	@description	## Common Error Responses
//	@description	All endpoints may return:
//	@description	- `405` Wrong HTTP method
//	@description	- `413` Request body exceeds size limit
//	@description	- `429` Rate limit exceeded
//	@description	- `500` Cryptographic, configuration or authority failure
//	@description
//	@description	Individual endpoints document their specific validation errors.
//	@description
//	@description	## Request Limits
//	@description	All endpoints are protected by:
//	@description	- **Rate limiting**: Configurable requests per second (see env vars) - default 100 rps (set to 0 to disable)
//	@description	- **Request size limits**: Configurable (see env vars) - default 1MB
//	@description
//	@description	Check the X-Max-Request-Size response header for the configured limit.

//	@accept		json
//	@produce	json

//	@tag.name			Crypto
//	@tag.description	Standalone cryptographic operations of the MRA key exchange

//	@tag.name			Invoices
//	@tag.description	Invoice mapping and submission pipeline

//	@tag.name			Common
//	@tag.description	Server endpoints (health, version)

func main() {
	cmd := &cobra.Command{
		Use:   "mra-bridge",
		Short: "Zoho to MRA e-invoicing bridge",
		Long:  `mra-bridge maps Zoho invoices to the MRA e-invoice schema and submits them through the authority's encrypted transmission protocol`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		log.Printf("failed to load configuration: %v", err.Error())
		os.Exit(1)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	appLogger.Info("Configuration loaded",
		slog.String("ENVIRONMENT", cfg.Environment),
		slog.String("HOST", cfg.Host),
		slog.Int("PORT", cfg.Port),
		slog.String("LOG_LEVEL", cfg.LogLevel),
		slog.String("MRA_TOKEN_URL", cfg.TokenURL),
		slog.String("MRA_TRANSMIT_URL", cfg.TransmitURL),
		slog.String("MRA_PUBLIC_KEY_PATH", cfg.MRAPublicKeyPath),
		slog.String("SELLER_NAME", cfg.SellerName),
		slog.String("SELLER_TAN", cfg.SellerTan),
	)

	appLogger.Info("Starting server", slog.String("version", version.Get().Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// configure the server
	server, err := server.NewServer(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// start the server
	if err := server.Start(ctx); err != nil {
		appLogger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("server shutdown complete")
	return nil
}
