package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MRA_TOKEN_URL", "https://vfisc.mra.mu/realtime/token")
	t.Setenv("MRA_TRANSMIT_URL", "https://vfisc.mra.mu/realtime/invoice/transmit")
	t.Setenv("MRA_USERNAME", "ebs-user")
	t.Setenv("MRA_PASSWORD", "ebs-pass")
	t.Setenv("MRA_EBS_ID", "EBS123")
	t.Setenv("MRA_AREA_CODE", "721")
	t.Setenv("MRA_PUBLIC_KEY_PATH", "/etc/mra/public_key.pem")
	t.Setenv("SELLER_NAME", "Test Seller Ltd")
	t.Setenv("SELLER_TAN", "12345678")
	t.Setenv("SELLER_BRN", "C00000001")
	t.Setenv("SELLER_ADDRESS", "Port Louis, Mauritius")
	t.Setenv("SELLER_PHONE", "2300000000")
}

func TestNewServerConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := NewServerConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.AuthorityTimeout)
	assert.Equal(t, int64(1048576), cfg.MaxRequestBodySize)
	assert.Equal(t, "SYSTEM", cfg.CashierID)

	// the trade name falls back to the registered name
	assert.Equal(t, "Test Seller Ltd", cfg.SellerTradeName)
}

func TestNewServerConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("AUTHORITY_TIMEOUT", "10s")
	t.Setenv("SELLER_TRADE_NAME", "Trading As Ltd")

	cfg, err := NewServerConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.AuthorityTimeout)
	assert.Equal(t, "Trading As Ltd", cfg.SellerTradeName)
}

func TestNewServerConfigMissingRequired(t *testing.T) {
	setRequiredEnv(t)
	require.NoError(t, os.Unsetenv("MRA_USERNAME"))

	_, err := NewServerConfig()
	require.Error(t, err)
}

func TestNewServerConfigInvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "70000")

	_, err := NewServerConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestNewServerConfigInvalidEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	_, err := NewServerConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENVIRONMENT")
}
