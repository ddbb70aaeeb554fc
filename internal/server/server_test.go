package server

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unif001/mra-encrypt/internal/config"
	"github.com/unif001/mra-encrypt/internal/mra"
)

// writeTestPublicKey writes a fresh RSA public key in PEM form and returns
// its path.
func writeTestPublicKey(t *testing.T) string {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "mra_public_key.pem")
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	require.NoError(t, os.WriteFile(path, pemBytes, 0o600))
	return path
}

func testConfig(t *testing.T) *config.ServerEnvironment {
	t.Helper()
	return &config.ServerEnvironment{
		Environment:           "test",
		Host:                  "127.0.0.1",
		Port:                  8080,
		LogLevel:              "error",
		ServerShutdownTimeout: time.Second,
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
		IdleTimeout:           5 * time.Second,
		RateLimitRPS:          100,
		RateLimitBurst:        200,
		MaxRequestBodySize:    1 << 20,
		AuthorityTimeout:      5 * time.Second,
		TokenURL:              "http://localhost:1/token",
		TransmitURL:           "http://localhost:1/transmit",
		MRAUsername:           "ebs-user",
		MRAPassword:           "ebs-pass",
		EbsMraID:              "EBS123",
		AreaCode:              "721",
		MRAPublicKeyPath:      writeTestPublicKey(t),
		SellerName:            "Test Seller Ltd",
		SellerTradeName:       "Test Seller Ltd",
		SellerTan:             "12345678",
		SellerBrn:             "C00000001",
		SellerAddress:         "Port Louis, Mauritius",
		SellerPhone:           "2300000000",
		CashierID:             "SYSTEM",
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := NewServer(testConfig(t), logger)
	require.NoError(t, err)
	return srv
}

func TestNewServerFailsWithoutPublicKey(t *testing.T) {
	cfg := testConfig(t)
	cfg.MRAPublicKeyPath = filepath.Join(t.TempDir(), "missing.pem")

	_, err := NewServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "public key")
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestVersionEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"service":"mra-bridge"`)
}

func TestGenerateAESRoute(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/generate-aes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "aesKey")
}

func TestMethodNotAllowedReturnsJSON(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate-aes", strings.NewReader("{}")))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp mra.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ERROR", resp.Status)
	assert.Contains(t, resp.Message, "POST")
}

func TestUnknownRouteReturns404(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDecryptAESRouteRejectsBadRequest(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/decrypt-aes", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp mra.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ERROR", resp.Status)
}

func TestProcessRouteRejectsInvalidInvoice(t *testing.T) {
	srv := newTestServer(t)

	body := `{"invoice_id": "1", "invoice_number": "N1"}`
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/mra-process", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp mra.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "invoice_data")
}
