package handlers

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unif001/mra-encrypt/internal/crypto"
	"github.com/unif001/mra-encrypt/internal/mra"
)

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) mra.ErrorResponse {
	t.Helper()
	var resp mra.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleGenerateAES(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/generate-aes", nil)
	rec := httptest.NewRecorder()

	HandleGenerateAES(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp GenerateAESResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	key, err := base64.StdEncoding.DecodeString(resp.AESKey)
	require.NoError(t, err)
	assert.Len(t, key, crypto.KeySize)
}

func TestHandleDecryptAESRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	wrapped, err := crypto.WrapKey("session-key-value-32-chars-long!", key)
	require.NoError(t, err)

	body, err := json.Marshal(DecryptAESRequest{
		EncryptedKey: base64.StdEncoding.EncodeToString(wrapped),
		AESKey:       base64.StdEncoding.EncodeToString(key),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/decrypt-aes", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()

	HandleDecryptAES(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DecryptAESResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "session-key-value-32-chars-long!", resp.DecryptedKey)
}

func TestHandleDecryptAESValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not JSON", "not json"},
		{"missing fields", `{}`},
		{"bad key encoding", `{"encryptedKey": "YWJj", "aesKey": "%%%"}`},
		{"bad ciphertext encoding", `{"encryptedKey": "%%%", "aesKey": "YWJj"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/decrypt-aes", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			HandleDecryptAES(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeErrorResponse(t, rec)
			assert.Equal(t, "ERROR", resp.Status)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestHandleEncryptInvoiceRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	plainText := `[{"invoiceCounter": "101"}]`
	body, err := json.Marshal(EncryptInvoiceRequest{
		PlainText: plainText,
		AESKey:    base64.StdEncoding.EncodeToString(key),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/encrypt-invoice", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()

	HandleEncryptInvoice(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp EncryptInvoiceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	ciphertext, err := base64.StdEncoding.DecodeString(resp.EncryptedText)
	require.NoError(t, err)

	decrypted, err := crypto.UnwrapKey(ciphertext, key)
	require.NoError(t, err)
	assert.Equal(t, plainText, decrypted)
}

func TestHandleEncryptInvoiceRejectsWrongKeyLength(t *testing.T) {
	body := `{"plainText": "[]", "aesKey": "` + base64.StdEncoding.EncodeToString([]byte("short")) + `"}`

	req := httptest.NewRequest(http.MethodPost, "/api/encrypt-invoice", strings.NewReader(body))
	rec := httptest.NewRecorder()

	HandleEncryptInvoice(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Contains(t, resp.Message, "invalid AES key length")
}

func TestHandleRSAEncrypt(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	handler := NewRSAEncryptHandler(&privateKey.PublicKey)

	body := `{"payload": {"username": "ebs-user", "encryptKey": "a2V5"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/rsa-encrypt", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandleRSAEncrypt(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp RSAEncryptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	ciphertext, err := base64.StdEncoding.DecodeString(resp.Encrypted)
	require.NoError(t, err)

	plaintext, err := rsa.DecryptPKCS1v15(rand.Reader, privateKey, ciphertext)
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(plaintext, &payload))
	assert.Equal(t, "ebs-user", payload["username"])
}

func TestHandleRSAEncryptMissingPayload(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	handler := NewRSAEncryptHandler(&privateKey.PublicKey)

	req := httptest.NewRequest(http.MethodPost, "/api/rsa-encrypt", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handler.HandleRSAEncrypt(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Contains(t, resp.Message, "payload")
}
