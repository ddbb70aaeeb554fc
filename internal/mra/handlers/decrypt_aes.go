package handlers

// decrypt_aes.go implements POST /api/decrypt-aes.

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/unif001/mra-encrypt/internal/crypto"
	"github.com/unif001/mra-encrypt/internal/logger"
	"github.com/unif001/mra-encrypt/internal/mra"
)

// DecryptAESRequest is the request body for /api/decrypt-aes. Both fields
// are base64.
type DecryptAESRequest struct {
	// EncryptedKey is the AES-wrapped key value returned by the token service
	EncryptedKey string `json:"encryptedKey"`

	// AESKey is the original key the wrap was made under
	AESKey string `json:"aesKey"`
}

// DecryptAESResponse carries the unwrapped key value.
type DecryptAESResponse struct {
	// DecryptedKey is the plaintext key as a UTF-8 string
	DecryptedKey string `json:"decryptedKey"`
}

// HandleDecryptAES godoc
//
//	@Summary		Unwrap an AES-wrapped key
//	@Description	Decrypts a key value wrapped with AES-256-ECB (PKCS#7
//	@Description	padding). The token service wraps the session key it issues
//	@Description	under the caller's original AES key, so that original key is
//	@Description	the decryption key here.
//	@Tags			Crypto
//	@Accept			json
//	@Produce		json
//
//	@Param			request	body		DecryptAESRequest	true	"Wrapped key and unwrapping key, both base64"
//
//	@Success		200		{object}	DecryptAESResponse	"Unwrapped key"
//	@Failure		400		{object}	mra.ErrorResponse	"Missing fields or bad encoding"
//	@Failure		500		{object}	mra.ErrorResponse	"Decryption failure"
//
//	@Router			/api/decrypt-aes [post]
func HandleDecryptAES(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	var req DecryptAESRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reqLogger.Warn("Failed to decode request", slog.String("error", err.Error()))
		mra.RespondWithErrorResponse(w, r, mra.WrapValidationError(err, "request body is not valid JSON"))
		return
	}
	defer r.Body.Close()

	if req.EncryptedKey == "" || req.AESKey == "" {
		mra.RespondWithErrorResponse(w, r, mra.NewValidationError("missing encryptedKey or aesKey"))
		return
	}

	key, err := base64.StdEncoding.DecodeString(req.AESKey)
	if err != nil {
		mra.RespondWithErrorResponse(w, r, mra.WrapValidationError(err, "aesKey is not valid base64"))
		return
	}

	ciphertext, err := base64.StdEncoding.DecodeString(req.EncryptedKey)
	if err != nil {
		mra.RespondWithErrorResponse(w, r, mra.WrapValidationError(err, "encryptedKey is not valid base64"))
		return
	}

	decrypted, err := crypto.UnwrapKey(ciphertext, key)
	if err != nil {
		mra.RespondWithErrorResponse(w, r, err)
		return
	}

	mra.RespondWithJSONPayload(w, http.StatusOK, DecryptAESResponse{DecryptedKey: decrypted})
}
