package handlers

// encrypt_invoice.go implements POST /api/encrypt-invoice.
//
// The AES key is base64 on this endpoint too. Earlier revisions of the
// bridge read it as UTF-8 text here while decrypt-aes read base64, which
// silently produced wrong ciphertext when the conventions were mixed; base64
// is the single convention now.

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/unif001/mra-encrypt/internal/crypto"
	"github.com/unif001/mra-encrypt/internal/logger"
	"github.com/unif001/mra-encrypt/internal/mra"
)

// EncryptInvoiceRequest is the request body for /api/encrypt-invoice.
type EncryptInvoiceRequest struct {
	// PlainText is the serialized invoice array to encrypt
	PlainText string `json:"plainText"`

	// AESKey is the base64-encoded session key
	AESKey string `json:"aesKey"`
}

// EncryptInvoiceResponse carries the ciphertext.
type EncryptInvoiceResponse struct {
	// EncryptedText is the base64-encoded AES-256-ECB ciphertext
	EncryptedText string `json:"encryptedText"`
}

// HandleEncryptInvoice godoc
//
//	@Summary		Encrypt an invoice payload
//	@Description	Encrypts the invoice JSON with AES-256-ECB (PKCS#7 padding)
//	@Description	under the session key recovered from the token exchange.
//	@Tags			Crypto
//	@Accept			json
//	@Produce		json
//
//	@Param			request	body		EncryptInvoiceRequest	true	"Invoice text and base64 AES key"
//
//	@Success		200		{object}	EncryptInvoiceResponse	"Base64 ciphertext"
//	@Failure		400		{object}	mra.ErrorResponse		"Missing fields or bad encoding"
//	@Failure		500		{object}	mra.ErrorResponse		"Encryption failure"
//
//	@Router			/api/encrypt-invoice [post]
func HandleEncryptInvoice(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	var req EncryptInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reqLogger.Warn("Failed to decode request", slog.String("error", err.Error()))
		mra.RespondWithErrorResponse(w, r, mra.WrapValidationError(err, "request body is not valid JSON"))
		return
	}
	defer r.Body.Close()

	if req.PlainText == "" || req.AESKey == "" {
		mra.RespondWithErrorResponse(w, r, mra.NewValidationError("missing plainText or aesKey"))
		return
	}

	key, err := base64.StdEncoding.DecodeString(req.AESKey)
	if err != nil {
		mra.RespondWithErrorResponse(w, r, mra.WrapValidationError(err, "aesKey is not valid base64"))
		return
	}

	ciphertext, err := crypto.EncryptInvoicePayload([]byte(req.PlainText), key)
	if err != nil {
		mra.RespondWithErrorResponse(w, r, err)
		return
	}

	mra.RespondWithJSONPayload(w, http.StatusOK, EncryptInvoiceResponse{
		EncryptedText: base64.StdEncoding.EncodeToString(ciphertext),
	})
}
