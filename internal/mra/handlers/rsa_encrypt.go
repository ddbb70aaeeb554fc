package handlers

// rsa_encrypt.go implements POST /api/rsa-encrypt.

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/unif001/mra-encrypt/internal/crypto"
	"github.com/unif001/mra-encrypt/internal/logger"
	"github.com/unif001/mra-encrypt/internal/mra"
)

// RSAEncryptHandler encrypts JSON payloads with the authority public key
// configured at startup.
type RSAEncryptHandler struct {
	// publicKey is the MRA public key, loaded once from PEM
	publicKey *rsa.PublicKey
}

// NewRSAEncryptHandler creates a handler bound to the authority public key.
func NewRSAEncryptHandler(publicKey *rsa.PublicKey) *RSAEncryptHandler {
	return &RSAEncryptHandler{publicKey: publicKey}
}

// RSAEncryptRequest is the request body for /api/rsa-encrypt.
type RSAEncryptRequest struct {
	// Payload is an arbitrary JSON value; its serialized form is encrypted
	Payload any `json:"payload"`
}

// RSAEncryptResponse carries the ciphertext.
type RSAEncryptResponse struct {
	// Encrypted is the base64-encoded RSA ciphertext
	Encrypted string `json:"encrypted"`
}

// HandleRSAEncrypt godoc
//
//	@Summary		RSA-encrypt a payload
//	@Description	Serializes the payload to JSON and encrypts it with the
//	@Description	authority's RSA public key using PKCS#1 v1.5 padding.
//	@Tags			Crypto
//	@Accept			json
//	@Produce		json
//
//	@Param			request	body		RSAEncryptRequest	true	"Payload to encrypt"
//
//	@Success		200		{object}	RSAEncryptResponse	"Base64 ciphertext"
//	@Failure		400		{object}	mra.ErrorResponse	"Missing payload"
//	@Failure		500		{object}	mra.ErrorResponse	"Key material or encryption failure"
//
//	@Router			/api/rsa-encrypt [post]
func (h *RSAEncryptHandler) HandleRSAEncrypt(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	var req RSAEncryptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reqLogger.Warn("Failed to decode request", slog.String("error", err.Error()))
		mra.RespondWithErrorResponse(w, r, mra.WrapValidationError(err, "request body is not valid JSON"))
		return
	}
	defer r.Body.Close()

	if req.Payload == nil {
		mra.RespondWithErrorResponse(w, r, mra.NewValidationError("missing payload"))
		return
	}

	payloadJSON, err := json.Marshal(req.Payload)
	if err != nil {
		mra.RespondWithErrorResponse(w, r, mra.WrapValidationError(err, "payload is not serializable"))
		return
	}

	ciphertext, err := crypto.EncryptPKCS1v15(payloadJSON, h.publicKey)
	if err != nil {
		mra.RespondWithErrorResponse(w, r, err)
		return
	}

	mra.RespondWithJSONPayload(w, http.StatusOK, RSAEncryptResponse{
		Encrypted: base64.StdEncoding.EncodeToString(ciphertext),
	})
}
