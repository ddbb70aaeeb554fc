package handlers

// generate_aes.go implements GET /api/generate-aes.

import (
	"encoding/base64"
	"net/http"

	"github.com/unif001/mra-encrypt/internal/crypto"
	"github.com/unif001/mra-encrypt/internal/mra"
)

// GenerateAESResponse carries a freshly generated AES key.
type GenerateAESResponse struct {
	// AESKey is a base64-encoded 256-bit key
	AESKey string `json:"aesKey" example:"3q2+7wAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="`
}

// HandleGenerateAES godoc
//
//	@Summary		Generate AES key
//	@Description	Generates a fresh 256-bit cryptographically random AES key,
//	@Description	base64 encoded. The key seeds the MRA token exchange.
//	@Tags			Crypto
//	@Produce		json
//
//	@Success		200	{object}	GenerateAESResponse	"Generated key"
//	@Failure		500	{object}	mra.ErrorResponse	"Entropy source failure"
//
//	@Router			/api/generate-aes [get]
func HandleGenerateAES(w http.ResponseWriter, r *http.Request) {
	key, err := crypto.GenerateKey()
	if err != nil {
		mra.RespondWithErrorResponse(w, r, err)
		return
	}

	mra.RespondWithJSONPayload(w, http.StatusOK, GenerateAESResponse{
		AESKey: base64.StdEncoding.EncodeToString(key),
	})
}
