package mra

// pipeline.go drives the six-step submission sequence:
//
//	map invoice -> generate key -> rsa encrypt -> token -> unwrap key ->
//	encrypt invoice -> transmit
//
// The sequence is strictly linear; each step's output feeds the next and any
// failure aborts the run with an error naming the step. There are no retries
// and no state survives the request.

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/unif001/mra-encrypt/internal/config"
	"github.com/unif001/mra-encrypt/internal/crypto"
	"github.com/unif001/mra-encrypt/internal/logger"
)

// Pipeline holds the fixed collaborators of the submission sequence.
type Pipeline struct {
	seller    Seller
	publicKey *rsa.PublicKey
	authority *AuthorityClient
	username  string
	password  string
}

// NewPipeline wires the pipeline from configuration, the authority public
// key loaded at startup, and the authority client.
func NewPipeline(cfg *config.ServerEnvironment, publicKey *rsa.PublicKey, authority *AuthorityClient) *Pipeline {
	return &Pipeline{
		seller:    SellerFromConfig(cfg),
		publicKey: publicKey,
		authority: authority,
		username:  cfg.MRAUsername,
		password:  cfg.MRAPassword,
	}
}

// ProcessResult is the success response of POST /api/mra-process.
type ProcessResult struct {
	Status string `json:"status"`

	// IRN is the authority-issued invoice reference number, empty when the
	// transmission response carries none
	IRN string `json:"IRN"`

	// TransmitResponse is the raw transmission response for diagnostics
	TransmitResponse json.RawMessage `json:"transmit_response"`

	// PreviewJSON is the mapped MRA invoice, returned for inspection
	PreviewJSON *Invoice `json:"preview_json"`
}

// tokenPayload is the credentials+key payload RSA-encrypted for the token
// service.
type tokenPayload struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	EncryptKey   string `json:"encryptKey"`
	RefreshToken string `json:"refreshToken"`
}

// Process runs the full submission sequence for one invoice.
func (p *Pipeline) Process(ctx context.Context, req *SubmitInvoiceRequest) (*ProcessResult, error) {
	reqLogger := logger.ContextRequestLogger(ctx).With(
		slog.String("run_id", uuid.NewString()),
		slog.String("invoice_number", req.InvoiceNumber.String()),
	)

	// Step 0: map the source invoice before touching the authority
	invoice, err := MapInvoice(req, p.seller)
	if err != nil {
		return nil, err
	}

	reqLogger.Info("invoice mapped",
		slog.String("invoice_identifier", invoice.InvoiceIdentifier),
		slog.Int("item_count", len(invoice.ItemList)))

	// Step 1: fresh AES key for this run
	aesKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, WrapInternalError(err, StepGenerateKey, "AES key generation failed")
	}
	aesKeyB64 := base64.StdEncoding.EncodeToString(aesKey)

	// Step 2: RSA-encrypt the credentials+key payload
	payloadJSON, err := json.Marshal(tokenPayload{
		Username:     p.username,
		Password:     p.password,
		EncryptKey:   aesKeyB64,
		RefreshToken: "false",
	})
	if err != nil {
		return nil, WrapInternalError(err, StepRSAEncrypt, "failed to serialize token payload")
	}

	encryptedPayload, err := crypto.EncryptPKCS1v15(payloadJSON, p.publicKey)
	if err != nil {
		return nil, WrapInternalError(err, StepRSAEncrypt, "RSA encryption failed")
	}

	requestID := invoice.InvoiceIdentifier

	// Step 3: exchange for a token and a wrapped session key
	tokenResp, err := p.authority.GenerateToken(ctx, requestID, base64.StdEncoding.EncodeToString(encryptedPayload))
	if err != nil {
		return nil, err
	}

	reqLogger.Info("token acquired", slog.String("request_id", requestID))

	// Step 4: unwrap the session key with the original AES key
	wrappedKey, err := base64.StdEncoding.DecodeString(tokenResp.Key)
	if err != nil {
		return nil, WrapDownstreamError(err, StepUnwrapKey, "token service returned a non-base64 session key")
	}

	sessionKey, err := crypto.UnwrapKey(wrappedKey, aesKey)
	if err != nil {
		return nil, WrapDownstreamError(err, StepUnwrapKey, "failed to unwrap session key")
	}

	// Step 5: encrypt the invoice payload under the session key. The
	// transmission endpoint expects a single-element array regardless of
	// batch size; the pipeline handles exactly one invoice per call.
	invoiceJSON, err := json.Marshal([]*Invoice{invoice})
	if err != nil {
		return nil, WrapInternalError(err, StepEncryptInvoice, "failed to serialize invoice")
	}

	encryptedInvoice, err := crypto.EncryptInvoicePayload(invoiceJSON, []byte(sessionKey))
	if err != nil {
		return nil, WrapDownstreamError(err, StepEncryptInvoice,
			fmt.Sprintf("invoice encryption failed with the %d-byte session key", len(sessionKey)))
	}

	// Step 6: transmit
	result, err := p.authority.Transmit(ctx, tokenResp.Token, requestID, base64.StdEncoding.EncodeToString(encryptedInvoice))
	if err != nil {
		return nil, err
	}

	reqLogger.Info("invoice transmitted",
		slog.String("request_id", requestID),
		slog.String("irn", result.IRN))

	return &ProcessResult{
		Status:           "SUCCESS",
		IRN:              result.IRN,
		TransmitResponse: result.Raw,
		PreviewJSON:      invoice,
	}, nil
}
