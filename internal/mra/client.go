package mra

// client.go implements the HTTP client for the two authority services this
// repo does not own: the token service and the realtime transmission
// endpoint. Account identifiers travel in request headers on both calls.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/unif001/mra-encrypt/internal/config"
)

// transmitDateTimeLayout is the requestDateTime format the transmission
// endpoint accepts (no seconds).
const transmitDateTimeLayout = "2006-01-02 15:04"

// AuthorityClient calls the MRA token and transmission services.
type AuthorityClient struct {
	client      *resty.Client
	tokenURL    string
	transmitURL string
	username    string
	ebsMraID    string
	areaCode    string

	// now is the clock used for requestDateTime; replaceable in tests
	now func() time.Time
}

// NewAuthorityClient builds a client with the configured endpoints and a
// per-call timeout.
func NewAuthorityClient(cfg *config.ServerEnvironment) *AuthorityClient {
	return &AuthorityClient{
		client:      resty.New().SetTimeout(cfg.AuthorityTimeout),
		tokenURL:    cfg.TokenURL,
		transmitURL: cfg.TransmitURL,
		username:    cfg.MRAUsername,
		ebsMraID:    cfg.EbsMraID,
		areaCode:    cfg.AreaCode,
		now:         time.Now,
	}
}

type tokenRequest struct {
	RequestID string `json:"requestId"`
	Payload   string `json:"payload"`
}

// TokenResponse is the token service's reply. Key is the session key,
// AES-wrapped under the key the caller supplied inside the RSA payload.
type TokenResponse struct {
	Token string `json:"token"`
	Key   string `json:"key"`
}

// GenerateToken exchanges the RSA-encrypted credentials payload for an
// access token and a wrapped session key.
func (c *AuthorityClient) GenerateToken(ctx context.Context, requestID, encryptedPayload string) (*TokenResponse, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeaders(c.authorityHeaders()).
		SetBody(tokenRequest{RequestID: requestID, Payload: encryptedPayload}).
		Post(c.tokenURL)
	if err != nil {
		return nil, WrapDownstreamError(err, StepToken, "token service call failed")
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(resp.Body(), &tokenResp); err != nil {
		return nil, WrapDownstreamError(err, StepToken,
			fmt.Sprintf("token service returned a non-JSON response (status %d): %s", resp.StatusCode(), truncateBody(resp.Body())))
	}

	if tokenResp.Token == "" {
		return nil, NewDownstreamError(StepToken,
			fmt.Sprintf("token generation failed (status %d): %s", resp.StatusCode(), truncateBody(resp.Body())))
	}
	if tokenResp.Key == "" {
		return nil, NewDownstreamError(StepToken,
			fmt.Sprintf("token service returned no session key (status %d): %s", resp.StatusCode(), truncateBody(resp.Body())))
	}

	return &tokenResp, nil
}

type transmitRequest struct {
	RequestID        string `json:"requestId"`
	RequestDateTime  string `json:"requestDateTime"`
	SignedHash       string `json:"signedHash"`
	EncryptedInvoice string `json:"encryptedInvoice"`
}

// TransmitResult holds the parsed and raw transmission response. The raw
// body is returned to the caller unmodified for diagnostics.
type TransmitResult struct {
	// IRN is the authority-issued invoice reference number, empty when the
	// response carries none
	IRN string

	// Raw is the transmission endpoint's response body
	Raw json.RawMessage
}

type transmitResponse struct {
	FiscalisedInvoices []fiscalisedInvoice `json:"fiscalisedInvoices"`
}

type fiscalisedInvoice struct {
	Irn string `json:"irn"`
}

// Transmit submits the encrypted invoice with the bearer token. The signed
// hash is sent empty: the EBS profile in use submits unsigned.
func (c *AuthorityClient) Transmit(ctx context.Context, token, requestID, encryptedInvoice string) (*TransmitResult, error) {
	headers := c.authorityHeaders()
	headers["token"] = token

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(transmitRequest{
			RequestID:        requestID,
			RequestDateTime:  c.now().Format(transmitDateTimeLayout),
			SignedHash:       "",
			EncryptedInvoice: encryptedInvoice,
		}).
		Post(c.transmitURL)
	if err != nil {
		return nil, WrapDownstreamError(err, StepTransmit, "transmission call failed")
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, NewDownstreamError(StepTransmit,
			fmt.Sprintf("transmission rejected (status %d): %s", resp.StatusCode(), truncateBody(resp.Body())))
	}

	var parsed transmitResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, WrapDownstreamError(err, StepTransmit,
			fmt.Sprintf("transmission endpoint returned a non-JSON response: %s", truncateBody(resp.Body())))
	}

	irn := ""
	if len(parsed.FiscalisedInvoices) > 0 {
		irn = parsed.FiscalisedInvoices[0].Irn
	}

	return &TransmitResult{
		IRN: irn,
		Raw: json.RawMessage(append([]byte(nil), resp.Body()...)),
	}, nil
}

func (c *AuthorityClient) authorityHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"username":     c.username,
		"ebsMraId":     c.ebsMraID,
		"areaCode":     c.areaCode,
	}
}

// truncateBody caps raw response bodies included in error messages.
func truncateBody(body []byte) string {
	const maxLen = 512
	if len(body) > maxLen {
		return string(body[:maxLen]) + "..."
	}
	return string(body)
}
