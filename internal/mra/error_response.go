package mra

// error_response.go maps bridge and crypto errors to the JSON error format
// returned to callers.

import (
	"errors"
	"net/http"

	"github.com/unif001/mra-encrypt/internal/crypto"
)

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	// Status is always "ERROR" for failures
	Status string `json:"status"`

	// Message is a human-readable description naming the failing field or
	// pipeline step
	Message string `json:"message"`
}

// MapErrorToResponse maps a BridgeError, crypto.CryptoError, or generic error
// to an HTTP status code and response body.
//
// The full error chain appears in the message; sensitive material (keys,
// credentials) is never part of error messages by construction.
func MapErrorToResponse(err error) (int, *ErrorResponse) {
	var bridgeErr *BridgeError
	if errors.As(err, &bridgeErr) {
		return statusForBridgeCode(bridgeErr.Code()), &ErrorResponse{
			Status:  "ERROR",
			Message: bridgeErr.Error(),
		}
	}

	var cryptoErr *crypto.CryptoError
	if errors.As(err, &cryptoErr) {
		return statusForCryptoCode(cryptoErr.Code()), &ErrorResponse{
			Status:  "ERROR",
			Message: cryptoErr.Error(),
		}
	}

	return http.StatusInternalServerError, &ErrorResponse{
		Status:  "ERROR",
		Message: err.Error(),
	}
}

func statusForBridgeCode(code ErrorCode) int {
	switch code {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		// configuration, downstream, internal
		return http.StatusInternalServerError
	}
}

// statusForCryptoCode maps crypto errors arising directly from a request
// (the standalone crypto endpoints). A validation failure there means the
// caller supplied bad key material or ciphertext; everything else is
// server-side.
func statusForCryptoCode(code crypto.ErrorCode) int {
	if code == crypto.ErrCodeValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
