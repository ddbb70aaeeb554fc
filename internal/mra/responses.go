package mra

// responses.go provides helper functions for sending HTTP responses from the
// bridge API handlers.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/unif001/mra-encrypt/internal/logger"
)

// RespondWithErrorResponse sends a JSON error payload for the given error.
//
// It logs the full error details server-side before writing the sanitized
// response; no error is silently swallowed.
func RespondWithErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	statusCode, errorResponse := MapErrorToResponse(err)

	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Warn("Request failed",
		slog.String("error", err.Error()),
		slog.Int("status_code", statusCode),
	)

	RespondWithJSONPayload(w, statusCode, errorResponse)
}

// RespondWithJSONPayload sends a JSON response with the given status code
func RespondWithJSONPayload(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			// If encoding fails, log it but don't try to send another response
			// (headers are already written)
			slog.Error("Failed to encode JSON response",
				slog.String("error", err.Error()),
			)
		}
	}
}
