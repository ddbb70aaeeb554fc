package handlers

// process.go implements POST /api/mra-process, the full submission pipeline.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/unif001/mra-encrypt/internal/logger"
	"github.com/unif001/mra-encrypt/internal/mra"
)

// ProcessHandler runs the invoice submission pipeline.
type ProcessHandler struct {
	pipeline *mra.Pipeline
}

// NewProcessHandler creates a handler bound to the submission pipeline.
func NewProcessHandler(pipeline *mra.Pipeline) *ProcessHandler {
	return &ProcessHandler{pipeline: pipeline}
}

// HandleProcess godoc
//
//	@Summary		Submit an invoice to the MRA
//	@Description	Maps the source invoice to the MRA schema and drives the
//	@Description	full submission sequence: AES key generation, RSA encryption
//	@Description	of the credentials payload, token exchange, session key
//	@Description	unwrap, invoice encryption, and transmission.
//	@Description
//	@Description	The pipeline is strictly sequential and handles exactly one
//	@Description	invoice per call. A failure on any step aborts the run; the
//	@Description	error message names the failing step.
//	@Tags			Invoices
//	@Accept			json
//	@Produce		json
//
//	@Param			request	body		mra.SubmitInvoiceRequest	true	"Source invoice (invoice_data may be an object or a JSON-encoded string)"
//
//	@Success		200		{object}	mra.ProcessResult	"Submission accepted; IRN included when the authority issued one"
//	@Failure		400		{object}	mra.ErrorResponse	"Missing or malformed invoice fields"
//	@Failure		500		{object}	mra.ErrorResponse	"Pipeline step failure"
//
//	@Router			/api/mra-process [post]
func (h *ProcessHandler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqLogger := logger.ContextRequestLogger(ctx)

	var req mra.SubmitInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reqLogger.Warn("Failed to decode invoice request", slog.String("error", err.Error()))
		mra.RespondWithErrorResponse(w, r, mra.WrapValidationError(err, "request body is not a valid invoice"))
		return
	}
	defer r.Body.Close()

	result, err := h.pipeline.Process(ctx, &req)
	if err != nil {
		mra.RespondWithErrorResponse(w, r, err)
		return
	}

	mra.RespondWithJSONPayload(w, http.StatusOK, result)
}
