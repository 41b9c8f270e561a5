package handlers

import (
	"fmt"
	"net/http"

	"github.com/turtacn/druglike/internal/application/reporting"
	"github.com/turtacn/druglike/internal/application/screening"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/druglike/pkg/errors"
	"github.com/turtacn/druglike/pkg/types/molecule"
)

// Ro5Handler serves the Rule of Five endpoints.
type Ro5Handler struct {
	svc      screening.Service
	maxBatch int
	logger   logging.Logger
}

// NewRo5Handler creates a handler. maxBatch <= 0 disables the batch cap.
func NewRo5Handler(svc screening.Service, maxBatch int, logger logging.Logger) *Ro5Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Ro5Handler{svc: svc, maxBatch: maxBatch, logger: logger}
}

// Evaluate handles POST /api/v1/ro5/evaluate.
func (h *Ro5Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req molecule.EvaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	out, err := h.svc.Evaluate(r.Context(), req.SMILES)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeData(w, r, reporting.OutcomeDTO(out))
}

// Batch handles POST /api/v1/ro5/batch. Invalid structures are reported per
// item and do not fail the request.
func (h *Ro5Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var req molecule.BatchEvaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if len(req.SMILES) == 0 {
		writeAppError(w, r, h.logger, errors.InvalidParam("smiles must contain at least one structure"))
		return
	}
	if h.maxBatch > 0 && len(req.SMILES) > h.maxBatch {
		writeAppError(w, r, h.logger, errors.New(errors.ErrCodeBatchTooLarge,
			errors.DefaultMessageForCode(errors.ErrCodeBatchTooLarge)).
			WithDetail(fmt.Sprintf("%d structures, limit %d", len(req.SMILES), h.maxBatch)))
		return
	}

	res, err := h.svc.EvaluateBatch(r.Context(), req.SMILES)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeData(w, r, reporting.BatchDTO(res))
}
