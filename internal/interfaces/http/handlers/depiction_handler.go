package handlers

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/turtacn/druglike/internal/application/screening"
	"github.com/turtacn/druglike/internal/chem/depict"
	"github.com/turtacn/druglike/internal/config"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/druglike/pkg/errors"
	"github.com/turtacn/druglike/pkg/types/molecule"
)

// maxCellSize bounds the requested cell dimensions in pixels.
const maxCellSize = 2000

// renderTimeout bounds one grid render; it stays below the default server
// write timeout so the error still reaches the client.
const renderTimeout = 20 * time.Second

// DepictionHandler renders grid images.
type DepictionHandler struct {
	svc      screening.Service
	defaults config.DepictionConfig
	maxBatch int
	logger   logging.Logger
}

// NewDepictionHandler creates a handler using defaults for unset sizes.
func NewDepictionHandler(svc screening.Service, defaults config.DepictionConfig, maxBatch int, logger logging.Logger) *DepictionHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &DepictionHandler{svc: svc, defaults: defaults, maxBatch: maxBatch, logger: logger}
}

// Depict handles POST /api/v1/depictions and answers with image/svg+xml.
// Structures that failed to parse are drawn as empty cells and counted in
// the X-Depiction-Skipped header. Structures too large to lay out reject the
// whole request with 400.
func (h *DepictionHandler) Depict(w http.ResponseWriter, r *http.Request) {
	var req molecule.DepictionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if h.maxBatch > 0 && len(req.SMILES) > h.maxBatch {
		writeAppError(w, r, h.logger, errors.New(errors.ErrCodeBatchTooLarge,
			errors.DefaultMessageForCode(errors.ErrCodeBatchTooLarge)))
		return
	}

	opts := h.options(req)
	if err := opts.Validate(len(req.SMILES)); err != nil {
		writeAppError(w, r, h.logger, errors.InvalidParam(err.Error()))
		return
	}
	if opts.Width > maxCellSize || opts.Height > maxCellSize {
		writeAppError(w, r, h.logger, errors.InvalidParam("cell size exceeds "+strconv.Itoa(maxCellSize)+" pixels"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	var buf bytes.Buffer
	failed, err := h.svc.Depict(ctx, &buf, req.SMILES, opts)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set(molecule.HeaderDepictionSkipped, strconv.Itoa(len(failed)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *DepictionHandler) options(req molecule.DepictionRequest) depict.Options {
	opts := depict.DefaultOptions()
	if h.defaults.MolsPerRow > 0 {
		opts.MolsPerRow = h.defaults.MolsPerRow
	}
	if h.defaults.Width > 0 {
		opts.Width = h.defaults.Width
	}
	if h.defaults.Height > 0 {
		opts.Height = h.defaults.Height
	}
	if req.MolsPerRow != 0 {
		opts.MolsPerRow = req.MolsPerRow
	}
	if req.Width != 0 {
		opts.Width = req.Width
	}
	if req.Height != 0 {
		opts.Height = req.Height
	}
	opts.Legends = req.Legends
	return opts
}
