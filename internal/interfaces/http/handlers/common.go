// Package handlers implements the HTTP endpoints of the API server.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/turtacn/druglike/internal/application/reporting"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/druglike/internal/interfaces/http/middleware"
	"github.com/turtacn/druglike/pkg/errors"
	"github.com/turtacn/druglike/pkg/types/common"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeData wraps data in the success envelope.
func writeData(w http.ResponseWriter, r *http.Request, data interface{}) {
	writeJSON(w, http.StatusOK, common.APIResponse[interface{}]{
		Success:   true,
		Data:      data,
		RequestID: middleware.ContextGetRequestID(r.Context()),
		Timestamp: common.NewTimestamp(),
	})
}

// writeAppError maps err to its HTTP status through the error code. Server
// side failures are logged and masked.
func writeAppError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	status := errors.HTTPStatusForCode(errors.GetCode(err))
	detail := reporting.ErrorDetail(err)
	if status >= 500 {
		logger.Error("request failed",
			logging.String("path", r.URL.Path),
			logging.String("request_id", middleware.ContextGetRequestID(r.Context())),
			logging.Err(err))
		detail = &common.ErrorDetail{
			Code:    errors.ErrCodeInternal.String(),
			Message: errors.DefaultMessageForCode(errors.ErrCodeInternal),
		}
	}
	writeJSON(w, status, common.APIResponse[interface{}]{
		Error:     detail,
		RequestID: middleware.ContextGetRequestID(r.Context()),
		Timestamp: common.NewTimestamp(),
	})
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.InvalidParam("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.InvalidParam(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		}
		return errors.InvalidParam("malformed JSON body").WithCause(err)
	}
	return nil
}
