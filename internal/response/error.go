package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/ledger-engine/internal/errs"
	"github.com/GregMSThompson/ledger-engine/pkg/logger"
)

// problem is how one error is logged and answered.
type problem struct {
	status  int
	code    string
	message string
	level   slog.Level
	attrs   []any
}

// classify maps typed errors, wrapped or not, to a problem. Invalid input
// answers 405, which is what existing ledger clients expect. Internal
// details never reach the client.
func classify(err error) problem {
	var (
		notFound   *errs.NotFoundError
		invalidPar *errs.InvalidParameterError
		invalidTxn *errs.InvalidTransactionError
		database   *errs.DatabaseError
		external   *errs.ExternalServiceError
	)
	switch {
	case errors.As(err, &notFound):
		return problem{http.StatusNotFound, "not_found", notFound.Message, slog.LevelWarn, nil}
	case errors.As(err, &invalidPar):
		return problem{http.StatusMethodNotAllowed, "invalid_input", invalidPar.Message, slog.LevelWarn, nil}
	case errors.As(err, &invalidTxn):
		return problem{http.StatusMethodNotAllowed, "invalid_transaction", invalidTxn.Message, slog.LevelWarn, nil}
	case errors.As(err, &database):
		return problem{http.StatusInternalServerError, "internal_error", "An error occurred", slog.LevelError,
			[]any{"operation", database.Operation}}
	case errors.As(err, &external):
		p := problem{http.StatusBadGateway, "service_unavailable", "Service temporarily unavailable", slog.LevelError,
			[]any{"service", external.Service, "transient", external.Transient}}
		if external.Transient {
			p.status = http.StatusServiceUnavailable
			p.level = slog.LevelWarn
		}
		return p
	default:
		return problem{http.StatusInternalServerError, "internal_error", "An unexpected error occurred", slog.LevelError,
			[]any{"type", fmt.Sprintf("%T", err)}}
	}
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	body := ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: chimiddleware.GetReqID(r.Context()),
	}
	if err := writeJSON(w, status, body); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode error response", "error", err, "status", status, "code", code)
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	p := classify(err)
	args := append([]any{"error", err.Error(), "status", p.status}, p.attrs...)
	logger.FromContext(r.Context()).Log(r.Context(), p.level, "request failed", args...)
	h.WriteError(w, r, p.status, p.code, p.message)
}
