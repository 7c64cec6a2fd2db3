package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ledger-engine/internal/errs"
)

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errs.NewInvalidParameterError("%s must be an integer, got %q", name, raw)
	}
	// Ids start at 1, so anything lower names a resource that cannot exist.
	if id < 1 {
		return 0, errs.NewNotFoundError("no resource with %s %d", name, id)
	}
	return id, nil
}

// decodeBody reads a JSON body into v. Malformed bodies are reported through
// invalid so each endpoint keeps its own error kind.
func decodeBody(r *http.Request, v any, invalid func(format string, args ...any) error) error {
	if r.Body == nil {
		return invalid("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return invalid("invalid request body: %v", err)
	}
	return nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewInvalidParameterError("%s must be an integer, got %q", name, raw)
	}
	return n, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errs.NewInvalidParameterError("%s must be true or false, got %q", name, raw)
	}
	return b, nil
}

func invalidParameter(format string, args ...any) error {
	return errs.NewInvalidParameterError(format, args...)
}

func invalidTransaction(format string, args ...any) error {
	return errs.NewInvalidTransactionError(format, args...)
}
