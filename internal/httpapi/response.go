package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/diplomat-ls/diplomat/pkg/apierr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeAPIError writes a structured error response and logs 5xx errors.
func writeAPIError(w http.ResponseWriter, logger *slog.Logger, e *apierr.Error) {
	if e.Status() >= 500 && logger != nil {
		logger.Error(e.Message(), slog.String("code", string(e.Code())), slog.String("error", e.Error()))
	}
	writeJSON(w, e.Status(), e.Response())
}

// writeErr maps a generic error to an apierr.Error before writing it: errors
// already typed as *apierr.Error pass through, anything else becomes an
// opaque internal error.
func writeErr(w http.ResponseWriter, logger *slog.Logger, err error) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		writeAPIError(w, logger, apiErr)
		return
	}
	writeAPIError(w, logger, apierr.InternalError(err))
}
