package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/diplomat-ls/diplomat/internal/store"
	"github.com/diplomat-ls/diplomat/pkg/apierr"
)

// DumpHandler serializes the live store to a destination path for offline
// debugging, per spec.md §4.4's dump operation.
type DumpHandler struct {
	logger *slog.Logger
	store  *store.Store
}

func NewDumpHandler(logger *slog.Logger, s *store.Store) *DumpHandler {
	return &DumpHandler{logger: logger, store: s}
}

type dumpRequest struct {
	Destination string `json:"destination"`
}

// Dump writes a compacted copy of the live store (see store.Store.Dump) to
// the requested path.
// POST /debug/dump
func (h *DumpHandler) Dump(w http.ResponseWriter, r *http.Request) {
	var req dumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Destination == "" {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if err := h.store.Dump(r.Context(), req.Destination); err != nil {
		writeAPIError(w, h.logger, apierr.DumpFailed(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"destination": req.Destination})
}
