package httpapi

import (
	"net/http"

	"github.com/diplomat-ls/diplomat/internal/indexstate"
	"github.com/diplomat-ls/diplomat/pkg/apierr"
)

type HealthHandler struct {
	gate *indexstate.Gate
}

func NewHealthHandler(gate *indexstate.Gate) *HealthHandler {
	return &HealthHandler{gate: gate}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports whether the index is ready to serve queries without
// triggering a reindex itself — unlike the query layer's EnsureReady path,
// this is a cheap, read-only liveness probe for the operational surface.
// It goes through ReadyRemote rather than IsReady so a process that shares
// the store file but not the in-memory flag (cmd/mcp observing a reindex
// cmd/indexserver just ran, or vice versa) reports the same state, falling
// back to the local flag when no Valkey mirror is configured.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ready, err := h.gate.ReadyRemote(r.Context())
	if err != nil {
		writeAPIError(w, nil, apierr.InternalError(err))
		return
	}
	if !ready {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "stale"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
