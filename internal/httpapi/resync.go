package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/diplomat-ls/diplomat/internal/graphsync"
	"github.com/diplomat-ls/diplomat/internal/store"
	"github.com/diplomat-ls/diplomat/pkg/apierr"
)

// ResyncGraphHandler rebuilds the Neo4j descendant/ancestor mirror from the
// authoritative store in one bulk call, for recovering from a mirror that
// fell out of sync (e.g. after Neo4j downtime the orchestrator's
// best-effort dual-write skipped over) without a full reindex.
type ResyncGraphHandler struct {
	logger *slog.Logger
	store  *store.Store
	graph  *graphsync.Client // nil disables the endpoint
}

func NewResyncGraphHandler(logger *slog.Logger, s *store.Store, graph *graphsync.Client) *ResyncGraphHandler {
	return &ResyncGraphHandler{logger: logger, store: s, graph: graph}
}

// ResyncGraph bulk-upserts every symbol currently in the store into the
// Neo4j mirror.
// POST /debug/resync-graph
func (h *ResyncGraphHandler) ResyncGraph(w http.ResponseWriter, r *http.Request) {
	if h.graph == nil {
		writeAPIError(w, h.logger, apierr.NotImplemented("graph mirror"))
		return
	}

	symbols, err := h.store.GetAllSymbols(r.Context())
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	if err := h.graph.ResyncSymbols(r.Context(), symbols); err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"symbols_synced": len(symbols)})
}
