package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diplomat-ls/diplomat/internal/indexstate"
	"github.com/diplomat-ls/diplomat/internal/query"
	"github.com/diplomat-ls/diplomat/internal/store"
	"github.com/diplomat-ls/diplomat/pkg/apierr"
)

// QueryHandler exposes the read-only query layer over HTTP, blocking on a
// reindex via Gate.EnsureReady before every request per spec.md §7's "query
// on a stale index triggers a blocking reindex" rule.
type QueryHandler struct {
	logger  *slog.Logger
	layer   *query.Layer
	gate    *indexstate.Gate
	reindex func(context.Context) error
}

func NewQueryHandler(logger *slog.Logger, layer *query.Layer, gate *indexstate.Gate, reindex func(context.Context) error) *QueryHandler {
	return &QueryHandler{logger: logger, layer: layer, gate: gate, reindex: reindex}
}

// Symbol returns a symbol by its store id.
// GET /symbols/{id}
func (h *QueryHandler) Symbol(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(chi.URLParam(r, "id"))
	if !ok {
		writeAPIError(w, h.logger, apierr.InvalidID("symbol"))
		return
	}
	if err := h.gate.EnsureReady(r.Context(), h.reindex); err != nil {
		writeErr(w, h.logger, err)
		return
	}

	sym, err := h.layer.Store.GetSymbolByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeAPIError(w, h.logger, apierr.SymbolNotFound())
		} else {
			writeAPIError(w, h.logger, apierr.InternalError(err))
		}
		return
	}
	writeJSON(w, http.StatusOK, sym)
}

// Definition resolves go-to-definition.
// GET /definition?path=...&line=...&character=...
func (h *QueryHandler) Definition(w http.ResponseWriter, r *http.Request) {
	path, pos, perr := positionQuery(r)
	if perr != nil {
		writeAPIError(w, h.logger, perr)
		return
	}
	if err := h.gate.EnsureReady(r.Context(), h.reindex); err != nil {
		writeErr(w, h.logger, err)
		return
	}

	loc, err := h.layer.Definition(r.Context(), path, pos)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

// References resolves find-references.
// GET /references?path=...&line=...&character=...
func (h *QueryHandler) References(w http.ResponseWriter, r *http.Request) {
	path, pos, perr := positionQuery(r)
	if perr != nil {
		writeAPIError(w, h.logger, perr)
		return
	}
	if err := h.gate.EnsureReady(r.Context(), h.reindex); err != nil {
		writeErr(w, h.logger, err)
		return
	}

	locs, err := h.layer.References(r.Context(), path, pos)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"references": locs, "count": len(locs)})
}

// Children returns the direct children of a symbol.
// GET /children?id=...
func (h *QueryHandler) Children(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r.URL.Query().Get("id"))
	if !ok {
		writeAPIError(w, h.logger, apierr.InvalidID("symbol"))
		return
	}
	if err := h.gate.EnsureReady(r.Context(), h.reindex); err != nil {
		writeErr(w, h.logger, err)
		return
	}

	children, err := h.layer.Children(r.Context(), id)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"children": children, "count": len(children)})
}

// Descendants returns every symbol id transitively reachable as a child of
// a symbol, via the Neo4j mirror (internal/graphsync), beyond Children's
// direct-only result.
// GET /descendants?id=...
func (h *QueryHandler) Descendants(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r.URL.Query().Get("id"))
	if !ok {
		writeAPIError(w, h.logger, apierr.InvalidID("symbol"))
		return
	}
	if err := h.gate.EnsureReady(r.Context(), h.reindex); err != nil {
		writeErr(w, h.logger, err)
		return
	}

	ids, err := h.layer.Descendants(r.Context(), id)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"descendants": ids, "count": len(ids)})
}

// Ancestors returns every symbol id transitively reachable as a parent of a
// symbol, via the Neo4j mirror (internal/graphsync), the mirror image of
// Descendants.
// GET /ancestors?id=...
func (h *QueryHandler) Ancestors(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r.URL.Query().Get("id"))
	if !ok {
		writeAPIError(w, h.logger, apierr.InvalidID("symbol"))
		return
	}
	if err := h.gate.EnsureReady(r.Context(), h.reindex); err != nil {
		writeErr(w, h.logger, err)
		return
	}

	ids, err := h.layer.Ancestors(r.Context(), id)
	if err != nil {
		writeErr(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ancestors": ids, "count": len(ids)})
}
