package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/diplomat-ls/diplomat/internal/indexstate"
	"github.com/diplomat-ls/diplomat/internal/query"
)

// ListChildrenParams are the parameters for the list_children tool.
type ListChildrenParams struct {
	SymbolID int64 `json:"symbol_id"`
}

// ListChildrenHandler implements the list_children MCP tool.
type ListChildrenHandler struct {
	layer   *query.Layer
	gate    *indexstate.Gate
	reindex func(context.Context) error
}

func NewListChildrenHandler(layer *query.Layer, gate *indexstate.Gate, reindex func(context.Context) error) *ListChildrenHandler {
	return &ListChildrenHandler{layer: layer, gate: gate, reindex: reindex}
}

func (h *ListChildrenHandler) Handle(ctx context.Context, params ListChildrenParams) (string, error) {
	if params.SymbolID == 0 {
		return "", fmt.Errorf("symbol_id is required")
	}
	if err := ensureReady(ctx, h.gate, h.reindex); err != nil {
		return "", err
	}

	children, err := h.layer.Children(ctx, params.SymbolID)
	if err != nil {
		return "", err
	}
	if len(children) == 0 {
		return "No children found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d child(ren):\n", len(children))
	for _, c := range children {
		fmt.Fprintf(&b, "%d %s (%s)\n", c.Symbol.ID, c.Symbol.Name, c.Symbol.Kind)
	}
	return b.String(), nil
}

// ListDescendantsParams are the parameters for the list_descendants tool.
type ListDescendantsParams struct {
	SymbolID int64 `json:"symbol_id"`
}

// ListDescendantsHandler implements the list_descendants MCP tool, backed
// by the internal/graphsync Neo4j mirror's transitive traversal.
type ListDescendantsHandler struct {
	layer   *query.Layer
	gate    *indexstate.Gate
	reindex func(context.Context) error
}

func NewListDescendantsHandler(layer *query.Layer, gate *indexstate.Gate, reindex func(context.Context) error) *ListDescendantsHandler {
	return &ListDescendantsHandler{layer: layer, gate: gate, reindex: reindex}
}

func (h *ListDescendantsHandler) Handle(ctx context.Context, params ListDescendantsParams) (string, error) {
	if params.SymbolID == 0 {
		return "", fmt.Errorf("symbol_id is required")
	}
	if err := ensureReady(ctx, h.gate, h.reindex); err != nil {
		return "", err
	}

	ids, err := h.layer.Descendants(ctx, params.SymbolID)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "No descendants found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d descendant(s): ", len(ids))
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", id)
	}
	return b.String(), nil
}

// ListAncestorsParams are the parameters for the list_ancestors tool.
type ListAncestorsParams struct {
	SymbolID int64 `json:"symbol_id"`
}

// ListAncestorsHandler implements the list_ancestors MCP tool, the mirror
// image of ListDescendantsHandler.
type ListAncestorsHandler struct {
	layer   *query.Layer
	gate    *indexstate.Gate
	reindex func(context.Context) error
}

func NewListAncestorsHandler(layer *query.Layer, gate *indexstate.Gate, reindex func(context.Context) error) *ListAncestorsHandler {
	return &ListAncestorsHandler{layer: layer, gate: gate, reindex: reindex}
}

func (h *ListAncestorsHandler) Handle(ctx context.Context, params ListAncestorsParams) (string, error) {
	if params.SymbolID == 0 {
		return "", fmt.Errorf("symbol_id is required")
	}
	if err := ensureReady(ctx, h.gate, h.reindex); err != nil {
		return "", err
	}

	ids, err := h.layer.Ancestors(ctx, params.SymbolID)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "No ancestors found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d ancestor(s): ", len(ids))
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", id)
	}
	return b.String(), nil
}
