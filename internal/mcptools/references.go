package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/diplomat-ls/diplomat/internal/indexstate"
	"github.com/diplomat-ls/diplomat/internal/query"
)

// FindReferencesParams are the parameters for the find_references tool.
type FindReferencesParams struct {
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
}

// FindReferencesHandler implements the find_references MCP tool.
type FindReferencesHandler struct {
	layer   *query.Layer
	gate    *indexstate.Gate
	reindex func(context.Context) error
}

func NewFindReferencesHandler(layer *query.Layer, gate *indexstate.Gate, reindex func(context.Context) error) *FindReferencesHandler {
	return &FindReferencesHandler{layer: layer, gate: gate, reindex: reindex}
}

func (h *FindReferencesHandler) Handle(ctx context.Context, params FindReferencesParams) (string, error) {
	if params.Path == "" {
		return "", fmt.Errorf("path is required")
	}
	if err := ensureReady(ctx, h.gate, h.reindex); err != nil {
		return "", err
	}

	locs, err := h.layer.References(ctx, params.Path, position(params.Line, params.Character))
	if err != nil {
		return "", err
	}
	if len(locs) == 0 {
		return "No references found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d reference(s):\n", len(locs))
	for _, loc := range locs {
		fmt.Fprintf(&b, "%s:%d:%d-%d:%d\n", loc.Path, loc.Range.Start.Line, loc.Range.Start.Character, loc.Range.End.Line, loc.Range.End.Character)
	}
	return b.String(), nil
}
