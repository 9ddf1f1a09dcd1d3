package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/diplomat-ls/diplomat/internal/indexstate"
	"github.com/diplomat-ls/diplomat/internal/query"
)

// SearchSymbolsParams are the parameters for the search_symbols tool.
type SearchSymbolsParams struct {
	Name string `json:"name"`
}

// SearchSymbolsHandler implements the search_symbols MCP tool: a name-based
// entry point into the graph, since every other tool here requires either a
// (path, line, character) position or an already-known symbol id.
type SearchSymbolsHandler struct {
	layer   *query.Layer
	gate    *indexstate.Gate
	reindex func(context.Context) error
}

func NewSearchSymbolsHandler(layer *query.Layer, gate *indexstate.Gate, reindex func(context.Context) error) *SearchSymbolsHandler {
	return &SearchSymbolsHandler{layer: layer, gate: gate, reindex: reindex}
}

func (h *SearchSymbolsHandler) Handle(ctx context.Context, params SearchSymbolsParams) (string, error) {
	if params.Name == "" {
		return "", fmt.Errorf("name is required")
	}
	if err := ensureReady(ctx, h.gate, h.reindex); err != nil {
		return "", err
	}

	symbols, err := h.layer.Store.GetSymbolsByName(ctx, params.Name)
	if err != nil {
		return "", err
	}
	if len(symbols) == 0 {
		return fmt.Sprintf("No symbols named %q.", params.Name), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d symbol(s) named %q:\n", len(symbols), params.Name)
	for _, s := range symbols {
		fmt.Fprintf(&b, "%d %s (%s)\n", s.Symbol.ID, s.Symbol.Name, s.Symbol.Kind)
	}
	return b.String(), nil
}
