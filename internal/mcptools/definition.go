package mcptools

import (
	"context"
	"fmt"

	"github.com/diplomat-ls/diplomat/internal/indexstate"
	"github.com/diplomat-ls/diplomat/internal/query"
)

// GoToDefinitionParams are the parameters for the go_to_definition tool.
type GoToDefinitionParams struct {
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
}

// GoToDefinitionHandler implements the go_to_definition MCP tool.
type GoToDefinitionHandler struct {
	layer   *query.Layer
	gate    *indexstate.Gate
	reindex func(context.Context) error
}

func NewGoToDefinitionHandler(layer *query.Layer, gate *indexstate.Gate, reindex func(context.Context) error) *GoToDefinitionHandler {
	return &GoToDefinitionHandler{layer: layer, gate: gate, reindex: reindex}
}

func (h *GoToDefinitionHandler) Handle(ctx context.Context, params GoToDefinitionParams) (string, error) {
	if params.Path == "" {
		return "", fmt.Errorf("path is required")
	}
	if err := ensureReady(ctx, h.gate, h.reindex); err != nil {
		return "", err
	}

	loc, err := h.layer.Definition(ctx, params.Path, position(params.Line, params.Character))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", loc.Path, loc.Range.Start.Line, loc.Range.Start.Character, loc.Range.End.Line, loc.Range.End.Character), nil
}
