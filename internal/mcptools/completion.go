package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/diplomat-ls/diplomat/internal/indexstate"
	"github.com/diplomat-ls/diplomat/internal/query"
)

// CompletionParams are the parameters for the completion tool.
type CompletionParams struct {
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
}

// CompletionHandler implements the completion MCP tool.
type CompletionHandler struct {
	layer   *query.Layer
	gate    *indexstate.Gate
	reindex func(context.Context) error
}

func NewCompletionHandler(layer *query.Layer, gate *indexstate.Gate, reindex func(context.Context) error) *CompletionHandler {
	return &CompletionHandler{layer: layer, gate: gate, reindex: reindex}
}

func (h *CompletionHandler) Handle(ctx context.Context, params CompletionParams) (string, error) {
	if params.Path == "" {
		return "", fmt.Errorf("path is required")
	}
	if err := ensureReady(ctx, h.gate, h.reindex); err != nil {
		return "", err
	}

	names, err := h.layer.Completion(ctx, params.Path, position(params.Line, params.Character))
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "No completions.", nil
	}
	return strings.Join(names, ", "), nil
}
