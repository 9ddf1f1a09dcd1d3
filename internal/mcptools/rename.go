package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/diplomat-ls/diplomat/internal/indexstate"
	"github.com/diplomat-ls/diplomat/internal/query"
)

// PrepareRenameParams are the parameters for the prepare_rename tool.
type PrepareRenameParams struct {
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
}

// PrepareRenameHandler implements the prepare_rename MCP tool.
type PrepareRenameHandler struct {
	layer   *query.Layer
	gate    *indexstate.Gate
	reindex func(context.Context) error
}

func NewPrepareRenameHandler(layer *query.Layer, gate *indexstate.Gate, reindex func(context.Context) error) *PrepareRenameHandler {
	return &PrepareRenameHandler{layer: layer, gate: gate, reindex: reindex}
}

func (h *PrepareRenameHandler) Handle(ctx context.Context, params PrepareRenameParams) (string, error) {
	if params.Path == "" {
		return "", fmt.Errorf("path is required")
	}
	if err := ensureReady(ctx, h.gate, h.reindex); err != nil {
		return "", err
	}

	rng, err := h.layer.PrepareRename(ctx, params.Path, position(params.Line, params.Character))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d:%d-%d:%d", rng.Start.Line, rng.Start.Character, rng.End.Line, rng.End.Character), nil
}

// RenameParams are the parameters for the rename tool.
type RenameParams struct {
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
	NewName   string `json:"new_name"`
}

// RenameHandler implements the rename MCP tool.
type RenameHandler struct {
	layer   *query.Layer
	gate    *indexstate.Gate
	reindex func(context.Context) error
}

func NewRenameHandler(layer *query.Layer, gate *indexstate.Gate, reindex func(context.Context) error) *RenameHandler {
	return &RenameHandler{layer: layer, gate: gate, reindex: reindex}
}

func (h *RenameHandler) Handle(ctx context.Context, params RenameParams) (string, error) {
	if params.Path == "" {
		return "", fmt.Errorf("path is required")
	}
	if params.NewName == "" {
		return "", fmt.Errorf("new_name is required")
	}
	if err := ensureReady(ctx, h.gate, h.reindex); err != nil {
		return "", err
	}

	plan, err := h.layer.Rename(ctx, params.Path, position(params.Line, params.Character), params.NewName)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Renamed %q to %q across %d file(s).\n", plan.OldName, plan.NewName, len(plan.Edits))
	for path, diff := range plan.Diffs {
		fmt.Fprintf(&b, "\n--- %s ---\n%s", path, diff)
	}
	return b.String(), nil
}
