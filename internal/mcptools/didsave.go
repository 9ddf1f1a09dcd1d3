package mcptools

import (
	"context"
	"fmt"

	"github.com/diplomat-ls/diplomat/internal/checker"
	"github.com/diplomat-ls/diplomat/internal/indexstate"
)

// DidSaveParams names the file an editor just saved.
type DidSaveParams struct {
	Path string `json:"path" jsonschema:"absolute path of the file that was saved"`
}

// DidSaveHandler runs the external syntax checker over a saved file and
// applies spec.md §4.6's rule: a file with at least one Error-severity
// diagnostic suppresses the automatic reindex that would otherwise follow.
// A checker process failure is soft — diagnostics are cleared and reindex
// deferred rather than reported as a tool-call error.
type DidSaveHandler struct {
	checker *checker.Runner
	diags   *checker.DiagnosticStore
	gate    *indexstate.Gate
}

func NewDidSaveHandler(runner *checker.Runner, diags *checker.DiagnosticStore, gate *indexstate.Gate) *DidSaveHandler {
	return &DidSaveHandler{checker: runner, diags: diags, gate: gate}
}

func (h *DidSaveHandler) Handle(ctx context.Context, p DidSaveParams) (string, error) {
	if p.Path == "" {
		return "", fmt.Errorf("mcptools: did_save: path is required")
	}

	uri := checker.FileURI(p.Path)
	bundle, err := h.checker.Run(ctx, []string{p.Path})
	if err != nil {
		h.diags.ClearFile(uri)
		return fmt.Sprintf("Syntax checker failed (%v); diagnostics cleared and reindex deferred.", err), nil
	}

	h.diags.UpdateFile(uri, bundle[uri])

	if h.diags.HasErrors() {
		return fmt.Sprintf("%d error(s) across the index; reindex suppressed.", h.diags.ErrorCount()), nil
	}
	h.gate.MarkStale(ctx)
	return "No syntax errors; reindex scheduled.", nil
}
