// Package mcptools exposes the query layer as MCP tools: go_to_definition,
// find_references, list_children, list_descendants, list_ancestors, completion,
// prepare_rename, rename, search_symbols, and did_save. Each handler mirrors
// the HTTP debug surface (internal/httpapi) but returns plain text suited to
// an LLM tool-call result rather than JSON.
package mcptools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/diplomat-ls/diplomat/internal/indexstate"
	"github.com/diplomat-ls/diplomat/internal/query"
)

// ToolHandler is the interface every tool handler implements.
type ToolHandler[P any] interface {
	Handle(ctx context.Context, params P) (string, error)
}

// WrapHandler adapts a ToolHandler into the SDK's AddTool callback,
// reporting handler errors as a tool-call error result instead of a
// transport-level failure.
func WrapHandler[P any](h ToolHandler[P]) func(context.Context, *sdkmcp.CallToolRequest, *P) (*sdkmcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, params *P) (*sdkmcp.CallToolResult, any, error) {
		if params == nil {
			params = new(P)
		}
		result, err := h.Handle(ctx, *params)
		if err != nil {
			return &sdkmcp.CallToolResult{
				IsError: true,
				Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: err.Error()}},
			}, nil, nil
		}
		return &sdkmcp.CallToolResult{
			Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: result}},
		}, nil, nil
	}
}

// ensureReady blocks on a reindex if the gate has gone stale, per spec.md
// §7's "query on a stale index triggers a blocking reindex" rule — the same
// obligation internal/httpapi's QueryHandler carries for the HTTP surface.
func ensureReady(ctx context.Context, gate *indexstate.Gate, reindex func(context.Context) error) error {
	return gate.EnsureReady(ctx, reindex)
}

func position(line, character int) query.Position {
	return query.Position{Line: line, Character: character}
}
