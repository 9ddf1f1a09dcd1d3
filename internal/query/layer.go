package query

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/diplomat-ls/diplomat/internal/graphsync"
	"github.com/diplomat-ls/diplomat/internal/store"
	"github.com/diplomat-ls/diplomat/pkg/apierr"
)

// Layer is the query API, parametrized by a single store handle. Capability
// discrimination (which requests a given caller may issue) happens at the
// request-routing boundary above this package, not here.
type Layer struct {
	Store *store.Store
	Graph *graphsync.Client // nil disables Descendants
	Log   *slog.Logger
}

func NewLayer(s *store.Store, graph *graphsync.Client, log *slog.Logger) *Layer {
	return &Layer{Store: s, Graph: graph, Log: log}
}

func locationFromAnchor(path string, a store.Anchor) Location {
	return Location{
		Path: path,
		Range: Range{
			Start: Position{Line: a.StartLine, Character: a.StartChar},
			End:   Position{Line: a.EndLine, Character: a.EndChar},
		},
	}
}

// resolveSymbolAt implements spec.md §4.5's "resolve to symbol" step shared
// by Definition, References, and PrepareRename: translate an editor
// position to the anchors covering it, pick the shortest (the "most
// specific token" rule), then resolve through get_definition_by_anchor.
func (l *Layer) resolveSymbolAt(ctx context.Context, path string, pos Position) (store.FullyQualifiedSymbol, error) {
	file, err := l.Store.GetFileByPath(ctx, path)
	if err != nil {
		if apierr.IsNotFound(err) {
			return store.FullyQualifiedSymbol{}, apierr.FileNotFound()
		}
		return store.FullyQualifiedSymbol{}, fmt.Errorf("query: resolve symbol: %w", err)
	}

	anchors, err := l.Store.GetAnchorByPosition(ctx, file.ID, pos.Line, pos.Character)
	if err != nil {
		return store.FullyQualifiedSymbol{}, fmt.Errorf("query: resolve symbol: %w", err)
	}
	if len(anchors) == 0 {
		return store.FullyQualifiedSymbol{}, apierr.NoAnchorAtPosition()
	}

	shortest := anchors[0]
	for _, a := range anchors[1:] {
		if a.Length() < shortest.Length() {
			shortest = a
		}
	}

	sym, err := l.Store.GetDefinitionByAnchor(ctx, shortest.ID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return store.FullyQualifiedSymbol{}, apierr.NoDefinition()
		}
		return store.FullyQualifiedSymbol{}, fmt.Errorf("query: resolve symbol: %w", err)
	}
	return sym, nil
}

// Definition resolves the anchor at (path, pos) to its declaration
// Location.
func (l *Layer) Definition(ctx context.Context, path string, pos Position) (Location, error) {
	sym, err := l.resolveSymbolAt(ctx, path, pos)
	if err != nil {
		return Location{}, err
	}
	declFile, err := l.Store.GetFileByID(ctx, sym.Anchor.FileID)
	if err != nil {
		return Location{}, fmt.Errorf("query: definition: %w", err)
	}
	return locationFromAnchor(declFile.Path, sym.Anchor), nil
}

// References resolves the symbol at (path, pos) and returns every use-site
// Location, excluding the declaration itself.
func (l *Layer) References(ctx context.Context, path string, pos Position) ([]Location, error) {
	sym, err := l.resolveSymbolAt(ctx, path, pos)
	if err != nil {
		return nil, err
	}

	anchors, err := l.Store.GetSymbolReferences(ctx, sym.Symbol.ID)
	if err != nil {
		return nil, fmt.Errorf("query: references: %w", err)
	}

	pathCache := make(map[int64]string)
	locations := make([]Location, 0, len(anchors))
	for _, a := range anchors {
		p, ok := pathCache[a.FileID]
		if !ok {
			f, err := l.Store.GetFileByID(ctx, a.FileID)
			if err != nil {
				return nil, fmt.Errorf("query: references: %w", err)
			}
			p = f.Path
			pathCache[a.FileID] = p
		}
		locations = append(locations, locationFromAnchor(p, a))
	}
	return locations, nil
}

// Children returns the direct (non-transitive) children of a symbol as
// fully qualified symbols carrying their own declaration Location.
func (l *Layer) Children(ctx context.Context, symbolID int64) ([]store.FullyQualifiedSymbol, error) {
	children, err := l.Store.GetSymbolChildren(ctx, symbolID)
	if err != nil {
		return nil, fmt.Errorf("query: children: %w", err)
	}
	return children, nil
}

// Descendants returns every symbol id transitively reachable as a child of
// symbolID, via the Neo4j mirror. Returns apierr.NotImplemented when no
// graph mirror is configured, since the store alone cannot answer a
// transitive query.
func (l *Layer) Descendants(ctx context.Context, symbolID int64) ([]int64, error) {
	if l.Graph == nil {
		return nil, apierr.NotImplemented("descendants")
	}
	ids, err := l.Graph.Descendants(ctx, symbolID)
	if err != nil {
		return nil, fmt.Errorf("query: descendants: %w", err)
	}
	return ids, nil
}

// Ancestors returns every symbol id transitively reachable as a parent of
// symbolID, via the Neo4j mirror. Returns apierr.NotImplemented when no
// graph mirror is configured, mirroring Descendants.
func (l *Layer) Ancestors(ctx context.Context, symbolID int64) ([]int64, error) {
	if l.Graph == nil {
		return nil, apierr.NotImplemented("ancestors")
	}
	ids, err := l.Graph.Ancestors(ctx, symbolID)
	if err != nil {
		return nil, fmt.Errorf("query: ancestors: %w", err)
	}
	return ids, nil
}
