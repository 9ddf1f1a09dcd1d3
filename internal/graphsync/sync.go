package graphsync

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/diplomat-ls/diplomat/internal/store"
)

// SyncSymbol upserts one symbol node. The orchestrator calls this
// best-effort right after each successful store.AddSymbol (the later
// store.UpdateSymbolName is mirrored by SyncSymbolName), so the mirror stays
// in lockstep with the authoritative SQLite rows without a separate batch
// pass.
func (c *Client) SyncSymbol(ctx context.Context, id int64, name, kind string) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, UpsertSymbolNode, map[string]any{
			"symbols": []map[string]any{{"id": id, "name": name, "kind": kind}},
		})
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("graphsync: sync symbol %d: %w", id, err)
	}
	return nil
}

// SyncSymbolName updates only a symbol node's name, used when a
// defines/binding edge resolves the declaration lexeme after the node was
// already created with SyncSymbol. Leaving kind untouched avoids clobbering
// it with an empty value.
func (c *Client) SyncSymbolName(ctx context.Context, id int64, name string) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, UpsertSymbolName, map[string]any{"id": id, "name": name})
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("graphsync: sync symbol name %d: %w", id, err)
	}
	return nil
}

// SyncRelationship mirrors one parent/child Relationship edge.
func (c *Client) SyncRelationship(ctx context.Context, parent, child int64) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, UpsertChildOf, map[string]any{
			"edges": []map[string]any{{"parentId": parent, "childId": child}},
		})
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("graphsync: sync relationship %d->%d: %w", parent, child, err)
	}
	return nil
}

// ClearAll removes every mirrored node, used when the orchestrator clears
// the store at the start of a reindex so stale descendant data cannot leak
// into the new generation.
func (c *Client) ClearAll(ctx context.Context) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, ClearAll, nil)
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("graphsync: clear all: %w", err)
	}
	return nil
}

const defaultMaxDepth = 32

// Descendants returns every symbol id transitively reachable as a child of
// symbolID, beyond internal/store.Store.GetSymbolChildren's direct-only
// result.
func (c *Client) Descendants(ctx context.Context, symbolID int64) ([]int64, error) {
	session := c.session(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(DescendantsQuery, defaultMaxDepth)
	result, err := neo4j.ExecuteRead(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, query, map[string]any{"symbolId": symbolID})
		if err != nil {
			return nil, err
		}
		var ids []int64
		for records.Next(ctx) {
			v, _ := records.Record().Get("id")
			if id, ok := v.(int64); ok {
				ids = append(ids, id)
			}
		}
		return ids, records.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("graphsync: descendants %d: %w", symbolID, err)
	}
	ids, _ := result.([]int64)
	return ids, nil
}

// Ancestors returns every symbol id transitively reachable as a parent of
// symbolID, the mirror image of Descendants.
func (c *Client) Ancestors(ctx context.Context, symbolID int64) ([]int64, error) {
	session := c.session(ctx)
	defer session.Close(ctx)

	query := fmt.Sprintf(AncestorsQuery, defaultMaxDepth)
	result, err := neo4j.ExecuteRead(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx, query, map[string]any{"symbolId": symbolID})
		if err != nil {
			return nil, err
		}
		var ids []int64
		for records.Next(ctx) {
			v, _ := records.Record().Get("id")
			if id, ok := v.(int64); ok {
				ids = append(ids, id)
			}
		}
		return ids, records.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("graphsync: ancestors %d: %w", symbolID, err)
	}
	ids, _ := result.([]int64)
	return ids, nil
}

// symbolNodeParams adapts a store.FullyQualifiedSymbol slice into the
// parameter shape UpsertSymbolNode expects, for a bulk resync path (e.g. a
// manual re-sync command) distinct from the orchestrator's per-row calls.
func symbolNodeParams(symbols []store.FullyQualifiedSymbol) []map[string]any {
	params := make([]map[string]any, len(symbols))
	for i, s := range symbols {
		params[i] = map[string]any{"id": s.Symbol.ID, "name": s.Symbol.Name, "kind": s.Symbol.Kind}
	}
	return params
}

// ResyncSymbols bulk-upserts every symbol in one call, used by a manual
// "rebuild the graph mirror" operation instead of the orchestrator's
// incremental per-row sync.
func (c *Client) ResyncSymbols(ctx context.Context, symbols []store.FullyQualifiedSymbol) error {
	if len(symbols) == 0 {
		return nil
	}
	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, UpsertSymbolNode, map[string]any{"symbols": symbolNodeParams(symbols)})
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("graphsync: resync symbols: %w", err)
	}
	return nil
}
