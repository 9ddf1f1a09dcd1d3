// Package graphsync best-effort mirrors the index store's Relationship
// table into Neo4j as (:Symbol)-[:CHILD_OF]->(:Symbol) edges, enabling a
// transitive Descendants traversal beyond the store's direct (non-
// transitive) get_symbol_children. A nil *Client disables the mirror
// without changing call sites, matching the teacher's optional-dependency
// pattern for every other enrichment service.
package graphsync

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/diplomat-ls/diplomat/internal/config"
)

// Client wraps the Neo4j driver used for the symbol-relationship mirror.
type Client struct {
	driver neo4j.DriverWithContext
}

// NewClient creates a new Neo4j client from configuration.
func NewClient(cfg config.Neo4jConfig) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("graphsync: create neo4j driver: %w", err)
	}
	return &Client{driver: driver}, nil
}

// Close releases the Neo4j driver resources.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Verify checks connectivity to Neo4j.
func (c *Client) Verify(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

func (c *Client) session(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
}

// EnsureConstraints creates the uniqueness constraint Symbol(id) relies on
// for fast MERGE/MATCH. Safe to call on every startup; IF NOT EXISTS makes
// it idempotent.
func (c *Client) EnsureConstraints(ctx context.Context) error {
	session := c.session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, CreateConstraintSymbolID, nil)
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("graphsync: ensure constraints: %w", err)
	}
	return nil
}
