// Package store is the persistent relational representation of files,
// anchors, symbols, references, and parent/child relationships backing the
// index: a single SQLite file or an in-memory instance, matching the
// original's "single file or in-memory instance" persistence model far more
// literally than a client/server RDBMS would.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed sql/create_index_db.sql
var createSchema string

//go:embed sql/delete_index_db.sql
var deleteSchema string

// Store wraps a single SQLite connection. Open caps the pool at one
// connection, so every query and write through the shared *sql.DB is
// serialized across the worker pool described by the concurrency model.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the
// schema exists. Pass "" or ":memory:" for an in-memory store.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dsn, err)
	}
	// modernc.org/sqlite connections are not safe for concurrent writers on
	// the same *sql.DB without this cap; a single serialized connection
	// matches the original's single sqlite3.Connection model.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, createSchema)
	return err
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Clear drops and recreates all tables, discarding every row.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, deleteSchema); err != nil {
		return fmt.Errorf("store: clear (drop): %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createSchema); err != nil {
		return fmt.Errorf("store: clear (recreate): %w", err)
	}
	return nil
}

// Dump writes a compacted copy of the live database to destination using
// SQLite's VACUUM INTO, the closest pure-SQL equivalent of a sqlite3
// connection backup. The copy holds the same schema and rows, but VACUUM
// rebuilds its pages, so it is not a byte-for-byte image of the live database.
func (s *Store) Dump(ctx context.Context, destination string) error {
	_, err := s.db.ExecContext(ctx, "VACUUM INTO ?", destination)
	if err != nil {
		return fmt.Errorf("store: dump to %s: %w", destination, err)
	}
	return nil
}

// AddFile inserts a new File row. Not idempotent on path; callers that want
// idempotency must Clear first.
func (s *Store) AddFile(ctx context.Context, path, content string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO files(path, content) VALUES (?, ?)", path, content)
	if err != nil {
		return 0, fmt.Errorf("store: add file %s: %w", path, err)
	}
	return res.LastInsertId()
}

// AddAnchor persists all six coordinate fields of anchor and returns its id.
func (s *Store) AddAnchor(ctx context.Context, a Anchor) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO anchors(file, start_line, start_char, stop_line, stop_char) VALUES (?, ?, ?, ?, ?)",
		a.FileID, a.StartLine, a.StartChar, a.EndLine, a.EndChar)
	if err != nil {
		return 0, fmt.Errorf("store: add anchor: %w", err)
	}
	return res.LastInsertId()
}

// BulkUpdateAnchors overwrites the file and coordinate fields of each anchor
// by id, used during rename to shift column positions.
func (s *Store) BulkUpdateAnchors(ctx context.Context, anchors []Anchor) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: bulk update anchors: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"UPDATE anchors SET file = ?, start_line = ?, start_char = ?, stop_line = ?, stop_char = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("store: bulk update anchors: %w", err)
	}
	defer stmt.Close()

	for _, a := range anchors {
		if _, err := stmt.ExecContext(ctx, a.FileID, a.StartLine, a.StartChar, a.EndLine, a.EndChar, a.ID); err != nil {
			return fmt.Errorf("store: bulk update anchor %d: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

// AddSymbol inserts a Symbol with an optional declaration anchor and returns
// its id.
func (s *Store) AddSymbol(ctx context.Context, name, kind string, declarationAnchorID *int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO symbols(name, type, declaration_anchor) VALUES (?, ?, ?)",
		name, kind, declarationAnchorID)
	if err != nil {
		return 0, fmt.Errorf("store: add symbol %s: %w", name, err)
	}
	return res.LastInsertId()
}

// UpdateSymbolName replaces a symbol's textual name.
func (s *Store) UpdateSymbolName(ctx context.Context, id int64, newName string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE symbols SET name = ? WHERE id = ?", newName, id)
	if err != nil {
		return fmt.Errorf("store: update symbol %d name: %w", id, err)
	}
	return nil
}

// UpdateSymbolDeclarationAnchor sets the declaration anchor for a symbol,
// used when a /defines/binding edge resolves it.
func (s *Store) UpdateSymbolDeclarationAnchor(ctx context.Context, symbolID, anchorID int64) error {
	_, err := s.db.ExecContext(ctx, "UPDATE symbols SET declaration_anchor = ? WHERE id = ?", anchorID, symbolID)
	if err != nil {
		return fmt.Errorf("store: update symbol %d declaration anchor: %w", symbolID, err)
	}
	return nil
}

// AddRef inserts a Reference. Unconstrained; duplicates are allowed.
func (s *Store) AddRef(ctx context.Context, anchorID, symbolID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO refs(anchor, symbol) VALUES (?, ?)", anchorID, symbolID)
	if err != nil {
		return 0, fmt.Errorf("store: add ref: %w", err)
	}
	return res.LastInsertId()
}

// AddRefBatch inserts several references in one transaction.
func (s *Store) AddRefBatch(ctx context.Context, refs []Reference) error {
	if len(refs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: add ref batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO refs(anchor, symbol) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("store: add ref batch: %w", err)
	}
	defer stmt.Close()

	for _, r := range refs {
		if _, err := stmt.ExecContext(ctx, r.AnchorID, r.SymbolID); err != nil {
			return fmt.Errorf("store: add ref batch: %w", err)
		}
	}
	return tx.Commit()
}

// AddSymbolRelationship inserts a directed parent/child edge. Duplicates are
// allowed.
func (s *Store) AddSymbolRelationship(ctx context.Context, parent, child int64) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO relationships(parent_symbol, child_symbol) VALUES (?, ?)", parent, child)
	if err != nil {
		return fmt.Errorf("store: add relationship %d->%d: %w", parent, child, err)
	}
	return nil
}
