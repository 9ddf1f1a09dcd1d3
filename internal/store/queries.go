package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned by single-row lookups that find nothing. Callers
// that want the boundary apierr mapping use apierr.IsNotFound, which checks
// for sql.ErrNoRows directly; this wraps it for in-package callers.
var ErrNotFound = sql.ErrNoRows

func scanFullyQualifiedSymbol(row interface {
	Scan(dest ...any) error
}) (FullyQualifiedSymbol, error) {
	var fqs FullyQualifiedSymbol
	err := row.Scan(
		&fqs.Symbol.ID, &fqs.Symbol.Name, &fqs.Symbol.Kind,
		&fqs.Anchor.ID, &fqs.Anchor.FileID,
		&fqs.Anchor.StartLine, &fqs.Anchor.StartChar, &fqs.Anchor.EndLine, &fqs.Anchor.EndChar,
	)
	if err != nil {
		return FullyQualifiedSymbol{}, err
	}
	fqs.Symbol.DeclarationAnchor = &fqs.Anchor.ID
	return fqs, nil
}

const fullyQualifiedSymbolColumns = `sid, name, type, aid, file, start_line, start_char, stop_line, stop_char`

// GetSymbolsByName returns every symbol with an exact name match, via the
// fully_qualified_symbols view (symbols without a resolved declaration never
// appear here).
func (s *Store) GetSymbolsByName(ctx context.Context, name string) ([]FullyQualifiedSymbol, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fullyQualifiedSymbolColumns+` FROM fully_qualified_symbols WHERE name = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("store: get symbols by name %s: %w", name, err)
	}
	defer rows.Close()

	var out []FullyQualifiedSymbol
	for rows.Next() {
		fqs, err := scanFullyQualifiedSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("store: get symbols by name %s: %w", name, err)
		}
		out = append(out, fqs)
	}
	return out, rows.Err()
}

// GetAllSymbols returns every symbol that has a resolved declaration anchor,
// for a bulk resync of an external mirror (e.g. internal/graphsync).
func (s *Store) GetAllSymbols(ctx context.Context) ([]FullyQualifiedSymbol, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+fullyQualifiedSymbolColumns+` FROM fully_qualified_symbols`)
	if err != nil {
		return nil, fmt.Errorf("store: get all symbols: %w", err)
	}
	defer rows.Close()

	var out []FullyQualifiedSymbol
	for rows.Next() {
		fqs, err := scanFullyQualifiedSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("store: get all symbols: %w", err)
		}
		out = append(out, fqs)
	}
	return out, rows.Err()
}

// GetSymbolByID returns the fully qualified symbol for a given symbol id.
func (s *Store) GetSymbolByID(ctx context.Context, id int64) (FullyQualifiedSymbol, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fullyQualifiedSymbolColumns+` FROM fully_qualified_symbols WHERE sid = ?`, id)
	fqs, err := scanFullyQualifiedSymbol(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FullyQualifiedSymbol{}, ErrNotFound
		}
		return FullyQualifiedSymbol{}, fmt.Errorf("store: get symbol %d: %w", id, err)
	}
	return fqs, nil
}

const fullyQualifiedSymbolColumnsQualified = `fqs.sid, fqs.name, fqs.type, fqs.aid, fqs.file, fqs.start_line, fqs.start_char, fqs.stop_line, fqs.stop_char`

// GetSymbolChildren returns the direct (non-transitive) children of parent.
func (s *Store) GetSymbolChildren(ctx context.Context, parent int64) ([]FullyQualifiedSymbol, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fullyQualifiedSymbolColumnsQualified+`
		 FROM relationships
		 INNER JOIN fully_qualified_symbols fqs ON fqs.sid = relationships.child_symbol
		 WHERE relationships.parent_symbol = ?`, parent)
	if err != nil {
		return nil, fmt.Errorf("store: get symbol children %d: %w", parent, err)
	}
	defer rows.Close()

	var out []FullyQualifiedSymbol
	for rows.Next() {
		fqs, err := scanFullyQualifiedSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("store: get symbol children %d: %w", parent, err)
		}
		out = append(out, fqs)
	}
	return out, rows.Err()
}

// GetSymbolReferences returns the use-site anchors of symbol, excluding its
// declaration.
func (s *Store) GetSymbolReferences(ctx context.Context, symbolID int64) ([]Anchor, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT anchors.id, anchors.file, anchors.start_line, anchors.start_char, anchors.stop_line, anchors.stop_char
		 FROM refs
		 INNER JOIN anchors ON anchors.id = refs.anchor
		 WHERE refs.symbol = ?`, symbolID)
	if err != nil {
		return nil, fmt.Errorf("store: get symbol references %d: %w", symbolID, err)
	}
	defer rows.Close()

	var out []Anchor
	for rows.Next() {
		var a Anchor
		if err := rows.Scan(&a.ID, &a.FileID, &a.StartLine, &a.StartChar, &a.EndLine, &a.EndChar); err != nil {
			return nil, fmt.Errorf("store: get symbol references %d: %w", symbolID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAnchorByPosition returns every anchor in file whose range covers
// (line, char), using proper lexicographic interval containment rather than
// the legacy rectangular comparison. Callers pick the narrowest result.
func (s *Store) GetAnchorByPosition(ctx context.Context, fileID int64, line, char int) ([]Anchor, error) {
	// A proper interval-containment filter cannot be expressed as a single
	// independent-column comparison (that is the legacy bug this avoids), so
	// candidates are fetched by file and filtered in Go using Anchor.Covers.
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file, start_line, start_char, stop_line, stop_char FROM anchors WHERE file = ?`, fileID)
	if err != nil {
		return nil, fmt.Errorf("store: get anchor by position: %w", err)
	}
	defer rows.Close()

	var out []Anchor
	for rows.Next() {
		var a Anchor
		if err := rows.Scan(&a.ID, &a.FileID, &a.StartLine, &a.StartChar, &a.EndLine, &a.EndChar); err != nil {
			return nil, fmt.Errorf("store: get anchor by position: %w", err)
		}
		if a.Covers(line, char) {
			out = append(out, a)
		}
	}
	return out, rows.Err()
}

// GetAnchorByID returns a single anchor by id.
func (s *Store) GetAnchorByID(ctx context.Context, id int64) (Anchor, error) {
	var a Anchor
	err := s.db.QueryRowContext(ctx,
		`SELECT id, file, start_line, start_char, stop_line, stop_char FROM anchors WHERE id = ?`, id).
		Scan(&a.ID, &a.FileID, &a.StartLine, &a.StartChar, &a.EndLine, &a.EndChar)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Anchor{}, ErrNotFound
		}
		return Anchor{}, fmt.Errorf("store: get anchor %d: %w", id, err)
	}
	return a, nil
}

// GetDefinitionByAnchor resolves the symbol for an anchor: first by treating
// the anchor as itself a declaration, then by joining through References.
func (s *Store) GetDefinitionByAnchor(ctx context.Context, anchorID int64) (FullyQualifiedSymbol, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fullyQualifiedSymbolColumns+` FROM fully_qualified_symbols WHERE aid = ?`, anchorID)
	fqs, err := scanFullyQualifiedSymbol(row)
	if err == nil {
		return fqs, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return FullyQualifiedSymbol{}, fmt.Errorf("store: get definition by anchor %d: %w", anchorID, err)
	}

	row = s.db.QueryRowContext(ctx,
		`SELECT `+fullyQualifiedSymbolColumnsQualified+`
		 FROM fully_qualified_symbols fqs
		 INNER JOIN refs ON refs.symbol = fqs.sid
		 WHERE refs.anchor = ?`, anchorID)
	fqs, err = scanFullyQualifiedSymbol(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return FullyQualifiedSymbol{}, ErrNotFound
		}
		return FullyQualifiedSymbol{}, fmt.Errorf("store: get definition by anchor %d: %w", anchorID, err)
	}
	return fqs, nil
}

// GetFileByPath returns the file at path.
func (s *Store) GetFileByPath(ctx context.Context, path string) (File, error) {
	var f File
	err := s.db.QueryRowContext(ctx, `SELECT id, path, content FROM files WHERE path = ?`, path).
		Scan(&f.ID, &f.Path, &f.Content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return File{}, ErrNotFound
		}
		return File{}, fmt.Errorf("store: get file by path %s: %w", path, err)
	}
	return f, nil
}

// GetFileByID returns the file with the given id.
func (s *Store) GetFileByID(ctx context.Context, id int64) (File, error) {
	var f File
	err := s.db.QueryRowContext(ctx, `SELECT id, path, content FROM files WHERE id = ?`, id).
		Scan(&f.ID, &f.Path, &f.Content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return File{}, ErrNotFound
		}
		return File{}, fmt.Errorf("store: get file by id %d: %w", id, err)
	}
	return f, nil
}

// UpdateFileContent replaces a file's full text.
func (s *Store) UpdateFileContent(ctx context.Context, path, content string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE files SET content = ? WHERE path = ?`, content, path)
	if err != nil {
		return fmt.Errorf("store: update file content %s: %w", path, err)
	}
	return nil
}
