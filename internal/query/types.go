// Package query is the API surface over internal/store: anchor-
// at-position resolution, go-to-definition, find-references, prepare-
// rename/rename, completion over symbol children, and children-of-symbol.
// Every operation is read-only except Rename, which writes the rewritten
// file content, shifted anchors and new symbol name back to the store.
// Editor-protocol framing (request/response envelopes, capability
// negotiation) is out of scope; this package returns plain Go values.
package query

// Position is a 0-based line/character pair. The store's internal anchor
// coordinates are 0-based on both axes (SPEC_FULL.md §13.2), so positions
// here need no boundary conversion in either direction.
type Position struct {
	Line      int
	Character int
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position
	End   Position
}

// Location identifies a range within one file by its path (the store's
// File.Path, an absolute filesystem path — not a file:// URI; the editor
// protocol's URI framing is the caller's concern, not this package's).
type Location struct {
	Path  string
	Range Range
}

// TextEdit is one replacement within a file's current text.
type TextEdit struct {
	Range   Range
	NewText string
}

// RenamePlan is the result of a successful Rename: a per-file list of text
// replacements, plus a unified-diff rendering of each file for preview.
type RenamePlan struct {
	Edits   map[string][]TextEdit
	Diffs   map[string]string
	OldName string
	NewName string
}
