package store

// File is the full text captured for one source path at ingest time.
type File struct {
	ID      int64
	Path    string
	Content string
}

// Anchor is a half-open text range within a File, using 0-based lines and
// 0-based characters on both endpoints.
type Anchor struct {
	ID        int64
	FileID    int64
	StartLine int
	StartChar int
	EndLine   int
	EndChar   int
}

// Less reports whether a sorts before b under the lexicographic ordering
// the store's invariants and anchor-at-position queries rely on.
func (a Anchor) Less(b Anchor) bool {
	if a.StartLine != b.StartLine {
		return a.StartLine < b.StartLine
	}
	if a.StartChar != b.StartChar {
		return a.StartChar < b.StartChar
	}
	if a.EndLine != b.EndLine {
		return a.EndLine < b.EndLine
	}
	return a.EndChar < b.EndChar
}

// Covers reports whether the anchor's range contains the 0-based (line,
// char) position, using proper lexicographic interval containment.
func (a Anchor) Covers(line, char int) bool {
	start := [2]int{a.StartLine, a.StartChar}
	end := [2]int{a.EndLine, a.EndChar}
	pos := [2]int{line, char}
	return !tupleLess(pos, start) && !tupleLess(end, pos)
}

func tupleLess(a, b [2]int) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// Length is the span used by the shortest-anchor tie-break: the number of
// characters for a single-line anchor, or a large sentinel for a multi-line
// anchor (those never win a tie against a single-line candidate).
func (a Anchor) Length() int {
	if a.StartLine == a.EndLine {
		return a.EndChar - a.StartChar
	}
	return 1<<31 - 1
}

// Symbol is a named program entity with a (possibly not yet resolved)
// declaration anchor.
type Symbol struct {
	ID                int64
	Name              string
	Kind              string
	DeclarationAnchor *int64
}

// FullyQualifiedSymbol joins a Symbol with its declaration Anchor, the
// exclusive surface for queries that must return both a symbol and its
// position.
type FullyQualifiedSymbol struct {
	Symbol Symbol
	Anchor Anchor
}

// Reference asserts that the text range at AnchorID is a textual use of
// SymbolID.
type Reference struct {
	ID       int64
	AnchorID int64
	SymbolID int64
}

// Relationship is a directed parent/child edge between two symbols.
type Relationship struct {
	ParentSymbolID int64
	ChildSymbolID  int64
}
