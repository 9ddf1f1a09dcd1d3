// Package kythe decodes a newline-delimited Kythe fact stream into logical
// node/edge records, matching the grouping and fact-accumulation rules of
// the external extractor's JSON artifact.
package kythe

import (
	"strconv"
	"strings"
)

// VName identifies a Kythe node by its extractor-assigned coordinates.
type VName struct {
	Signature string
	Path      string
	Language  string
	Root      string
	Corpus    string
}

const edgeKindPrefix = "/kythe/edge"

// Record is one accumulated logical node or edge: all the fact lines sharing
// a source signature up to (but not including) the line that broke the run.
type Record struct {
	Source   *VName
	Target   *VName
	EdgeKind string
	Facts    map[string]string
}

func newRecord() *Record {
	return &Record{Facts: make(map[string]string)}
}

// appendable reports whether wr belongs to the same logical record as r: r
// must not already be an edge (an edge line is always the last line of its
// record), the source signature must match (once set), and wr must not
// repeat a fact name already recorded.
func (r *Record) appendable(wr wireLine) bool {
	if r.Target != nil {
		return false
	}
	if r.Source != nil && r.Source.Signature != wr.Source.Signature {
		return false
	}
	if wr.FactValue != nil {
		if _, exists := r.Facts[wr.FactName]; exists {
			return false
		}
	}
	return true
}

func (r *Record) append(wr wireLine) {
	if r.Source == nil {
		src := wr.Source.toVName()
		r.Source = &src
	}
	if wr.Target != nil {
		tgt := wr.Target.toVName()
		r.Target = &tgt
	}
	if wr.EdgeKind != nil {
		r.EdgeKind = strings.TrimPrefix(*wr.EdgeKind, edgeKindPrefix)
	}
	if wr.FactValue != nil {
		r.Facts[wr.FactName] = *wr.FactValue
	}
}

func (r *Record) clear() {
	r.Source = nil
	r.Target = nil
	r.EdgeKind = ""
	r.Facts = make(map[string]string)
}

// empty reports whether no fact line has been accumulated yet.
func (r *Record) empty() bool {
	return r.Source == nil
}

const (
	factNodeKind = "/kythe/node/kind"
	factSubkind  = "/kythe/subkind"
	factLocStart = "/kythe/loc/start"
	factLocEnd   = "/kythe/loc/end"
	factText     = "/kythe/text"

	nodeKindFile   = "file"
	nodeKindAnchor = "anchor"

	edgeKindDefinesBinding = "/defines/binding"
	edgeKindRef            = "/ref"
	edgeKindChildOf        = "/childof"
)

// IsNode reports whether the record describes a Kythe node (as opposed to an
// edge fact line that never carried a node/kind fact).
func (r *Record) IsNode() bool {
	if r.Source == nil || r.Source.Signature == "" {
		return false
	}
	_, ok := r.Facts[factNodeKind]
	return ok
}

// IsAnchor reports whether the record is a node of kind "anchor".
func (r *Record) IsAnchor() bool {
	return r.IsNode() && r.Facts[factNodeKind] == nodeKindAnchor
}

// IsFile reports whether the record is a node of kind "file".
func (r *Record) IsFile() bool {
	return r.IsNode() && r.Facts[factNodeKind] == nodeKindFile
}

// IsSymbol reports whether the record is a node that is neither an anchor
// nor a file — i.e. any other symbol-bearing entity (module, signal, type…).
func (r *Record) IsSymbol() bool {
	return r.IsNode() && !r.IsAnchor() && !r.IsFile()
}

// SymbolType returns the preferred kind string for a symbol node: its
// subkind fact if present, else its node/kind fact. Empty for non-symbols.
func (r *Record) SymbolType() string {
	if !r.IsSymbol() {
		return ""
	}
	if v, ok := r.Facts[factSubkind]; ok {
		return v
	}
	return r.Facts[factNodeKind]
}

// IsEdge reports whether the record carries a target — the sole signal that
// distinguishes an edge record from a node record. A record can be both
// IsAnchor() and IsEdge(): an anchor's coordinate facts and its single
// outgoing edge (typically /ref) commonly share the anchor's own signature
// and arrive contiguously, merging into one logical record. Callers must
// check classification predicates independently rather than on an
// if/else-if chain, or they will silently drop the edge half of such a
// record.
func (r *Record) IsEdge() bool {
	return r.Target != nil
}

// LocStart returns the anchor's start byte offset, decoded from its
// loc/start fact.
func (r *Record) LocStart() (int, bool) {
	return r.intFact(factLocStart)
}

// LocEnd returns the anchor's end byte offset, decoded from its loc/end
// fact.
func (r *Record) LocEnd() (int, bool) {
	return r.intFact(factLocEnd)
}

// Text returns the file node's captured source text (its "text" fact).
func (r *Record) Text() string {
	return r.Facts[factText]
}

func (r *Record) intFact(name string) (int, bool) {
	v, ok := r.Facts[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// DefinesBinding reports whether the edge kind is /defines/binding.
func (r *Record) DefinesBinding() bool {
	return r.EdgeKind == edgeKindDefinesBinding
}

// IsRef reports whether the edge kind is /ref.
func (r *Record) IsRef() bool {
	return r.EdgeKind == edgeKindRef
}

// IsChildOf reports whether the edge kind is /childof.
func (r *Record) IsChildOf() bool {
	return r.EdgeKind == edgeKindChildOf
}
