package graphsync

// Cypher query constants for the symbol-relationship mirror.
const (
	// CreateConstraintSymbolID ensures Symbol(id) is unique and indexed
	// (required for fast MERGE/MATCH).
	CreateConstraintSymbolID = `CREATE CONSTRAINT symbol_id IF NOT EXISTS FOR (s:Symbol) REQUIRE s.id IS UNIQUE`

	// UpsertSymbolNode merges a symbol node by its store id and sets its
	// descriptive properties.
	UpsertSymbolNode = `
UNWIND $symbols AS sym
MERGE (s:Symbol {id: sym.id})
SET s.name = sym.name,
    s.kind = sym.kind
`

	// UpsertSymbolName updates only the name property of an existing symbol
	// node, leaving kind untouched.
	UpsertSymbolName = `
MATCH (s:Symbol {id: $id})
SET s.name = $name
`

	// UpsertChildOf merges a CHILD_OF edge between a child and its parent
	// symbol, matching the direction of internal/store's Relationship row
	// (parent_symbol_id, child_symbol_id).
	UpsertChildOf = `
UNWIND $edges AS edge
MERGE (child:Symbol {id: edge.childId})
MERGE (parent:Symbol {id: edge.parentId})
MERGE (child)-[:CHILD_OF]->(parent)
`

	// DescendantsQuery finds every symbol reachable by following CHILD_OF
	// edges backward (i.e. every transitive child) up to maxDepth hops,
	// beyond internal/store's direct-only get_symbol_children.
	DescendantsQuery = `
MATCH (root:Symbol {id: $symbolId})
MATCH path = (descendant:Symbol)-[:CHILD_OF*1..%d]->(root)
RETURN DISTINCT descendant.id AS id
`

	// AncestorsQuery finds every symbol reachable by following CHILD_OF
	// edges forward up to maxDepth hops (the transitive parent chain).
	AncestorsQuery = `
MATCH (root:Symbol {id: $symbolId})
MATCH path = (root)-[:CHILD_OF*1..%d]->(ancestor:Symbol)
RETURN DISTINCT ancestor.id AS id
`

	// ClearAll removes every mirrored node and relationship, used when the
	// orchestrator clears the store at the start of a reindex.
	ClearAll = `MATCH (n:Symbol) DETACH DELETE n`
)
