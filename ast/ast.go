// Package ast is the seam between the openCypher parser (an external
// collaborator, spec.md section 1/6.1) and this planner. It has no logic:
// it is the shape the parser is expected to hand the planner, consumed only
// by logicalplan.Build.
package ast

import "github.com/brahmand-io/graphplan/logicalexpr"

// NodePattern is one node in a MATCH path pattern, e.g. `(a:User {id: 1})`.
type NodePattern struct {
	Variable   string // empty for an anonymous node
	Label      string // empty if unlabeled
	Properties map[string]logicalexpr.Expression
}

// RelPattern is one relationship in a MATCH path pattern, e.g.
// `-[r:FOLLOWS*1..3]->`.
type RelPattern struct {
	Variable  string
	Types     []string // >1 for `[:FOLLOWS|KNOWS]`
	Direction logicalexpr.Direction
	VarLength *logicalexpr.VariableLengthSpec
	Shortest  logicalexpr.ShortestPathMode
}

// PathPattern is a connected chain of nodes and relationships:
// Nodes[0] Rels[0] Nodes[1] Rels[1] Nodes[2] ...
type PathPattern struct {
	PathVariable string // empty if the path itself is not bound to a variable
	Nodes        []NodePattern
	Rels         []RelPattern
}

// MatchClause is one MATCH or OPTIONAL MATCH clause. Patterns holds every
// comma-separated pattern in the clause (a MATCH can bind several
// disconnected patterns, composed via CartesianProduct).
type MatchClause struct {
	Optional bool
	Patterns []PathPattern
	Where    logicalexpr.Expression // optional
}

// ReturnItem is one projected expression of a WITH/RETURN clause.
type ReturnItem struct {
	Expr  logicalexpr.Expression
	Alias string
}

// ProjectionClause is the shared shape of WITH and RETURN (spec.md section
// 6.1): distinct flag, items, and the trailing ORDER BY/SKIP/LIMIT/WHERE a
// WITH can carry.
type ProjectionClause struct {
	Items    []ReturnItem
	Distinct bool
	OrderBy  []OrderByItem
	Skip     logicalexpr.Expression
	Limit    logicalexpr.Expression
	Where    logicalexpr.Expression // WITH only
}

// OrderByItem is one ORDER BY expression/direction pair.
type OrderByItem struct {
	Expr       logicalexpr.Expression
	Descending bool
}

// UnwindClause is `UNWIND expr AS alias`.
type UnwindClause struct {
	Expr  logicalexpr.Expression
	Alias string
}

// UnionBranch is one arm of a UNION/UNION ALL chain.
type UnionBranch struct {
	Query *Query
	All   bool
}

// Query is the full parsed-AST shape the planner's builder consumes
// (spec.md section 6.1): an ordered sequence of MATCH/WITH/UNWIND clauses
// feeding a single terminal RETURN, optionally chained into a UNION.
type Query struct {
	// Clauses interleaves MATCH, WITH, and UNWIND in source order; each
	// entry is exactly one of Match/With/Unwind (a tagged union expressed
	// as three optional pointers to keep this a plain struct, mirroring
	// how the parser hands clauses over one at a time).
	Clauses []Clause

	Return *ProjectionClause // nil if this Query only feeds a UNION branch that itself returns

	Union []UnionBranch
}

// Clause is one statement-level clause of a Query.
type Clause struct {
	Match  *MatchClause
	With   *ProjectionClause
	Unwind *UnwindClause
}
