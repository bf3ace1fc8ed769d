// Package renderplan defines the render plan IR: the pure, SQL-shaped value
// the lowering stage produces and the (out-of-scope) pretty-printer consumes
// (spec.md section 3.3). Nothing in this package executes SQL or talks to a
// database; it is a value type plus the handful of render-only expression
// kinds (Raw, PatternCount, ExistsSubquery) that logicalexpr has no use for
// before lowering.
package renderplan

import "github.com/brahmand-io/graphplan/logicalexpr"

// JoinType mirrors spec.md section 3.3's join type enum.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	CrossJoin // rendered "JOIN ... ON 1=1" for CartesianProduct, spec.md section 4.4.3
)

func (t JoinType) String() string {
	switch t {
	case LeftJoin:
		return "LEFT JOIN"
	case RightJoin:
		return "RIGHT JOIN"
	case CrossJoin:
		return "JOIN"
	default:
		return "JOIN"
	}
}

// CteEntry is one member of the render plan's ordered CTE list. Exactly one
// of Plan or RawSQL is set: a structured sub-plan for CTEs this planner
// built itself, opaque text for vlp-generated or otherwise pre-rendered
// bodies (spec.md section 3.3).
type CteEntry struct {
	Name      string
	Plan      *RenderPlan
	RawSQL    string
	Recursive bool
}

// SelectItem is one projected column: an expression plus an optional output
// alias (spec.md section 3.3).
type SelectItem struct {
	Expr  logicalexpr.Expression
	Alias string // empty when the expression's own name is used verbatim
}

// FromRef is the render plan's single FROM-clause table reference. Nil
// (via RenderPlan.From) when only UNWIND or a constant RETURN is present
// (spec.md section 3.3).
type FromRef struct {
	Table string
	Alias string
}

// JoinEntry is one ordered JOIN clause (spec.md section 3.3 / section 4.4.3).
type JoinEntry struct {
	Table      string
	Alias      string
	On         []logicalexpr.Expression
	Type       JoinType
	PreFilter  logicalexpr.Expression // attached to ON, evaluated before null-extension
	EdgeColumn string                 // "from_id" / "to_id", for correct NULL semantics bookkeeping
}

// ArrayJoinItem is one ordered ARRAY JOIN clause synthesized from UNWIND
// (spec.md section 3.3); array_joins always render after every JOIN.
type ArrayJoinItem struct {
	Expr  logicalexpr.Expression
	Alias string
}

// OrderByItem is one ORDER BY term (spec.md section 3.3).
type OrderByItem struct {
	Expr logicalexpr.Expression
	Desc bool
}

// RenderPlan is the pure value described by spec.md section 3.3: every
// field a pretty-printer needs to emit one SELECT statement (or UNION of
// several, via Union), with no residual reference to the logical plan,
// schema, or analyzer state it was lowered from.
type RenderPlan struct {
	Ctes []CteEntry

	Select   []SelectItem
	Distinct bool

	From *FromRef // nil => no table (UNWIND-only or constant RETURN)

	Joins       []JoinEntry
	ArrayJoins  []ArrayJoinItem

	Filters logicalexpr.Expression // outer WHERE; nil if none

	GroupBy []logicalexpr.Expression
	Having  logicalexpr.Expression

	OrderBy []OrderByItem
	Skip    *int64
	Limit   *int64

	Union *UnionPlan
}

// UnionPlan chains this RenderPlan with one more branch (spec.md section
// 4.4.8); Distinct false means UNION ALL.
type UnionPlan struct {
	Next     *RenderPlan
	Distinct bool
}
