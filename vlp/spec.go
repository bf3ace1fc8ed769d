// Package vlp compiles variable-length and shortest-path relationship
// patterns into SQL CTE text (spec.md section 4.3): ChainedJoinGenerator
// for a fixed hop count, VariableLengthCteGenerator for a range or
// unbounded pattern via WITH RECURSIVE.
package vlp

import "github.com/brahmand-io/graphplan/logicalexpr"

// PropertyRef is one relationship- or node-side property the exterior query
// needs projected out of the generated CTE, e.g. {Column: "weight", Export:
// "weight"} becomes `t.start_weight`/`t.end_weight` per spec.md section 4.3.
type PropertyRef struct {
	Column string
	Export string
}

// Spec is the closed record of inputs both generators compile from — no
// hidden state, no schema lookups, no access to the logical plan tree
// (spec.md section 4.3: "a closed record of inputs"). Filters arrive as
// already-rendered SQL text rather than expression trees, since vlp sits
// below the expression converter (lower/exprconv.go) and never itself
// walks a logicalexpr.Expression.
type Spec struct {
	StartTable, EndTable       string
	StartIDColumn, EndIDColumn string

	RelTable               string
	FromColumn, ToColumn   string
	LeftAlias, RightAlias  string

	Properties []PropertyRef

	VarLength *logicalexpr.VariableLengthSpec
	Shortest  logicalexpr.ShortestPathMode
	Direction logicalexpr.Direction

	PathVariable string
	RelLabels    []string

	StartFilterSQL string
	EndFilterSQL   string
}

// Result is what both generators hand back to the caller: the CTE's SQL
// text, whether the end-node filter was pushed into the CTE body (true) or
// must still be applied by the caller in the outer WHERE (false).
type Result struct {
	SQL             string
	EndFilterPushed bool
}
