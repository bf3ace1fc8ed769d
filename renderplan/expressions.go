package renderplan

import "github.com/brahmand-io/graphplan/logicalexpr"

// Raw is verbatim, already-syntactically-valid SQL text: compiled edge
// constraints, polymorphic-type filters, and NOT EXISTS lowering all
// produce one of these rather than a typed expression tree (spec.md
// section 3.3 / 4.5). Callers that embed a Raw inside a larger expression
// are responsible for parenthesizing it; Raw itself never adds parens.
type Raw struct {
	SQL string
}

func NewRaw(sql string) *Raw                { return &Raw{SQL: sql} }
func (r *Raw) Children() []logicalexpr.Expression { return nil }
func (r *Raw) WithChildren(children ...logicalexpr.Expression) (logicalexpr.Expression, error) {
	if len(children) != 0 {
		return nil, rawArityError{got: len(children)}
	}
	return r, nil
}
func (r *Raw) Resolved() bool  { return true }
func (r *Raw) String() string  { return r.SQL }

type rawArityError struct{ got int }

func (e rawArityError) Error() string { return "Raw: expected 0 children" }

// PatternCount carries a pre-rendered correlated COUNT(*) subquery body,
// produced by the expression converter for size(PathPattern) (spec.md
// section 4.5).
type PatternCount struct {
	SQL string
}

func NewPatternCount(sql string) *PatternCount { return &PatternCount{SQL: sql} }
func (p *PatternCount) Children() []logicalexpr.Expression { return nil }
func (p *PatternCount) WithChildren(children ...logicalexpr.Expression) (logicalexpr.Expression, error) {
	if len(children) != 0 {
		return nil, rawArityError{got: len(children)}
	}
	return p, nil
}
func (p *PatternCount) Resolved() bool { return true }
func (p *PatternCount) String() string { return p.SQL }

// ExistsSubquery carries a pre-rendered `SELECT 1 FROM ...` body, produced
// by the expression converter for `EXISTS { MATCH ... }` (spec.md section
// 4.5). For a simple single/multi-hop pattern, SQL holds the fully
// assembled text. For subplans complex enough to need the full render
// pipeline (WITH/GraphJoins/CartesianProduct), NestedPlan carries the
// lowered RenderPlan instead, left for the pretty-printer to emit as a
// correlated subquery — SQL text assembly for a whole nested plan is the
// pretty-printer's job (spec.md section 1), not the expression converter's.
type ExistsSubquery struct {
	SQL        string
	NestedPlan *RenderPlan
}

func NewExistsSubquery(sql string) *ExistsSubquery { return &ExistsSubquery{SQL: sql} }
func (e *ExistsSubquery) Children() []logicalexpr.Expression { return nil }
func (e *ExistsSubquery) WithChildren(children ...logicalexpr.Expression) (logicalexpr.Expression, error) {
	if len(children) != 0 {
		return nil, rawArityError{got: len(children)}
	}
	return e, nil
}
func (e *ExistsSubquery) Resolved() bool { return true }
func (e *ExistsSubquery) String() string {
	if e.NestedPlan != nil {
		return "EXISTS(<nested render plan>)"
	}
	return e.SQL
}
