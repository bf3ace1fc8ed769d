// Package logicalexpr defines the logical expression tree: literals,
// property access, operators, function calls, subqueries and the
// pattern-specific nodes (size(), path patterns) the analyzer and lowering
// stages rewrite. Mirrors spec.md section 3.2's expression list and the
// teacher's sql.Expression shape (Children/WithChildren/Resolved/String).
package logicalexpr

import "strconv"

// Expression is the logical-expression node interface. Every expression
// kind in spec.md section 3.2 implements this.
type Expression interface {
	// Children returns the expression's direct sub-expressions, in a fixed
	// order relied on by WithChildren.
	Children() []Expression
	// WithChildren returns a copy of this expression with its children
	// replaced; len(children) must equal len(e.Children()).
	WithChildren(children ...Expression) (Expression, error)
	// Resolved reports whether this expression and all its children have
	// been fully resolved against a schema (property accesses mapped to
	// columns, subqueries planned). Unresolved expressions never reach
	// lowering.
	Resolved() bool
	// String renders a debug form, not SQL — SQL rendering is the
	// pretty-printer's job (out of scope, spec.md section 1).
	String() string
}

// childErr is returned by WithChildren implementations when called with the
// wrong arity; every expression kind uses the same message shape.
func childErr(kind string, want, got int) error {
	return &arityError{kind: kind, want: want, got: got}
}

type arityError struct {
	kind     string
	want, got int
}

func (e *arityError) Error() string {
	return e.kind + ": expected " + strconv.Itoa(e.want) + " children, got " + strconv.Itoa(e.got)
}
