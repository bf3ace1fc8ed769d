package logicalplan

import "github.com/brahmand-io/graphplan/logicalexpr"

// GroupBy is the implicit or explicit aggregation key (spec.md section 3.2).
type GroupBy struct {
	Expressions []logicalexpr.Expression
	Having      logicalexpr.Expression // optional
	Child       Node
}

func NewGroupBy(exprs []logicalexpr.Expression, having logicalexpr.Expression, child Node) *GroupBy {
	return &GroupBy{Expressions: exprs, Having: having, Child: child}
}

func (g *GroupBy) Children() []Node { return []Node{g.Child} }

func (g *GroupBy) WithChildren(children ...Node) (Node, error) {
	child, err := withOneChild("GroupBy", children)
	if err != nil {
		return nil, err
	}
	return &GroupBy{Expressions: g.Expressions, Having: g.Having, Child: child}, nil
}

func (g *GroupBy) String() string { return "GroupBy" }
