package logicalplan

import "github.com/brahmand-io/graphplan/logicalexpr"

// Filter is the WHERE/HAVING position (spec.md section 3.2).
type Filter struct {
	Predicate logicalexpr.Expression
	Child     Node
}

func NewFilter(predicate logicalexpr.Expression, child Node) *Filter {
	return &Filter{Predicate: predicate, Child: child}
}

func (f *Filter) Children() []Node { return []Node{f.Child} }

func (f *Filter) WithChildren(children ...Node) (Node, error) {
	child, err := withOneChild("Filter", children)
	if err != nil {
		return nil, err
	}
	return &Filter{Predicate: f.Predicate, Child: child}, nil
}

func (f *Filter) String() string { return "Filter(" + f.Predicate.String() + ")" }
