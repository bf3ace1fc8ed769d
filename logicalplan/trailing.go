package logicalplan

import "github.com/brahmand-io/graphplan/logicalexpr"

// OrderByItem is one ORDER BY expression and direction.
type OrderByItem struct {
	Expr       logicalexpr.Expression
	Descending bool
}

// OrderBy is a trailing operator (spec.md section 3.2).
type OrderBy struct {
	Items []OrderByItem
	Child Node
}

func NewOrderBy(items []OrderByItem, child Node) *OrderBy { return &OrderBy{Items: items, Child: child} }

func (o *OrderBy) Children() []Node { return []Node{o.Child} }
func (o *OrderBy) WithChildren(children ...Node) (Node, error) {
	child, err := withOneChild("OrderBy", children)
	if err != nil {
		return nil, err
	}
	return &OrderBy{Items: o.Items, Child: child}, nil
}
func (o *OrderBy) String() string { return "OrderBy" }

// Skip is a trailing OFFSET/SKIP operator.
type Skip struct {
	Count logicalexpr.Expression
	Child Node
}

func NewSkip(count logicalexpr.Expression, child Node) *Skip { return &Skip{Count: count, Child: child} }

func (s *Skip) Children() []Node { return []Node{s.Child} }
func (s *Skip) WithChildren(children ...Node) (Node, error) {
	child, err := withOneChild("Skip", children)
	if err != nil {
		return nil, err
	}
	return &Skip{Count: s.Count, Child: child}, nil
}
func (s *Skip) String() string { return "Skip" }

// Limit is a trailing LIMIT operator.
type Limit struct {
	Count logicalexpr.Expression
	Child Node
}

func NewLimit(count logicalexpr.Expression, child Node) *Limit { return &Limit{Count: count, Child: child} }

func (l *Limit) Children() []Node { return []Node{l.Child} }
func (l *Limit) WithChildren(children ...Node) (Node, error) {
	child, err := withOneChild("Limit", children)
	if err != nil {
		return nil, err
	}
	return &Limit{Count: l.Count, Child: child}, nil
}
func (l *Limit) String() string { return "Limit" }

// Unwind is Cypher's UNWIND list expansion (spec.md section 3.2).
type Unwind struct {
	Expr  logicalexpr.Expression
	Alias string
	Child Node
}

func NewUnwind(expr logicalexpr.Expression, alias string, child Node) *Unwind {
	return &Unwind{Expr: expr, Alias: alias, Child: child}
}

func (u *Unwind) Children() []Node { return []Node{u.Child} }
func (u *Unwind) WithChildren(children ...Node) (Node, error) {
	child, err := withOneChild("Unwind", children)
	if err != nil {
		return nil, err
	}
	return &Unwind{Expr: u.Expr, Alias: u.Alias, Child: child}, nil
}
func (u *Unwind) String() string { return "Unwind(" + u.Alias + ")" }

// PageRank is the algorithmic placeholder node (spec.md section 3.2):
// present in the algebra so the builder can represent a `CALL
// pagerank(...)` clause, but the planner does not implement any rewrite for
// it — lowering rejects it with UnsupportedFeature, since the execution
// engine (out of scope, spec.md section 1) would need to supply the actual
// algorithm.
type PageRank struct {
	leaf0
	Parameters map[string]logicalexpr.Expression
}

func (p *PageRank) WithChildren(children ...Node) (Node, error) {
	if err := withNoChildren("PageRank", children); err != nil {
		return nil, err
	}
	return p, nil
}
func (p *PageRank) String() string { return "PageRank" }
