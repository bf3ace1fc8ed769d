package logicalplan

import "github.com/brahmand-io/graphplan/logicalexpr"

// ProjectionKind distinguishes a WITH projection from a RETURN projection;
// both share the same node shape but pass 5 turns every WITH projection into
// a CTE boundary, whether or not a downstream scope references it (spec.md
// section 4.2 pass 5).
type ProjectionKind int

const (
	With ProjectionKind = iota
	Return
)

// ProjectionItem is one projected expression, optionally aliased.
type ProjectionItem struct {
	Expr  logicalexpr.Expression
	Alias string // empty if unaliased
}

// Projection is the WITH/RETURN node (spec.md section 3.2).
type Projection struct {
	Items    []ProjectionItem
	Kind     ProjectionKind
	Distinct bool
	Child    Node
}

func NewProjection(kind ProjectionKind, items []ProjectionItem, child Node) *Projection {
	return &Projection{Kind: kind, Items: items, Child: child}
}

func (p *Projection) Children() []Node { return []Node{p.Child} }

func (p *Projection) WithChildren(children ...Node) (Node, error) {
	child, err := withOneChild("Projection", children)
	if err != nil {
		return nil, err
	}
	return &Projection{Items: p.Items, Kind: p.Kind, Distinct: p.Distinct, Child: child}, nil
}

func (p *Projection) String() string {
	if p.Kind == With {
		return "With"
	}
	return "Return"
}
