package logicalplan

import "github.com/brahmand-io/graphplan/logicalexpr"

// GraphNode is a bound node pattern, e.g. `(a:User)` (spec.md section 3.2).
type GraphNode struct {
	Alias          string
	Label          string // optional; empty if unlabeled
	IsDenormalized bool
	Child          Node // usually a Scan or ViewScan
}

func NewGraphNode(alias, label string, child Node) *GraphNode {
	return &GraphNode{Alias: alias, Label: label, Child: child}
}

func (g *GraphNode) Children() []Node { return []Node{g.Child} }

func (g *GraphNode) WithChildren(children ...Node) (Node, error) {
	child, err := withOneChild("GraphNode", children)
	if err != nil {
		return nil, err
	}
	return &GraphNode{Alias: g.Alias, Label: g.Label, IsDenormalized: g.IsDenormalized, Child: child}, nil
}

func (g *GraphNode) String() string { return "GraphNode(" + g.Alias + ":" + g.Label + ")" }

// GraphRel is a bound relationship pattern, e.g. `(a)-[r:FOLLOWS]->(b)`
// (spec.md section 3.2). Left/Center/Right hold the left node, the edge's
// own subplan, and the right node, so nested multi-hop patterns can be
// expressed as a GraphRel whose Right (or Left) is itself a GraphRel.
type GraphRel struct {
	Alias string

	Left   Node
	Center Node
	Right  Node

	LeftConnection  string
	RightConnection string

	Direction logicalexpr.Direction
	Labels    []string // >1 means a multi-type/polymorphic edge

	VariableLength   *logicalexpr.VariableLengthSpec
	ShortestPathMode logicalexpr.ShortestPathMode
	PathVariable     string // empty if the pattern binds no path variable

	WherePredicate logicalexpr.Expression // optional, categorized by pass 8

	IsOptional  bool
	IsRelAnchor bool

	CteReferences []string

	// Categorized where_predicate buckets populated by pass 8
	// (variable-length tagging); nil until that pass runs.
	StartNodeFilters []logicalexpr.Expression
	EndNodeFilters   []logicalexpr.Expression
	RelFilters       []logicalexpr.Expression
	PathFuncFilters  []logicalexpr.Expression
}

func (g *GraphRel) Children() []Node {
	children := []Node{}
	if g.Left != nil {
		children = append(children, g.Left)
	}
	if g.Center != nil {
		children = append(children, g.Center)
	}
	if g.Right != nil {
		children = append(children, g.Right)
	}
	return children
}

func (g *GraphRel) WithChildren(children ...Node) (Node, error) {
	out := *g
	i := 0
	if g.Left != nil {
		out.Left = children[i]
		i++
	}
	if g.Center != nil {
		out.Center = children[i]
		i++
	}
	if g.Right != nil {
		out.Right = children[i]
		i++
	}
	if i != len(children) {
		return nil, childErr("GraphRel", i, len(children))
	}
	return &out, nil
}

func (g *GraphRel) String() string {
	return "GraphRel(" + g.LeftConnection + g.Direction.String() + g.RightConnection + ")"
}

// HasVariableLength reports whether this GraphRel is a variable-length
// pattern (spec.md section 4.1 query helper has_variable_length_rel,
// applied at a single node here — the tree-wide version lives in
// queries.go).
func (g *GraphRel) HasVariableLength() bool { return g.VariableLength != nil }

// ExactHopCount delegates to VariableLength.ExactHopCount, returning
// (0, false) when this is not a variable-length pattern at all.
func (g *GraphRel) ExactHopCount() (int, bool) {
	if g.VariableLength == nil {
		return 0, false
	}
	return g.VariableLength.ExactHopCount()
}
