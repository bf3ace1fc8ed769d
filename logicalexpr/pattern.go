package logicalexpr

// Direction is the relationship traversal direction, shared by the
// expression-level PathPattern and the logical-plan-level GraphRel.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
	Either
)

func (d Direction) String() string {
	switch d {
	case Outgoing:
		return "->"
	case Incoming:
		return "<-"
	default:
		return "-"
	}
}

// Opposite flips a direction the way spec.md section 4.2 pass 3 and
// section 8.3's get_next_traversal require: Outgoing<->Incoming, Either
// stays Either.
func (d Direction) Opposite() Direction {
	switch d {
	case Outgoing:
		return Incoming
	case Incoming:
		return Outgoing
	default:
		return Either
	}
}

// VariableLengthSpec is `[*min..max]` from spec.md section 3.2. MaxHops nil
// means unbounded.
type VariableLengthSpec struct {
	MinHops int
	MaxHops *int
}

// ExactHopCount returns (n, true) iff MinHops == MaxHops, i.e. a fixed-length
// pattern like `[*2]` or `[*2..2]`.
func (v VariableLengthSpec) ExactHopCount() (int, bool) {
	if v.MaxHops != nil && *v.MaxHops == v.MinHops {
		return v.MinHops, true
	}
	return 0, false
}

// ShortestPathMode selects between first-reaches and all-ties semantics for
// a variable-length pattern (spec.md section 3.2).
type ShortestPathMode int

const (
	NoShortestPath ShortestPathMode = iota
	Shortest
	AllShortest
)

// PathNodeRef is one endpoint of a path-pattern expression: either a bound
// alias or an anonymous node with only a label filter.
type PathNodeRef struct {
	Alias string // empty if anonymous
	Label string // empty if unconstrained
}

// PathPattern is the expression-level relationship pattern used inside
// NOT (pattern), size(pattern), and EXISTS { MATCH pattern } (spec.md
// section 4.5). It is deliberately a simpler shape than GraphRel: it only
// carries what the expression converter needs to synthesize SQL text, not
// the full analyzer-annotated traversal state.
type PathPattern struct {
	Start, End Expression // nil; PathPattern has no sub-expressions to rewrite
	StartNode  PathNodeRef
	EndNode    PathNodeRef
	RelTypes   []string
	Direction  Direction
	VarLength  *VariableLengthSpec
}

func (p *PathPattern) Children() []Expression { return nil }

func (p *PathPattern) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 0 {
		return nil, childErr("PathPattern", 0, len(children))
	}
	return p, nil
}

// Resolved is false until the expression converter has rewritten this node
// into a Raw/PatternCount/ExistsSubquery render expression; a bare
// PathPattern never reaches lowering's generic expression path.
func (p *PathPattern) Resolved() bool { return false }

func (p *PathPattern) String() string {
	arrow := p.Direction.String()
	return "(" + p.StartNode.Alias + ")" + arrow + "[" + joinTypes(p.RelTypes) + "]" + arrow + "(" + p.EndNode.Alias + ")"
}

func joinTypes(types []string) string {
	out := ""
	for i, t := range types {
		if i > 0 {
			out += "|"
		}
		out += t
	}
	return out
}

// PathVariableRef is the bare path variable `p` bound by a pattern, e.g.
// `MATCH p = (a)-[*]->(b) RETURN p`. Rewritten at SELECT-item time to a
// (path_nodes, hop_count, path_relationships) tuple (spec.md section 4.4.5).
type PathVariableRef struct {
	leaf
	Name string
}

func (p *PathVariableRef) WithChildren(children ...Expression) (Expression, error) {
	if err := p.withNoChildren("PathVariableRef", children); err != nil {
		return nil, err
	}
	return p, nil
}
func (p *PathVariableRef) Resolved() bool { return true }
func (p *PathVariableRef) String() string { return p.Name }

// PathFuncKind is length(p), nodes(p), or relationships(p).
type PathFuncKind int

const (
	PathLength PathFuncKind = iota
	PathNodes
	PathRelationships
)

// PathFuncCall applies a PathFuncKind to a bound path variable.
type PathFuncCall struct {
	Kind PathFuncKind
	Path string // path variable name
}

func (p *PathFuncCall) Children() []Expression { return nil }
func (p *PathFuncCall) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 0 {
		return nil, childErr("PathFuncCall", 0, len(children))
	}
	return p, nil
}
func (p *PathFuncCall) Resolved() bool { return true }
func (p *PathFuncCall) String() string {
	switch p.Kind {
	case PathLength:
		return "length(" + p.Path + ")"
	case PathNodes:
		return "nodes(" + p.Path + ")"
	default:
		return "relationships(" + p.Path + ")"
	}
}

// PatternCountExpr is size(pattern) before the expression converter
// pre-renders it into a render-plan PatternCount.
type PatternCountExpr struct {
	Pattern *PathPattern
}

func (p *PatternCountExpr) Children() []Expression { return nil }
func (p *PatternCountExpr) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 0 {
		return nil, childErr("PatternCountExpr", 0, len(children))
	}
	return p, nil
}
func (p *PatternCountExpr) Resolved() bool { return false }
func (p *PatternCountExpr) String() string { return "size(" + p.Pattern.String() + ")" }

// NotPatternExpr is `NOT (pattern)`, lowered to NOT EXISTS(...) per spec.md
// section 4.5.
type NotPatternExpr struct {
	Pattern *PathPattern
}

func (n *NotPatternExpr) Children() []Expression { return nil }
func (n *NotPatternExpr) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 0 {
		return nil, childErr("NotPatternExpr", 0, len(children))
	}
	return n, nil
}
func (n *NotPatternExpr) Resolved() bool { return false }
func (n *NotPatternExpr) String() string { return "NOT " + n.Pattern.String() }

// InTuple is `expr IN (list)`.
type InTuple struct {
	Left  Expression
	Right Expression // a List or a subquery-producing node
}

func (i *InTuple) Children() []Expression { return []Expression{i.Left, i.Right} }
func (i *InTuple) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 2 {
		return nil, childErr("InTuple", 2, len(children))
	}
	return &InTuple{Left: children[0], Right: children[1]}, nil
}
func (i *InTuple) Resolved() bool { return i.Left.Resolved() && i.Right.Resolved() }
func (i *InTuple) String() string { return i.Left.String() + " IN " + i.Right.String() }

// InSubquery is `expr IN (subquery logical plan)`. Plan is an
// interface{}-typed opaque logical-plan pointer to avoid an import cycle
// with the logicalplan package (both packages need each other's leaf
// types): analyzer code that constructs/consumes these always does so
// inside the same compilation unit that has both imports in scope.
type InSubquery struct {
	Left Expression
	Plan interface{}
}

func (i *InSubquery) Children() []Expression { return []Expression{i.Left} }
func (i *InSubquery) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 1 {
		return nil, childErr("InSubquery", 1, len(children))
	}
	return &InSubquery{Left: children[0], Plan: i.Plan}, nil
}
func (i *InSubquery) Resolved() bool { return i.Left.Resolved() && i.Plan != nil }
func (i *InSubquery) String() string { return i.Left.String() + " IN (subquery)" }

// ExistsSubquery is `EXISTS { MATCH ... }`. Plan is an opaque logical-plan
// pointer for the same reason as InSubquery.
type ExistsSubquery struct {
	Plan interface{}
}

func (e *ExistsSubquery) Children() []Expression { return nil }
func (e *ExistsSubquery) WithChildren(children ...Expression) (Expression, error) {
	if len(children) != 0 {
		return nil, childErr("ExistsSubquery", 0, len(children))
	}
	return e, nil
}
func (e *ExistsSubquery) Resolved() bool { return e.Plan != nil }
func (e *ExistsSubquery) String() string { return "EXISTS(subquery)" }
