package logicalplan

import "github.com/brahmand-io/graphplan/logicalexpr"

// CartesianProduct represents a sibling MATCH / OPTIONAL MATCH (spec.md
// section 3.2): two disconnected patterns in the same scope, joined either
// by an explicit correlation predicate or, absent one, a true cross join.
type CartesianProduct struct {
	Left, Right   Node
	JoinCondition logicalexpr.Expression // optional
	IsOptional    bool
}

func NewCartesianProduct(left, right Node) *CartesianProduct {
	return &CartesianProduct{Left: left, Right: right}
}

func (c *CartesianProduct) Children() []Node { return []Node{c.Left, c.Right} }

func (c *CartesianProduct) WithChildren(children ...Node) (Node, error) {
	if len(children) != 2 {
		return nil, childErr("CartesianProduct", 2, len(children))
	}
	return &CartesianProduct{Left: children[0], Right: children[1], JoinCondition: c.JoinCondition, IsOptional: c.IsOptional}, nil
}

func (c *CartesianProduct) String() string { return "CartesianProduct" }

// WithClauseExportedAlias is one alias exported by a WITH boundary, along
// with the entity kind needed to materialize it as a column (spec.md
// section 4.2 pass 5).
type WithClauseExportedAlias struct {
	Alias      string
	EntityType string // "node", "relationship", or "" for a scalar
}

// WithClause marks an explicit CTE boundary (spec.md section 3.2).
// logicalplan.Build does not emit it (a WITH becomes a Projection of kind
// With), and pass 5 builds its Cte from that Projection, not from a
// WithClause.
type WithClause struct {
	Input           Node
	CteName         string
	ExportedAliases []WithClauseExportedAlias
}

func (w *WithClause) Children() []Node { return []Node{w.Input} }

func (w *WithClause) WithChildren(children ...Node) (Node, error) {
	child, err := withOneChild("WithClause", children)
	if err != nil {
		return nil, err
	}
	return &WithClause{Input: child, CteName: w.CteName, ExportedAliases: w.ExportedAliases}, nil
}

func (w *WithClause) String() string { return "WithClause(" + w.CteName + ")" }

// Cte is a named subquery (spec.md section 3.2), produced by pass 5 from a
// Projection of kind With. Traversal CTEs are not Cte nodes: passes 3 and 4
// record their names, and lowering emits them.
type Cte struct {
	Name  string
	Input Node
}

func NewCte(name string, input Node) *Cte { return &Cte{Name: name, Input: input} }

func (c *Cte) Children() []Node { return []Node{c.Input} }

func (c *Cte) WithChildren(children ...Node) (Node, error) {
	child, err := withOneChild("Cte", children)
	if err != nil {
		return nil, err
	}
	return &Cte{Name: c.Name, Input: child}, nil
}

func (c *Cte) String() string { return "Cte(" + c.Name + ")" }

// UnionKind distinguishes UNION (Distinct) from UNION ALL (All).
type UnionKind int

const (
	Distinct UnionKind = iota
	All
)

// Union is the UNION node (spec.md section 3.2).
type Union struct {
	Inputs []Node
	Kind   UnionKind
}

func NewUnion(kind UnionKind, inputs ...Node) *Union { return &Union{Kind: kind, Inputs: inputs} }

func (u *Union) Children() []Node { return u.Inputs }

func (u *Union) WithChildren(children ...Node) (Node, error) {
	return &Union{Inputs: children, Kind: u.Kind}, nil
}

func (u *Union) String() string {
	if u.Kind == All {
		return "UnionAll"
	}
	return "Union"
}

// JoinType mirrors spec.md section 3.3's render-plan join type; kept here
// too because GraphJoins (an analyzer-emitted scaffold) already commits to
// a join type per entry before lowering ever runs.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
)

// GraphJoinEntry is one entry of a GraphJoins node: either the FROM marker
// (Table == anchor, empty OnConditions) or a real join.
type GraphJoinEntry struct {
	Table         string
	Alias         string
	OnConditions  []logicalexpr.Expression
	Type          JoinType
	PreFilter     logicalexpr.Expression // optional, attached to ON not WHERE
	EdgeColumnTag string                 // "from_id" / "to_id", for NULL-semantics bookkeeping

	// VarLength is non-nil when this entry is the relationship side of a
	// variable-length/shortest-path hop (spec.md section 4.3): Table names
	// the CTE lowering must still synthesize via vlp.ChainedJoinGenerator
	// or vlp.VariableLengthCteGenerator rather than a plain edge-list/
	// bitmap CTE, and EdgeColumnTag is "start_id"/"end_id" instead of
	// "from_id"/"to_id".
	VarLength        *logicalexpr.VariableLengthSpec
	ShortestMode     logicalexpr.ShortestPathMode
	PathVariable     string
	RelLabels        []string
	Direction        logicalexpr.Direction
	StartNodeFilters []logicalexpr.Expression
	EndNodeFilters   []logicalexpr.Expression
	RelFilters       []logicalexpr.Expression
	PathFuncFilters  []logicalexpr.Expression
}

// GraphJoins is the analyzer-emitted join scaffold (spec.md section 3.2,
// produced by pass 4).
type GraphJoins struct {
	Input            Node
	Joins            []GraphJoinEntry
	AnchorTable      string
	CteReferences    []string
	OptionalAliases  []string
}

func (g *GraphJoins) Children() []Node { return []Node{g.Input} }

func (g *GraphJoins) WithChildren(children ...Node) (Node, error) {
	child, err := withOneChild("GraphJoins", children)
	if err != nil {
		return nil, err
	}
	out := *g
	out.Input = child
	return &out, nil
}

func (g *GraphJoins) String() string { return "GraphJoins(" + g.AnchorTable + ")" }
