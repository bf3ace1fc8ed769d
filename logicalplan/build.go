package logicalplan

import (
	"strconv"

	"github.com/brahmand-io/graphplan/ast"
	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/perr"
)

// Build translates a parsed openCypher AST (an external collaborator's
// output, spec.md section 6.1) into an unannotated logical plan. The
// result's Scan/GraphNode/GraphRel nodes carry no schema information yet —
// that is analyzer pass 1's job (ViewScan resolution).
func Build(q *ast.Query) (Node, error) {
	if len(q.Union) > 0 {
		return buildUnion(q)
	}
	return buildSingleQuery(q)
}

func buildUnion(q *ast.Query) (Node, error) {
	first, err := buildSingleQuery(&ast.Query{Clauses: q.Clauses, Return: q.Return})
	if err != nil {
		return nil, err
	}
	inputs := []Node{first}
	kind := Distinct
	for _, branch := range q.Union {
		n, err := Build(branch.Query)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, n)
		if branch.All {
			kind = All
		}
	}
	return NewUnion(kind, inputs...), nil
}

func buildSingleQuery(q *ast.Query) (Node, error) {
	var cur Node
	seen := map[string]bool{}

	for _, clause := range q.Clauses {
		switch {
		case clause.Match != nil:
			n, err := buildMatch(clause.Match, cur, seen)
			if err != nil {
				return nil, err
			}
			cur = n
		case clause.With != nil:
			n, err := buildProjection(With, clause.With, cur)
			if err != nil {
				return nil, err
			}
			cur = n
			// A WITH boundary resets alias visibility bookkeeping: only
			// its exported items are visible downstream. We keep `seen`
			// best-effort (not cleared) since later passes re-derive
			// scope from the plan tree, not from this builder's bookkeeping.
		case clause.Unwind != nil:
			cur = NewUnwind(clause.Unwind.Expr, clause.Unwind.Alias, cur)
		}
	}

	if q.Return == nil {
		return cur, nil
	}
	return buildProjection(Return, q.Return, cur)
}

func buildMatch(m *ast.MatchClause, prior Node, seen map[string]bool) (Node, error) {
	if len(m.Patterns) == 0 {
		return nil, perr.EmptyPatternKind.New()
	}

	var matched Node
	for _, p := range m.Patterns {
		n, err := buildPathPattern(p, m.Optional, seen)
		if err != nil {
			return nil, err
		}
		if matched == nil {
			matched = n
		} else {
			matched = NewCartesianProduct(matched, n)
			if m.Optional {
				matched.(*CartesianProduct).IsOptional = true
			}
		}
	}

	if m.Where != nil {
		matched = NewFilter(m.Where, matched)
	}

	if prior == nil {
		return matched, nil
	}
	cp := NewCartesianProduct(prior, matched)
	cp.IsOptional = m.Optional
	return cp, nil
}

// buildPathPattern turns one connected chain of nodes/rels into a
// left-deep GraphRel tree: ((a)-[r1]-(b))-[r2]-(c) becomes a GraphRel whose
// Left is the GraphRel for (a)-[r1]-(b) and whose Right is GraphNode(c).
func buildPathPattern(p ast.PathPattern, optional bool, seen map[string]bool) (Node, error) {
	if len(p.Nodes) == 0 {
		return nil, perr.EmptyPatternKind.New()
	}

	nodeNode := func(np ast.NodePattern) (*GraphNode, error) {
		alias := np.Variable
		if alias != "" {
			if seen[alias] {
				return nil, perr.AmbiguousAliasKind.New(alias)
			}
			seen[alias] = true
		}
		return NewGraphNode(alias, np.Label, NewScan("", alias)), nil
	}

	first, err := nodeNode(p.Nodes[0])
	if err != nil {
		return nil, err
	}

	var cur Node = first
	leftAlias := first.Alias

	for i, rel := range p.Rels {
		right, err := nodeNode(p.Nodes[i+1])
		if err != nil {
			return nil, err
		}

		relAlias := rel.Variable
		if relAlias == "" {
			// The analyzer keys per-relationship state by alias, so an
			// anonymous relationship gets a generated one, reserved in seen.
			relAlias = "__rel_" + strconv.Itoa(len(seen))
			seen[relAlias] = true
		}

		gr := &GraphRel{
			Alias:            relAlias,
			Left:             cur,
			Right:            right,
			LeftConnection:   leftAlias,
			RightConnection:  right.Alias,
			Direction:        rel.Direction,
			Labels:           rel.Types,
			VariableLength:   rel.VarLength,
			ShortestPathMode: rel.Shortest,
			PathVariable:     p.PathVariable,
			IsOptional:       optional,
			IsRelAnchor:      i == 0,
		}
		cur = gr
		leftAlias = right.Alias
	}

	return cur, nil
}

func buildProjection(kind ProjectionKind, pc *ast.ProjectionClause, child Node) (Node, error) {
	items := make([]ProjectionItem, len(pc.Items))
	hasAgg := false
	for i, it := range pc.Items {
		items[i] = ProjectionItem{Expr: it.Expr, Alias: it.Alias}
		if containsAggregate(it.Expr) {
			hasAgg = true
		}
	}

	var cur Node = child
	if kind == With && pc.Where != nil {
		// WITH's own WHERE filters the upstream rows before projection;
		// the outer HAVING-position filter (post-aggregation) is handled
		// by wrapping GroupBy below when aggregates are present.
		if !hasAgg {
			cur = NewFilter(pc.Where, cur)
		}
	}

	if hasAgg {
		var groupExprs []logicalexpr.Expression
		for _, it := range pc.Items {
			if !containsAggregate(it.Expr) {
				groupExprs = append(groupExprs, it.Expr)
			}
		}
		var having logicalexpr.Expression
		if kind == With {
			having = pc.Where
		}
		cur = NewGroupBy(groupExprs, having, cur)
	}

	var out Node = NewProjection(kind, items, cur)

	if len(pc.OrderBy) > 0 {
		obItems := make([]OrderByItem, len(pc.OrderBy))
		for i, o := range pc.OrderBy {
			obItems[i] = OrderByItem{Expr: o.Expr, Descending: o.Descending}
		}
		out = NewOrderBy(obItems, out)
	}
	if pc.Skip != nil {
		out = NewSkip(pc.Skip, out)
	}
	if pc.Limit != nil {
		out = NewLimit(pc.Limit, out)
	}
	return out, nil
}

// containsAggregate reports whether e contains an AggregateCall anywhere in
// its tree, used to decide whether a WITH/RETURN needs an implicit GroupBy
// (spec.md section 3.2: "Implicit or explicit aggregation key").
func containsAggregate(e logicalexpr.Expression) bool {
	if e == nil {
		return false
	}
	if _, ok := e.(*logicalexpr.AggregateCall); ok {
		return true
	}
	for _, c := range e.Children() {
		if containsAggregate(c) {
			return true
		}
	}
	return false
}
