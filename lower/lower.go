package lower

import (
	"github.com/spf13/cast"

	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
	"github.com/brahmand-io/graphplan/perr"
	"github.com/brahmand-io/graphplan/renderplan"
)

// LowerQuery is the entry point planner calls: it lowers the whole plan and
// then applies any variable-length end-filter / cycle-guard predicates that
// traversal CTE emission deferred to the outer WHERE (spec.md section
// 4.4.4's last two bullets), which only fully accumulate once every hop in
// the plan has been visited.
func (lw *Lowerer) LowerQuery(n logicalplan.Node) (*renderplan.RenderPlan, error) {
	rp, err := lw.Lower(n)
	if err != nil {
		return nil, err
	}
	lw.applyPendingCteFilters(rp)
	return rp, nil
}

// Lower converts an analyzed logical plan into a render plan (spec.md
// section 4.4). Each logicalplan.Node kind it supports has its own case
// below; a GraphNode, ViewScan or Scan reached directly lowers to a bare
// FROM. A GraphRel reached directly has no case and, like WithClause and
// PageRank, is rejected with UnsupportedFeature.
func (lw *Lowerer) Lower(n logicalplan.Node) (*renderplan.RenderPlan, error) {
	switch v := n.(type) {
	case *logicalplan.OrderBy:
		rp, err := lw.Lower(v.Child)
		if err != nil {
			return nil, err
		}
		items := make([]renderplan.OrderByItem, len(v.Items))
		for i, it := range v.Items {
			e, err := lw.ConvertExpression(it.Expr)
			if err != nil {
				return nil, err
			}
			items[i] = renderplan.OrderByItem{Expr: e, Desc: it.Descending}
		}
		rp.OrderBy = items
		return rp, nil

	case *logicalplan.Skip:
		rp, err := lw.Lower(v.Child)
		if err != nil {
			return nil, err
		}
		n, err := literalInt64(v.Count)
		if err != nil {
			return nil, err
		}
		rp.Skip = n
		return rp, nil

	case *logicalplan.Limit:
		rp, err := lw.Lower(v.Child)
		if err != nil {
			return nil, err
		}
		n, err := literalInt64(v.Count)
		if err != nil {
			return nil, err
		}
		rp.Limit = n
		return rp, nil

	case *logicalplan.Union:
		return lw.lowerUnion(v)

	case *logicalplan.GroupBy:
		rp, err := lw.Lower(v.Child)
		if err != nil {
			return nil, err
		}
		gb, err := lw.buildGroupBy(v.Expressions)
		if err != nil {
			return nil, err
		}
		rp.GroupBy = gb
		if v.Having != nil {
			h, err := lw.ConvertExpression(v.Having)
			if err != nil {
				return nil, err
			}
			rp.Having = h
		}
		return rp, nil

	case *logicalplan.Projection:
		rp, err := lw.Lower(v.Child)
		if err != nil {
			return nil, err
		}
		items, err := lw.buildSelect(v.Items)
		if err != nil {
			return nil, err
		}
		rp.Select = items
		rp.Distinct = v.Distinct
		if len(rp.Select) == 0 {
			return nil, perr.MissingSelectItemsKind.New()
		}
		return rp, nil

	case *logicalplan.Filter:
		rp, err := lw.Lower(v.Child)
		if err != nil {
			return nil, err
		}
		pred, err := lw.ConvertExpression(v.Predicate)
		if err != nil {
			return nil, err
		}
		routeFilters(rp, pred)
		return rp, nil

	case *logicalplan.Unwind:
		rp, err := lw.Lower(v.Child)
		if err != nil {
			return nil, err
		}
		e, err := lw.ConvertExpression(v.Expr)
		if err != nil {
			return nil, err
		}
		rp.ArrayJoins = append(rp.ArrayJoins, renderplan.ArrayJoinItem{Expr: e, Alias: v.Alias})
		return rp, nil

	case *logicalplan.CartesianProduct:
		return lw.lowerCartesian(v)

	case *logicalplan.Cte:
		return lw.lowerCte(v)

	case *logicalplan.GraphJoins:
		return lw.lowerGraphJoins(v)

	case *logicalplan.GraphNode:
		table, err := logicalplan.ExtractTableName(v)
		if err != nil {
			return nil, err
		}
		return &renderplan.RenderPlan{From: &renderplan.FromRef{Table: table, Alias: v.Alias}}, nil

	case *logicalplan.ViewScan:
		return &renderplan.RenderPlan{From: &renderplan.FromRef{Table: v.SourceTable}}, nil

	case *logicalplan.Scan:
		return &renderplan.RenderPlan{From: &renderplan.FromRef{Table: v.Table, Alias: v.Alias}}, nil

	case *logicalplan.Empty:
		// Pure standalone RETURN / UNWIND-only query: spec.md section 4.4.2
		// point 4 uses a 1-row dummy table so the rest of the SELECT
		// machinery (which always assumes a FROM) still applies uniformly.
		return &renderplan.RenderPlan{From: &renderplan.FromRef{Table: "system.one"}}, nil

	default:
		return nil, perr.UnsupportedFeatureKind.New("lowering has no rule for " + n.String())
	}
}

func (lw *Lowerer) lowerUnion(u *logicalplan.Union) (*renderplan.RenderPlan, error) {
	if len(u.Inputs) == 0 {
		return nil, perr.MissingFromTableKind.New()
	}
	plans := make([]*renderplan.RenderPlan, len(u.Inputs))
	for i, in := range u.Inputs {
		p, err := lw.Lower(in)
		if err != nil {
			return nil, err
		}
		plans[i] = p
	}
	// Recursively lowers each branch, then chains Union links in branch
	// order: each branch's RenderPlan.Union points at the next one (spec.md
	// section 4.4.8).
	root := plans[0]
	cur := root
	for i := 1; i < len(plans); i++ {
		cur.Union = &renderplan.UnionPlan{Next: plans[i], Distinct: u.Kind == logicalplan.Distinct}
		cur = plans[i]
	}
	return root, nil
}

func (lw *Lowerer) lowerCartesian(c *logicalplan.CartesianProduct) (*renderplan.RenderPlan, error) {
	left, err := lw.Lower(c.Left)
	if err != nil {
		return nil, err
	}
	right, err := lw.Lower(c.Right)
	if err != nil {
		return nil, err
	}
	if right.From == nil {
		return nil, perr.MissingFromTableKind.New()
	}
	jt := renderplan.CrossJoin
	if c.IsOptional {
		jt = renderplan.LeftJoin
	}
	entry := renderplan.JoinEntry{Table: right.From.Table, Alias: right.From.Alias, Type: jt}
	if c.JoinCondition != nil {
		cond, err := lw.ConvertExpression(c.JoinCondition)
		if err != nil {
			return nil, err
		}
		entry.On = []logicalexpr.Expression{cond}
	}
	left.Joins = append(left.Joins, entry)
	left.Joins = append(left.Joins, right.Joins...)
	left.Select = append(left.Select, right.Select...)
	left.GroupBy = append(left.GroupBy, right.GroupBy...)
	left.ArrayJoins = append(left.ArrayJoins, right.ArrayJoins...)
	left.Filters = andExpr(left.Filters, right.Filters)
	return left, nil
}

// lowerCte lowers a WITH-pipelined Cte node (spec.md section 4.2 pass 5 /
// section 4.4.1): the body becomes a CteEntry, and the continuing query
// simply selects from the materialized CTE by name — its exported aliases'
// columns are available as <cte>.<alias>_<column>.
func (lw *Lowerer) lowerCte(c *logicalplan.Cte) (*renderplan.RenderPlan, error) {
	body, err := lw.Lower(c.Input)
	if err != nil {
		return nil, err
	}
	lw.cteCtx.EmittedCtes[c.Name] = true
	return &renderplan.RenderPlan{
		Ctes: []renderplan.CteEntry{{Name: c.Name, Plan: body}},
		From: &renderplan.FromRef{Table: c.Name, Alias: c.Name},
	}, nil
}

func andExpr(a, b logicalexpr.Expression) logicalexpr.Expression {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return logicalexpr.NewBinary(logicalexpr.OpAnd, a, b)
}

func literalInt64(e logicalexpr.Expression) (*int64, error) {
	lit, ok := e.(*logicalexpr.Literal)
	if !ok {
		return nil, perr.InvalidRenderPlanKind.New("SKIP/LIMIT must be a literal")
	}
	n, err := cast.ToInt64E(lit.Value)
	if err != nil {
		return nil, perr.InvalidRenderPlanKind.New("SKIP/LIMIT literal must be an integer")
	}
	return &n, nil
}
