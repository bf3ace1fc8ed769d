package logicalplan

import "github.com/brahmand-io/graphplan/logicalexpr"

// Expressions/WithExpressions implementations let transform.ExpressionContainer
// rewrite every expression a plan node owns without the transform package
// needing a type switch over every node kind (spec.md section 4.2 pass 6
// relies on this to rewrite property accesses wherever they appear: WHERE,
// projections, ORDER BY, GROUP BY, and GraphRel's categorized predicate
// buckets).

func (f *Filter) Expressions() []logicalexpr.Expression { return []logicalexpr.Expression{f.Predicate} }
func (f *Filter) WithExpressions(exprs ...logicalexpr.Expression) (Node, error) {
	out := *f
	out.Predicate = exprs[0]
	return &out, nil
}

func (p *Projection) Expressions() []logicalexpr.Expression {
	out := make([]logicalexpr.Expression, len(p.Items))
	for i, it := range p.Items {
		out[i] = it.Expr
	}
	return out
}
func (p *Projection) WithExpressions(exprs ...logicalexpr.Expression) (Node, error) {
	out := *p
	items := make([]ProjectionItem, len(p.Items))
	for i, it := range p.Items {
		items[i] = ProjectionItem{Expr: exprs[i], Alias: it.Alias}
	}
	out.Items = items
	return &out, nil
}

func (g *GroupBy) Expressions() []logicalexpr.Expression {
	out := append([]logicalexpr.Expression{}, g.Expressions...)
	if g.Having != nil {
		out = append(out, g.Having)
	}
	return out
}
func (g *GroupBy) WithExpressions(exprs ...logicalexpr.Expression) (Node, error) {
	out := *g
	n := len(g.Expressions)
	out.Expressions = append([]logicalexpr.Expression{}, exprs[:n]...)
	if g.Having != nil {
		out.Having = exprs[n]
	}
	return &out, nil
}

func (o *OrderBy) Expressions() []logicalexpr.Expression {
	out := make([]logicalexpr.Expression, len(o.Items))
	for i, it := range o.Items {
		out[i] = it.Expr
	}
	return out
}
func (o *OrderBy) WithExpressions(exprs ...logicalexpr.Expression) (Node, error) {
	out := *o
	items := make([]OrderByItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderByItem{Expr: exprs[i], Descending: it.Descending}
	}
	out.Items = items
	return &out, nil
}

func (u *Unwind) Expressions() []logicalexpr.Expression { return []logicalexpr.Expression{u.Expr} }
func (u *Unwind) WithExpressions(exprs ...logicalexpr.Expression) (Node, error) {
	out := *u
	out.Expr = exprs[0]
	return &out, nil
}

func (c *CartesianProduct) Expressions() []logicalexpr.Expression {
	if c.JoinCondition == nil {
		return nil
	}
	return []logicalexpr.Expression{c.JoinCondition}
}
func (c *CartesianProduct) WithExpressions(exprs ...logicalexpr.Expression) (Node, error) {
	out := *c
	if c.JoinCondition != nil {
		out.JoinCondition = exprs[0]
	}
	return &out, nil
}

// Expressions on GraphRel exposes WherePredicate plus the four categorized
// buckets pass 8 fills in, so property mapping (pass 6) reaches predicates
// that have already been sorted into start/end/rel/path-func buckets.
func (g *GraphRel) Expressions() []logicalexpr.Expression {
	var out []logicalexpr.Expression
	if g.WherePredicate != nil {
		out = append(out, g.WherePredicate)
	}
	out = append(out, g.StartNodeFilters...)
	out = append(out, g.EndNodeFilters...)
	out = append(out, g.RelFilters...)
	out = append(out, g.PathFuncFilters...)
	return out
}
func (g *GraphRel) WithExpressions(exprs ...logicalexpr.Expression) (Node, error) {
	out := *g
	i := 0
	if g.WherePredicate != nil {
		out.WherePredicate = exprs[i]
		i++
	}
	take := func(n int) []logicalexpr.Expression {
		s := exprs[i : i+n]
		i += n
		return s
	}
	out.StartNodeFilters = take(len(g.StartNodeFilters))
	out.EndNodeFilters = take(len(g.EndNodeFilters))
	out.RelFilters = take(len(g.RelFilters))
	out.PathFuncFilters = take(len(g.PathFuncFilters))
	return &out, nil
}

func (g *GraphJoins) Expressions() []logicalexpr.Expression {
	var out []logicalexpr.Expression
	for _, j := range g.Joins {
		out = append(out, j.OnConditions...)
		if j.PreFilter != nil {
			out = append(out, j.PreFilter)
		}
	}
	return out
}
func (g *GraphJoins) WithExpressions(exprs ...logicalexpr.Expression) (Node, error) {
	out := *g
	joins := append([]GraphJoinEntry{}, g.Joins...)
	i := 0
	for idx, j := range joins {
		n := len(j.OnConditions)
		joins[idx].OnConditions = append([]logicalexpr.Expression{}, exprs[i:i+n]...)
		i += n
		if j.PreFilter != nil {
			joins[idx].PreFilter = exprs[i]
			i++
		}
	}
	out.Joins = joins
	return &out, nil
}

func (v *ViewScan) Expressions() []logicalexpr.Expression {
	var out []logicalexpr.Expression
	if v.ViewFilter != nil {
		out = append(out, v.ViewFilter)
	}
	if v.SchemaFilter != nil {
		out = append(out, v.SchemaFilter)
	}
	return out
}
func (v *ViewScan) WithExpressions(exprs ...logicalexpr.Expression) (Node, error) {
	out := *v
	i := 0
	if v.ViewFilter != nil {
		out.ViewFilter = exprs[i]
		i++
	}
	if v.SchemaFilter != nil {
		out.SchemaFilter = exprs[i]
	}
	return &out, nil
}
