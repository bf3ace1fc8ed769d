package analyzer

import (
	"context"

	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
	"github.com/brahmand-io/graphplan/schema"
	"github.com/brahmand-io/graphplan/transform"
)

// polymorphicEdgeFilterInjection is analyzer pass 7: for edges whose
// relationship schema carries a polymorphic type column, append a
// conjunctive type/label constraint to the edge join's pre-filter (spec.md
// section 4.2 pass 7). Built as a typed expression tree (BinaryExpr/InTuple)
// rather than the render-plan-level `Raw` string the spec mentions — Raw is
// a renderplan concept introduced once lowering has SQL text to carry;
// at the logical-plan stage, a conjunction of typed comparisons is the
// equivalent construct and keeps the predicate rewritable by later passes.
func polymorphicEdgeFilterInjection(_ context.Context, n logicalplan.Node, pctx *PlanContext, sch *schema.GraphSchema) (logicalplan.Node, *PlanContext, bool, error) {
	out, ti, err := transform.TransformUp(n, func(node logicalplan.Node) (logicalplan.Node, transform.TreeIdentity, error) {
		gj, ok := node.(*logicalplan.GraphJoins)
		if !ok {
			return node, transform.SameTree, nil
		}
		changed := false
		joins := append([]logicalplan.GraphJoinEntry{}, gj.Joins...)
		for i, j := range joins {
			info, ok := pctx.Aliases[j.Alias]
			if !ok || info.RelSchema == nil || !info.RelSchema.IsPolymorphic() {
				continue
			}
			pred := polymorphicConstraint(info, j.Alias)
			if j.PreFilter != nil {
				pred = logicalexpr.NewBinary(logicalexpr.OpAnd, j.PreFilter, pred)
			}
			joins[i].PreFilter = pred
			changed = true
		}
		if !changed {
			return node, transform.SameTree, nil
		}
		out := *gj
		out.Joins = joins
		return &out, transform.NewTree, nil
	})
	if err != nil {
		return nil, nil, false, err
	}
	return out, pctx, ti == transform.NewTree, nil
}

func polymorphicConstraint(info *AliasInfo, relAlias string) logicalexpr.Expression {
	rs := info.RelSchema
	var values []logicalexpr.Expression
	for _, v := range rs.PolymorphicTypeValues {
		values = append(values, logicalexpr.NewLiteral(v))
	}
	typeIn := &logicalexpr.InTuple{
		Left:  logicalexpr.NewColumn(relAlias, rs.PolymorphicTypeColumn),
		Right: &logicalexpr.List{Items: values},
	}
	fromEq := logicalexpr.NewBinary(logicalexpr.OpEq,
		logicalexpr.NewColumn(info.LeftLabel, "label"), logicalexpr.NewLiteral(info.LeftLabel))
	toEq := logicalexpr.NewBinary(logicalexpr.OpEq,
		logicalexpr.NewColumn(info.RightLabel, "label"), logicalexpr.NewLiteral(info.RightLabel))
	return logicalexpr.NewBinary(logicalexpr.OpAnd, typeIn, logicalexpr.NewBinary(logicalexpr.OpAnd, fromEq, toEq))
}
