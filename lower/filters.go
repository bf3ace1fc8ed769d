package lower

import (
	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/renderplan"
)

// routeFilters implements the join-prefilter half of spec.md section 4.4.4:
// a predicate conjunct referencing exactly one alias, where that alias is
// the right-hand side of an OPTIONAL MATCH join (a LeftJoin entry), moves
// into that join's PreFilter instead of the outer WHERE — evaluating it in
// WHERE would silently turn the LEFT JOIN into an INNER JOIN once ClickHouse
// drops the unmatched NULL row. Path-function predicates and anything
// referencing more than one alias (or the anchor) stay in the outer filter.
func routeFilters(rp *renderplan.RenderPlan, pred logicalexpr.Expression) {
	optional := optionalJoinAliases(rp)
	for _, c := range splitConjuncts(pred) {
		alias, ok := soleAlias(c)
		if ok && optional[alias] {
			idx := joinIndexForAlias(rp, alias)
			if idx >= 0 {
				rp.Joins[idx].PreFilter = andExpr(rp.Joins[idx].PreFilter, c)
				continue
			}
		}
		rp.Filters = andExpr(rp.Filters, c)
	}
}

func optionalJoinAliases(rp *renderplan.RenderPlan) map[string]bool {
	out := map[string]bool{}
	for _, j := range rp.Joins {
		if j.Type == renderplan.LeftJoin {
			out[j.Alias] = true
		}
	}
	return out
}

func joinIndexForAlias(rp *renderplan.RenderPlan, alias string) int {
	for i, j := range rp.Joins {
		if j.Alias == alias {
			return i
		}
	}
	return -1
}

func splitConjuncts(e logicalexpr.Expression) []logicalexpr.Expression {
	if e == nil {
		return nil
	}
	if b, ok := e.(*logicalexpr.BinaryExpr); ok && b.Op == logicalexpr.OpAnd {
		return append(splitConjuncts(b.Left), splitConjuncts(b.Right)...)
	}
	return []logicalexpr.Expression{e}
}

// soleAlias reports the single alias a render-stage predicate conjunct
// references, or ok=false if it references zero, more than one, or an
// alias indeterminable from the expression shape (Raw/PatternCount text,
// which is opaque SQL rather than a typed tree).
func soleAlias(e logicalexpr.Expression) (string, bool) {
	seen := map[string]bool{}
	var walk func(logicalexpr.Expression)
	walk = func(e logicalexpr.Expression) {
		if c, ok := e.(*logicalexpr.Column); ok && c.Table != "" {
			seen[c.Table] = true
		}
		for _, c := range e.Children() {
			walk(c)
		}
	}
	walk(e)
	if len(seen) != 1 {
		return "", false
	}
	for a := range seen {
		return a, true
	}
	return "", false
}

// applyPendingCteFilters ANDs any variable-length end-node filters that a
// VLP CTE could not push into its own body (shortest-path mode off, so
// preserving LEFT JOIN semantics requires applying it after the join) and
// any cycle-prevention guards accumulated during traversal CTE emission
// onto the outer WHERE (spec.md section 4.4.4's last two bullets). Called
// once the whole plan is lowered, since a Filter node above a GraphJoins
// handles its own predicate before traversal CTE emission has necessarily
// run for every hop.
func (lw *Lowerer) applyPendingCteFilters(rp *renderplan.RenderPlan) {
	for _, sql := range lw.cteCtx.PendingEndFilters {
		rp.Filters = andExpr(rp.Filters, renderplan.NewRaw(sql))
	}
	for _, sql := range lw.cteCtx.CycleGuardPairs {
		rp.Filters = andExpr(rp.Filters, renderplan.NewRaw(sql))
	}
}
