package analyzer

import (
	"context"
	"strconv"

	"github.com/brahmand-io/graphplan/logicalplan"
	"github.com/brahmand-io/graphplan/schema"
)

// withCtePipelining is analyzer pass 5: every WITH projection becomes a
// named Cte boundary (spec.md section 4.2 pass 5), named
// with_<anchor>_cte_<n> in encounter order. Exported aliases are recorded
// as WithClauseExportedAlias entries in PlanContext.CteExports, which
// lowering does not read; rewriting downstream references
// into CteEntityRef is left to lowering's FROM/JOIN/SELECT stages, which
// already walk the consuming node directly above the Cte and have the
// exported alias list in hand — there is no scope further removed from a
// WITH than its immediate parent in this algebra, since logicalplan.Build
// always threads a WITH's output straight into the next clause's Child.
func withCtePipelining(_ context.Context, n logicalplan.Node, pctx *PlanContext, sch *schema.GraphSchema) (logicalplan.Node, *PlanContext, bool, error) {
	counter := 0
	out, changed, err := pipelineWith(n, pctx, &counter)
	if err != nil {
		return nil, nil, false, err
	}
	return out, pctx, changed, nil
}

func pipelineWith(n logicalplan.Node, pctx *PlanContext, counter *int) (logicalplan.Node, bool, error) {
	children := n.Children()
	newChildren := make([]logicalplan.Node, len(children))
	anyChanged := false
	for i, c := range children {
		nc, changed, err := pipelineWith(c, pctx, counter)
		if err != nil {
			return nil, false, err
		}
		newChildren[i] = nc
		if changed {
			anyChanged = true
		}
	}
	cur := n
	if anyChanged {
		rebuilt, err := n.WithChildren(newChildren...)
		if err != nil {
			return nil, false, err
		}
		cur = rebuilt
	}

	proj, ok := cur.(*logicalplan.Projection)
	if !ok || proj.Kind != logicalplan.With {
		return cur, anyChanged, nil
	}

	anchor := "scope"
	for _, it := range proj.Items {
		if it.Alias != "" {
			anchor = it.Alias
			break
		}
	}
	name := "with_" + anchor + "_cte_" + strconv.Itoa(*counter)
	*counter++

	cte := logicalplan.NewCte(name, proj.Child)
	for _, it := range proj.Items {
		if it.Alias != "" {
			pctx.CteExports[name] = append(pctx.CteExports[name], logicalplan.WithClauseExportedAlias{Alias: it.Alias})
		}
	}
	return cte, true, nil
}
