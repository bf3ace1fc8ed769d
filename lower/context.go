// Package lower turns an analyzed logical plan into a renderplan.RenderPlan
// (spec.md section 4.4): CTE extraction, FROM selection, JOIN synthesis,
// filter extraction, SELECT/GROUP BY/ORDER BY building, and UNION lowering,
// each a method on Lowerer threading a *CteGenerationContext the way the
// teacher's own sql/plan building code threads a *sql.Scope through nested
// builder calls.
package lower

import (
	"github.com/brahmand-io/graphplan/analyzer"
	"github.com/brahmand-io/graphplan/internal/arena"
	"github.com/brahmand-io/graphplan/schema"
)

// CteGenerationContext is the single-owner record threaded top-down through
// lowering and read back for outer filters (spec.md section 5, last
// paragraph). Variable-length end-node filters discovered while emitting a
// VLP CTE are stashed here for the enclosing query to apply, unless they
// were already pushed into the CTE body (shortest-path mode).
type CteGenerationContext struct {
	// PendingEndFilters maps a VLP CTE name to the end-node filter SQL text
	// vlp.Result.EndFilterPushed reported as NOT pushed; the outer query
	// must still apply it in its own WHERE.
	PendingEndFilters map[string]string

	// EmittedCtes is the set of CTE names emitted so far, so a CTE
	// referenced more than once is emitted only once.
	EmittedCtes map[string]bool

	// CycleGuardPairs holds node-disjointness predicates that filter
	// extraction adds to the outer WHERE. Nothing in this package appends
	// to it; vlp.ChainedJoinGenerator writes its cycle guards (spec.md
	// section 4.3) into the CTE body instead.
	CycleGuardPairs []string
}

// NewCteGenerationContext returns an empty context for one Lower call.
func NewCteGenerationContext() *CteGenerationContext {
	return &CteGenerationContext{
		PendingEndFilters: map[string]string{},
		EmittedCtes:       map[string]bool{},
	}
}

// Lowerer holds the per-query state every lowering sub-builder needs:
// the schema the plan was analyzed against, the PlanContext built up by the
// analyzer pipeline, and the arena for any synthetic names lowering itself
// must mint (e.g. a generated join alias for a denormalized self-join).
type Lowerer struct {
	Schema *schema.GraphSchema
	Plan   *analyzer.PlanContext
	Arena  *arena.Arena

	cteCtx *CteGenerationContext
}

// NewLowerer constructs a Lowerer for one query's lowering pass.
func NewLowerer(sch *schema.GraphSchema, pctx *analyzer.PlanContext, ar *arena.Arena) *Lowerer {
	return &Lowerer{Schema: sch, Plan: pctx, Arena: ar, cteCtx: NewCteGenerationContext()}
}
