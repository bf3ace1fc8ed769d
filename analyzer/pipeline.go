package analyzer

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"

	"github.com/brahmand-io/graphplan/internal/arena"
	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
	"github.com/brahmand-io/graphplan/perr"
	"github.com/brahmand-io/graphplan/schema"
	"github.com/brahmand-io/graphplan/transform"
)

// Analyze runs the fixed eight-pass pipeline over n, in order, returning the
// rewritten plan and the PlanContext accumulated along the way. A span
// named "planner.analyze" is opened off ctx (a no-op when no tracer is
// registered), grounded on the teacher wiring opentracing through its own
// query path in engine.go.
func (a *Analyzer) Analyze(ctx context.Context, n logicalplan.Node, sch *schema.GraphSchema, ar *arena.Arena) (logicalplan.Node, *PlanContext, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "planner.analyze")
	defer span.Finish()

	pctx := NewPlanContext()
	cur := n

	ordered := []pass{
		{"viewscan_resolution", viewScanResolution},
		{"graph_context_building", graphContextBuilding},
		// variable_length_tagging runs here, ahead of its documented
		// position as pass 8, because graph_join_inference (next) rewrites
		// every reachable GraphRel into a GraphJoins scaffold; tagging a
		// Filter sitting above a variable-length GraphRel only works while
		// that GraphRel still exists in the tree. Nothing it reads
		// (LeftConnection/RightConnection/Alias, all set at parse time) or
		// writes (the GraphRel's own filter buckets) depends on any pass
		// between here and its old position, so moving it earlier changes
		// no outcome, only when it observes the tree.
		{"variable_length_tagging", variableLengthTagging},
		{"graph_traversal_planning", func(ctx context.Context, n logicalplan.Node, p *PlanContext, s *schema.GraphSchema) (logicalplan.Node, *PlanContext, bool, error) {
			return planGraphTraversal(ctx, n, p, s, ar)
		}},
		{"graph_join_inference", graphJoinInference},
		{"with_cte_pipelining", withCtePipelining},
	}

	for _, p := range ordered {
		start := time.Now()
		out, newCtx, changed, err := p.run(ctx, cur, pctx, sch)
		if err != nil {
			return nil, nil, err
		}
		cur, pctx = out, newCtx
		a.logPass(p.name, changed, time.Since(start))
	}

	// Pass 6 (property/filter mapping) is documented idempotent and runs to
	// a fixed point, re-running until an iteration reports no change.
	start := time.Now()
	iterations := 0
	for {
		iterations++
		out, newCtx, changed, err := propertyFilterMapping(ctx, cur, pctx, sch)
		if err != nil {
			return nil, nil, err
		}
		cur, pctx = out, newCtx
		if !changed {
			break
		}
		if iterations >= a.Opts.MaxFixedPointIterations {
			a.Opts.Logger.WithField("iterations", iterations).Warn("property/filter mapping did not reach a fixed point")
			break
		}
	}
	a.logPass("property_filter_mapping", iterations > 1, time.Since(start))

	tail := []pass{
		{"polymorphic_edge_filter_injection", polymorphicEdgeFilterInjection},
	}
	for _, p := range tail {
		start := time.Now()
		out, newCtx, changed, err := p.run(ctx, cur, pctx, sch)
		if err != nil {
			return nil, nil, err
		}
		cur, pctx = out, newCtx
		a.logPass(p.name, changed, time.Since(start))
	}

	return cur, pctx, nil
}

// --- Pass 1: ViewScan resolution ---------------------------------------

func viewScanResolution(_ context.Context, n logicalplan.Node, pctx *PlanContext, sch *schema.GraphSchema) (logicalplan.Node, *PlanContext, bool, error) {
	out, ti, err := transform.TransformUp(n, func(node logicalplan.Node) (logicalplan.Node, transform.TreeIdentity, error) {
		gn, ok := node.(*logicalplan.GraphNode)
		if !ok {
			return node, transform.SameTree, nil
		}
		scan, isScan := gn.Child.(*logicalplan.Scan)
		if !isScan {
			return node, transform.SameTree, nil
		}
		if gn.Label == "" {
			return nil, transform.SameTree, perr.MissingLabelKind.New(gn.Alias)
		}
		ns, err := sch.Node(gn.Label)
		if err != nil {
			return nil, transform.SameTree, err
		}

		vs := &logicalplan.ViewScan{
			SourceTable:    ns.Table,
			IDColumn:       append([]string{}, ns.ID.Columns...),
			Properties:     ns.Properties,
			IsDenormalized: ns.IsDenormalized,
		}
		if ns.SchemaFilter != "" {
			vs.SchemaFilter = logicalexpr.NewLiteral(ns.SchemaFilter)
		}

		info := pctx.Entry(gn.Alias)
		info.Label = gn.Label
		info.IsRel = false
		info.NodeSchema = ns
		info.Projections = append(info.Projections, ns.ID.Columns...)

		rebuilt, err := gn.WithChildren(vs)
		if err != nil {
			return nil, transform.SameTree, err
		}
		rebuilt.(*logicalplan.GraphNode).IsDenormalized = ns.IsDenormalized
		_ = scan
		return rebuilt, transform.NewTree, nil
	})
	if err != nil {
		return nil, nil, false, err
	}
	return out, pctx, ti == transform.NewTree, nil
}

// --- Pass 2: Graph-context building ------------------------------------

func graphContextBuilding(_ context.Context, n logicalplan.Node, pctx *PlanContext, sch *schema.GraphSchema) (logicalplan.Node, *PlanContext, bool, error) {
	_, _, err := transform.TransformUp(n, func(node logicalplan.Node) (logicalplan.Node, transform.TreeIdentity, error) {
		gr, ok := node.(*logicalplan.GraphRel)
		if !ok {
			return node, transform.SameTree, nil
		}
		if gr.Alias == "" {
			return node, transform.SameTree, nil
		}
		leftLabel, err := logicalplan.GetNodeLabelForAlias(n, gr.LeftConnection)
		if err != nil {
			return nil, transform.SameTree, err
		}
		rightLabel, err := logicalplan.GetNodeLabelForAlias(n, gr.RightConnection)
		if err != nil {
			return nil, transform.SameTree, err
		}

		var relType string
		if len(gr.Labels) > 0 {
			relType = gr.Labels[0]
		}
		rs, dir, err := sch.Relationship(relType, leftLabel, rightLabel)
		if err != nil {
			return nil, transform.SameTree, err
		}

		info := pctx.Entry(gr.Alias)
		info.Label = relType
		info.IsRel = true
		info.RelSchema = rs
		info.RelDir = dir
		info.LeftLabel = leftLabel
		info.RightLabel = rightLabel
		return node, transform.SameTree, nil
	})
	if err != nil {
		return nil, nil, false, err
	}
	return n, pctx, false, nil
}
