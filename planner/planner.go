// Package planner is the top-level entry point wiring logicalplan.Build,
// the analyzer pipeline, and lowering into one call (spec.md section 1:
// "Given a parsed openCypher AST and a declarative graph schema ... it
// emits a single SQL statement"). Everything it does, lower/lower_e2e_test.go's
// planAndLower helper already did inline for tests; this package exposes the
// same three-call sequence as real library surface.
package planner

import (
	"context"

	"github.com/brahmand-io/graphplan/analyzer"
	"github.com/brahmand-io/graphplan/ast"
	"github.com/brahmand-io/graphplan/internal/arena"
	"github.com/brahmand-io/graphplan/logicalplan"
	"github.com/brahmand-io/graphplan/lower"
	"github.com/brahmand-io/graphplan/renderplan"
	"github.com/brahmand-io/graphplan/schema"
)

// Options configures a Plan call. Analyzer lets a caller supply their own
// analyzer.Options (e.g. a non-discarding Logger); the zero value runs with
// analyzer.DefaultOptions().
type Options struct {
	Analyzer analyzer.Options
}

// Plan compiles a parsed query against sch into a render plan: build the
// logical plan, run the eight-pass analyzer pipeline, then lower the result
// (spec.md sections 4.1/4.2/4.4). ctx carries tracing into the analyzer;
// lowering, including EXISTS{...} lowering, uses sch directly.
func Plan(ctx context.Context, q *ast.Query, sch *schema.GraphSchema, opts Options) (*renderplan.RenderPlan, error) {
	plan, err := logicalplan.Build(q)
	if err != nil {
		return nil, err
	}

	ar := arena.New()
	an := analyzer.New(opts.Analyzer)
	analyzed, pctx, err := an.Analyze(ctx, plan, sch, ar)
	if err != nil {
		return nil, err
	}

	lw := lower.NewLowerer(sch, pctx, ar)
	return lw.LowerQuery(analyzed)
}
