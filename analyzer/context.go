// Package analyzer implements the eight-pass analyzer pipeline (spec.md
// section 4.2): ViewScan resolution, graph-context building, graph-traversal
// planning, graph-join inference, WITH/CTE pipelining, property/filter
// mapping, polymorphic-edge filter injection, and variable-length tagging.
package analyzer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/brahmand-io/graphplan/logicalplan"
	"github.com/brahmand-io/graphplan/schema"
)

// AliasInfo is one entry of PlanContext, the mutable per-alias side table
// threaded through every pass (spec.md section 4.2).
type AliasInfo struct {
	Label               string
	Projections         []string
	Filters             []string
	IsRel               bool
	Unique              bool
	OverrideProjections bool

	// Populated by pass 1/2 for node aliases.
	NodeSchema *schema.NodeSchema

	// Populated by pass 2 for relationship aliases.
	RelSchema  *schema.RelationshipSchema
	RelDir     schema.Direction
	LeftLabel  string
	RightLabel string

	// Populated by pass 3: which traversal strategy was chosen and the CTE
	// it was wrapped in, so pass 4 (join inference) can reference it by
	// name instead of re-deciding.
	UseBitmap bool
	CteName   string

	// Undirected is true when the hop's pattern direction is Either and its
	// two sides share the same label (spec.md section 4.2 pass 3): the CTE
	// must union both (from,to) orderings rather than pick one normalized
	// direction, since the schema's own from/to labels can't disambiguate.
	Undirected bool
}

// PlanContext is the mutable side table keyed by alias that every analyzer
// pass reads and extends. Unlike the logical plan tree itself (immutable,
// rewritten via Transformed), PlanContext is a private per-query value
// mutated in place — spec.md section 5 draws this distinction explicitly.
type PlanContext struct {
	Aliases map[string]*AliasInfo

	// CteExports records, per CTE name minted by pass 5 (WITH pipelining),
	// the aliases it exports. Lowering does not read it.
	CteExports map[string][]logicalplan.WithClauseExportedAlias
}

// NewPlanContext returns an empty PlanContext.
func NewPlanContext() *PlanContext {
	return &PlanContext{Aliases: map[string]*AliasInfo{}, CteExports: map[string][]logicalplan.WithClauseExportedAlias{}}
}

// Entry returns (creating if absent) the AliasInfo for alias.
func (p *PlanContext) Entry(alias string) *AliasInfo {
	if a, ok := p.Aliases[alias]; ok {
		return a
	}
	a := &AliasInfo{}
	p.Aliases[alias] = a
	return a
}

// currentSchemaKey is the context.Context key carrying the active schema
// name for ExistsSubquery lowering (spec.md section 5's "current-schema
// indicator"). A context value, not goroutine-local storage, since planning
// is purely single-threaded per query and the caller already owns a
// context.Context across the call.
type currentSchemaKey struct{}

// WithCurrentSchema returns a context carrying name as the active schema.
// Lowering does not consult it: lower.convertExists resolves an EXISTS{...}
// subplan against the Lowerer's own schema.
func WithCurrentSchema(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, currentSchemaKey{}, name)
}

// CurrentSchema returns the schema name set by WithCurrentSchema, if any.
func CurrentSchema(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(currentSchemaKey{}).(string)
	return v, ok
}

// Options configures an Analyzer. Logger defaults to a logrus.Entry that
// discards output, so embedding applications opt into pass-level logging
// rather than getting it unconditionally (spec.md section 10.1).
type Options struct {
	MaxFixedPointIterations int
	Logger                  *logrus.Entry
}

// DefaultOptions returns the zero-configuration Options: a fixed-point cap
// of 16 (spec.md's property/filter mapping pass 6 rarely needs more than a
// couple of iterations even with nested star-expansion) and a discarding
// logger.
func DefaultOptions() Options {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return Options{MaxFixedPointIterations: 16, Logger: logrus.NewEntry(l)}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Analyzer runs the eight-pass pipeline over a logical plan.
type Analyzer struct {
	Opts Options
}

// New returns an Analyzer with opts, filling any zero fields from
// DefaultOptions.
func New(opts Options) *Analyzer {
	def := DefaultOptions()
	if opts.MaxFixedPointIterations <= 0 {
		opts.MaxFixedPointIterations = def.MaxFixedPointIterations
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}
	return &Analyzer{Opts: opts}
}

// pass is one of the eight (or fixed-point-wrapped) analyzer stages.
type pass struct {
	name string
	run  func(ctx context.Context, n logicalplan.Node, pctx *PlanContext, sch *schema.GraphSchema) (logicalplan.Node, *PlanContext, bool, error)
}

func (a *Analyzer) logPass(name string, changed bool, dur time.Duration) {
	a.Opts.Logger.WithFields(logrus.Fields{
		"pass":    name,
		"changed": changed,
		"duration": dur,
	}).Debug("analyzer pass complete")
}
