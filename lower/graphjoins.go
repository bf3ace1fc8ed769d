package lower

import (
	"fmt"
	"strings"

	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
	"github.com/brahmand-io/graphplan/perr"
	"github.com/brahmand-io/graphplan/renderplan"
	"github.com/brahmand-io/graphplan/schema"
	"github.com/brahmand-io/graphplan/vlp"
)

// lowerGraphJoins implements FROM selection and JOIN synthesis (spec.md
// sections 4.4.2/4.4.3) over a GraphJoins node. The analyzer already
// resolved every join's table/alias/ON condition (pass 4) and, for
// relationship joins, named the CTE backing it (pass 3); lowering's job is
// to turn the first entry into the FROM clause, the rest into JoinEntry
// values, and emit one CteEntry per distinct relationship CTE referenced.
func (lw *Lowerer) lowerGraphJoins(gj *logicalplan.GraphJoins) (*renderplan.RenderPlan, error) {
	if len(gj.Joins) == 0 {
		return nil, perr.MissingFromTableKind.New()
	}

	anchor := gj.Joins[0]
	rp := &renderplan.RenderPlan{From: &renderplan.FromRef{Table: anchor.Table, Alias: anchor.Alias}}

	optional := map[string]bool{}
	for _, a := range gj.OptionalAliases {
		optional[a] = true
	}

	var pendingConstraint *renderplan.Raw
	for idx := 1; idx < len(gj.Joins); idx++ {
		j := gj.Joins[idx]
		on := make([]logicalexpr.Expression, len(j.OnConditions))
		for i, c := range j.OnConditions {
			conv, err := lw.ConvertExpression(c)
			if err != nil {
				return nil, err
			}
			on[i] = conv
		}
		var pre logicalexpr.Expression
		if j.PreFilter != nil {
			conv, err := lw.ConvertExpression(j.PreFilter)
			if err != nil {
				return nil, err
			}
			pre = conv
		}
		if pendingConstraint != nil {
			// The previous iteration compiled this relationship's edge
			// constraint (spec.md section 4.4.3); it attaches to the
			// to-node's JOIN, since both node aliases are only both in
			// scope once that JOIN is reached.
			pre = andExpr(pre, pendingConstraint)
			pendingConstraint = nil
		}
		entry := renderplan.JoinEntry{
			Table:      j.Table,
			Alias:      j.Alias,
			On:         on,
			Type:       lowerJoinType(j.Type),
			PreFilter:  pre,
			EdgeColumn: j.EdgeColumnTag,
		}
		if len(on) == 0 && j.Type != logicalplan.InnerJoin {
			// Entry-point marker from an OPTIONAL MATCH whose join carries no
			// condition at all (spec.md section 4.4.3): render as a
			// degenerate LEFT JOIN ... ON 1=1.
			entry.On = []logicalexpr.Expression{alwaysTrue()}
		}
		rp.Joins = append(rp.Joins, entry)

		if j.EdgeColumnTag == "from_id" && idx+1 < len(gj.Joins) {
			raw, err := lw.compileEdgeConstraint(j, gj.Joins[idx+1].Alias)
			if err != nil {
				return nil, err
			}
			pendingConstraint = raw
		}
	}

	ctes, outerPred, err := lw.emitTraversalCtes(gj)
	if err != nil {
		return nil, err
	}
	rp.Ctes = append(rp.Ctes, ctes...)
	rp.Filters = andExpr(rp.Filters, outerPred)
	return rp, nil
}

func lowerJoinType(t logicalplan.JoinType) renderplan.JoinType {
	switch t {
	case logicalplan.LeftJoin:
		return renderplan.LeftJoin
	case logicalplan.RightJoin:
		return renderplan.RightJoin
	default:
		return renderplan.InnerJoin
	}
}

func alwaysTrue() logicalexpr.Expression {
	return logicalexpr.NewBinary(logicalexpr.OpEq, logicalexpr.NewLiteral(1), logicalexpr.NewLiteral(1))
}

// emitTraversalCtes builds one CteEntry per distinct relationship CTE this
// GraphJoins references, using the traversal strategy and naming analyzer
// pass 3 already chose (spec.md section 4.2 pass 3 / section 4.4.1): the
// edge-list CTE projects from/to ids directly, the bitmap CTE additionally
// flattens to_id via arrayJoin(bitmapToArray(...)).
func (lw *Lowerer) emitTraversalCtes(gj *logicalplan.GraphJoins) ([]renderplan.CteEntry, logicalexpr.Expression, error) {
	seen := map[string]bool{}
	var out []renderplan.CteEntry
	var outerPred logicalexpr.Expression
	for i := 1; i < len(gj.Joins); i++ {
		j := gj.Joins[i]

		if j.VarLength != nil {
			if seen[j.Table] || lw.cteCtx.EmittedCtes[j.Table] {
				continue
			}
			seen[j.Table] = true
			lw.cteCtx.EmittedCtes[j.Table] = true

			var rightAlias, rightTable string
			if i+1 < len(gj.Joins) {
				rightAlias, rightTable = gj.Joins[i+1].Alias, gj.Joins[i+1].Table
			}
			cte, pred, err := lw.emitVLPCte(j, rightAlias, rightTable)
			if err != nil {
				return nil, nil, err
			}
			out = append(out, cte)
			outerPred = andExpr(outerPred, pred)
			continue
		}

		info, ok := lw.Plan.Aliases[j.Alias]
		if !ok || info.RelSchema == nil || info.CteName == "" {
			continue
		}
		if seen[info.CteName] || lw.cteCtx.EmittedCtes[info.CteName] {
			continue
		}
		seen[info.CteName] = true
		lw.cteCtx.EmittedCtes[info.CteName] = true

		rs := info.RelSchema
		var sql string
		switch {
		case info.Undirected:
			// Same-labeled Either-direction hop (spec.md section 4.2 pass 3):
			// the schema's from/to labels can't disambiguate which physical
			// column is which, so the CTE unions both row orderings.
			if info.UseBitmap {
				sql = fmt.Sprintf(
					"SELECT %s AS from_id, arrayJoin(bitmapToArray(%s)) AS to_id FROM %s"+
						" UNION ALL SELECT %s AS from_id, arrayJoin(bitmapToArray(%s)) AS to_id FROM %s",
					rs.FromIDColumn, rs.ToIDColumn, rs.Table,
					rs.ToIDColumn, rs.FromIDColumn, rs.Table)
			} else {
				sql = fmt.Sprintf(
					"SELECT %s AS from_id, %s AS to_id FROM %s"+
						" UNION ALL SELECT %s AS from_id, %s AS to_id FROM %s",
					rs.FromIDColumn, rs.ToIDColumn, rs.Table,
					rs.ToIDColumn, rs.FromIDColumn, rs.Table)
			}
		default:
			fromCol, toCol := rs.FromIDColumn, rs.ToIDColumn
			if info.RelDir == schema.DirIncoming {
				// The hop matched the schema's declared relationship in
				// reverse (spec.md sections 3.2/4.4.3: "direction is
				// normalized so left_connection is always the source"): the
				// CTE's from_id/to_id columns must swap so every downstream
				// join can keep treating from_id as "the side LeftConnection
				// binds to" regardless of direction.
				fromCol, toCol = rs.ToIDColumn, rs.FromIDColumn
			}
			if info.UseBitmap {
				sql = fmt.Sprintf(
					"SELECT %s AS from_id, arrayJoin(bitmapToArray(%s)) AS to_id FROM %s",
					fromCol, toCol, rs.Table)
			} else {
				sql = fmt.Sprintf(
					"SELECT %s AS from_id, %s AS to_id FROM %s",
					fromCol, toCol, rs.Table)
			}
		}
		out = append(out, renderplan.CteEntry{Name: info.CteName, RawSQL: sql})
	}
	return out, outerPred, nil
}

// emitVLPCte compiles a variable-length/shortest-path hop's CTE via the vlp
// package (spec.md section 4.3): RelFilters and PathFuncFilters have no
// slot in vlp.Spec (a closed record of start/end filter text only), so they
// surface as an outer predicate instead — correct for PathFuncFilters
// (spec.md section 4.4.4's explicit "path-function predicates are outer
// filters" rule) and a pragmatic simplification for RelFilters, noted in
// DESIGN.md.
func (lw *Lowerer) emitVLPCte(j logicalplan.GraphJoinEntry, rightAlias, rightTable string) (renderplan.CteEntry, logicalexpr.Expression, error) {
	info, ok := lw.Plan.Aliases[j.Alias]
	if !ok || info.RelSchema == nil {
		return renderplan.CteEntry{}, nil, perr.NoRelationSchemaFoundKind.New(j.Alias, "", "")
	}
	rs := info.RelSchema

	leftAlias := j.Alias
	if len(j.OnConditions) > 0 {
		if col, ok := j.OnConditions[0].(*logicalexpr.BinaryExpr); ok {
			if c, ok := col.Left.(*logicalexpr.Column); ok {
				leftAlias = c.Table
			}
		}
	}

	leftNode, err := lw.Schema.Node(info.LeftLabel)
	if err != nil {
		return renderplan.CteEntry{}, nil, err
	}
	rightNode, err := lw.Schema.Node(info.RightLabel)
	if err != nil {
		return renderplan.CteEntry{}, nil, err
	}

	startFilter, err := lw.vlpFilterText(j.StartNodeFilters, leftAlias)
	if err != nil {
		return renderplan.CteEntry{}, nil, err
	}
	endFilter, err := lw.vlpFilterText(j.EndNodeFilters, rightAlias)
	if err != nil {
		return renderplan.CteEntry{}, nil, err
	}

	// Normalize from/to columns the same way emitTraversalCtes does for
	// fixed-hop joins (spec.md sections 3.2/4.4.3): when this hop matched
	// the schema's relationship in reverse, the physical from/to columns
	// must swap so the chain always walks leftAlias -> rightAlias.
	fromCol, toCol := rs.FromIDColumn, rs.ToIDColumn
	if info.RelDir == schema.DirIncoming {
		fromCol, toCol = rs.ToIDColumn, rs.FromIDColumn
	}

	sp := vlp.Spec{
		StartTable: leftNode.Table, EndTable: rightNode.Table,
		StartIDColumn: firstIDColumn(leftNode), EndIDColumn: firstIDColumn(rightNode),
		RelTable:   rs.Table,
		FromColumn: fromCol, ToColumn: toCol,
		LeftAlias: leftAlias, RightAlias: rightAlias,
		VarLength: j.VarLength, Shortest: j.ShortestMode, Direction: j.Direction,
		PathVariable: j.PathVariable, RelLabels: j.RelLabels,
		StartFilterSQL: startFilter, EndFilterSQL: endFilter,
	}

	var result vlp.Result
	n, exact := j.VarLength.ExactHopCount()
	useChained := exact && n >= 1
	if useChained {
		result, err = vlp.ChainedJoinGenerator(sp)
	} else {
		result, err = vlp.VariableLengthCteGenerator(sp, j.Table)
	}
	if err != nil {
		return renderplan.CteEntry{}, nil, err
	}

	cte := renderplan.CteEntry{Name: j.Table, RawSQL: result.SQL, Recursive: !useChained}

	var outerPred logicalexpr.Expression
	if endFilter != "" && !result.EndFilterPushed {
		lw.cteCtx.PendingEndFilters[j.Table] = endFilter
	}
	if relPred, err := lw.combineFilters(j.RelFilters); err == nil && relPred != nil {
		outerPred = andExpr(outerPred, relPred)
	} else if err != nil {
		return renderplan.CteEntry{}, nil, err
	}
	if pfPred, err := lw.combineFilters(j.PathFuncFilters); err == nil && pfPred != nil {
		outerPred = andExpr(outerPred, pfPred)
	} else if err != nil {
		return renderplan.CteEntry{}, nil, err
	}

	return cte, outerPred, nil
}

// compileEdgeConstraint compiles j's relationship schema's ConstraintExpr
// (spec.md section 4.4.3) against its two node schemas, returning nil if
// the relationship carries no constraint. j must be the relationship join
// entry itself (EdgeColumnTag == "from_id"); rightAlias is the alias of the
// to-node join immediately following it in the join list.
func (lw *Lowerer) compileEdgeConstraint(j logicalplan.GraphJoinEntry, rightAlias string) (*renderplan.Raw, error) {
	info, ok := lw.Plan.Aliases[j.Alias]
	if !ok || info.RelSchema == nil || info.RelSchema.ConstraintExpr == "" {
		return nil, nil
	}

	leftAlias := ""
	if len(j.OnConditions) > 0 {
		if b, ok := j.OnConditions[0].(*logicalexpr.BinaryExpr); ok {
			if c, ok := b.Right.(*logicalexpr.Column); ok {
				leftAlias = c.Table
			}
		}
	}
	if leftAlias == "" {
		return nil, nil
	}

	fromSchema, err := lw.Schema.Node(info.RelSchema.FromLabel)
	if err != nil {
		return nil, err
	}
	toSchema, err := lw.Schema.Node(info.RelSchema.ToLabel)
	if err != nil {
		return nil, err
	}

	// leftAlias/rightAlias name the query's left/right sides; fromAlias/
	// toAlias must instead name whichever side the schema calls from/to
	// (spec.md section 3.2), which is swapped from the query's own
	// left/right whenever this hop matched the schema in reverse.
	fromAlias, toAlias := leftAlias, rightAlias
	if info.RelDir == schema.DirIncoming {
		fromAlias, toAlias = rightAlias, leftAlias
	}

	sql, err := schema.CompileConstraint(info.RelSchema.ConstraintExpr, fromSchema, toSchema, fromAlias, toAlias)
	if err != nil {
		return nil, err
	}
	return renderplan.NewRaw(sql), nil
}

// vlpFilterText converts and ANDs realAlias's filter conjuncts, then
// rewrites realAlias-qualified columns to the generic "t." placeholder
// vlp.ChainedJoinGenerator/VariableLengthCteGenerator's own doc comments
// describe callers as using (rewriteAlias substitutes it for the
// generator's internal hop alias).
func (lw *Lowerer) vlpFilterText(exprs []logicalexpr.Expression, realAlias string) (string, error) {
	pred, err := lw.combineFilters(exprs)
	if err != nil || pred == nil {
		return "", err
	}
	return strings.ReplaceAll(pred.String(), realAlias+".", "t."), nil
}

func (lw *Lowerer) combineFilters(exprs []logicalexpr.Expression) (logicalexpr.Expression, error) {
	var combined logicalexpr.Expression
	for _, e := range exprs {
		conv, err := lw.ConvertExpression(e)
		if err != nil {
			return nil, err
		}
		combined = andExpr(combined, conv)
	}
	return combined, nil
}

func firstIDColumn(ns *schema.NodeSchema) string {
	if len(ns.ID.Columns) == 0 {
		return "id"
	}
	return ns.ID.Columns[0]
}
