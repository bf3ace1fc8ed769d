package analyzer

import (
	"context"

	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
	"github.com/brahmand-io/graphplan/perr"
	"github.com/brahmand-io/graphplan/schema"
)

// graphJoinInference is analyzer pass 4: for each connected chain of
// GraphRel hops, synthesize one GraphJoins node whose joins vector holds a
// FROM marker for the anchor, the relationship join, and the other node's
// join, in order (spec.md section 4.2 pass 4). CartesianProduct siblings
// and non-graph wrapper nodes (Filter/Projection/...) are recursed into but
// left otherwise alone — this is a shape-changing rewrite (many nodes
// collapse into one GraphJoins), so it is written as its own recursive
// walk rather than forced through transform.TransformUp's 1:1 node
// replacement contract.
func graphJoinInference(_ context.Context, n logicalplan.Node, pctx *PlanContext, sch *schema.GraphSchema) (logicalplan.Node, *PlanContext, bool, error) {
	out, changed, err := convertGraphJoins(n, pctx)
	if err != nil {
		return nil, nil, false, err
	}
	return out, pctx, changed, nil
}

func convertGraphJoins(n logicalplan.Node, pctx *PlanContext) (logicalplan.Node, bool, error) {
	switch v := n.(type) {
	case *logicalplan.GraphRel:
		gj, err := flattenGraphRel(v, pctx)
		if err != nil {
			return nil, false, err
		}
		return gj, true, nil

	case *logicalplan.CartesianProduct:
		left, lc, err := convertGraphJoins(v.Left, pctx)
		if err != nil {
			return nil, false, err
		}
		right, rc, err := convertGraphJoins(v.Right, pctx)
		if err != nil {
			return nil, false, err
		}
		if !lc && !rc {
			return v, false, nil
		}
		out := *v
		out.Left, out.Right = left, right
		return &out, true, nil

	default:
		children := n.Children()
		if len(children) == 0 {
			return n, false, nil
		}
		newChildren := make([]logicalplan.Node, len(children))
		anyChanged := false
		for i, c := range children {
			nc, changed, err := convertGraphJoins(c, pctx)
			if err != nil {
				return nil, false, err
			}
			newChildren[i] = nc
			if changed {
				anyChanged = true
			}
		}
		if !anyChanged {
			return n, false, nil
		}
		rebuilt, err := n.WithChildren(newChildren...)
		if err != nil {
			return nil, false, err
		}
		return rebuilt, true, nil
	}
}

// flattenGraphRel walks a left-deep GraphRel chain (the shape
// logicalplan.Build produces: each hop's Left is either the anchor
// GraphNode or the previous hop) into an ordered hop list, then emits the
// FROM marker and each hop's two joins.
func flattenGraphRel(root *logicalplan.GraphRel, pctx *PlanContext) (*logicalplan.GraphJoins, error) {
	var hops []*logicalplan.GraphRel
	var cur logicalplan.Node = root
	var anchor *logicalplan.GraphNode
	for {
		gr, ok := cur.(*logicalplan.GraphRel)
		if !ok {
			gn, ok := cur.(*logicalplan.GraphNode)
			if !ok {
				return nil, perr.MissingFromTableKind.New()
			}
			anchor = gn
			break
		}
		hops = append(hops, gr)
		cur = gr.Left
	}
	// hops were collected outer-to-inner (root first); reverse to
	// leftmost-first order.
	for i, j := 0, len(hops)-1; i < j; i, j = i+1, j-1 {
		hops[i], hops[j] = hops[j], hops[i]
	}

	anchorTable, err := logicalplan.ExtractTableName(anchor)
	if err != nil {
		return nil, err
	}

	gj := &logicalplan.GraphJoins{Input: root, AnchorTable: anchorTable}
	gj.Joins = append(gj.Joins, logicalplan.GraphJoinEntry{Table: anchorTable, Alias: anchor.Alias})

	for _, hop := range hops {
		info, ok := pctx.Aliases[hop.Alias]
		if !ok || info.RelSchema == nil {
			return nil, perr.NoRelationSchemaFoundKind.New(joinLabels(hop.Labels), hop.LeftConnection, hop.RightConnection)
		}

		jType := logicalplan.InnerJoin
		if hop.IsOptional {
			jType = logicalplan.LeftJoin
			gj.OptionalAliases = append(gj.OptionalAliases, hop.Alias, hop.RightConnection)
		}

		if hop.HasVariableLength() {
			if err := appendVariableLengthHop(gj, hop, pctx, jType); err != nil {
				return nil, err
			}
			continue
		}

		relTable := info.CteName
		if relTable == "" {
			relTable = relCteName(info.Label, hop.Alias)
		}
		leftIDCol := firstOrEmpty(idColumnForAlias(pctx, hop.LeftConnection))
		rightIDCol := firstOrEmpty(idColumnForAlias(pctx, hop.RightConnection))

		relJoin := logicalplan.GraphJoinEntry{
			Table:         relTable,
			Alias:         hop.Alias,
			Type:          jType,
			Direction:     hop.Direction,
			OnConditions:  []logicalexpr.Expression{edgeOnCondition(hop.Direction, hop.Alias, "from_id", hop.LeftConnection, leftIDCol)},
			EdgeColumnTag: "from_id",
		}
		gj.Joins = append(gj.Joins, relJoin)

		rightTable, err := extractSideTableName(hop.Right)
		if err != nil {
			return nil, err
		}
		rightJoin := logicalplan.GraphJoinEntry{
			Table:         rightTable,
			Alias:         hop.RightConnection,
			Type:          jType,
			Direction:     hop.Direction,
			OnConditions:  []logicalexpr.Expression{edgeOnCondition(hop.Direction, hop.Alias, "to_id", hop.RightConnection, rightIDCol)},
			EdgeColumnTag: "to_id",
		}
		gj.Joins = append(gj.Joins, rightJoin)
	}

	return gj, nil
}

// vlpCteName mirrors lower/names.go's vlpCteName convention independently
// (analyzer never imports lower — lower consumes analyzer's output, never
// the reverse).
func vlpCteName(fromConn, toConn string) string {
	return "vlp_" + fromConn + "_" + toConn
}

// appendVariableLengthHop emits the relationship-CTE join and the
// right-node join for a variable-length/shortest-path hop (spec.md section
// 4.3): the CTE's own columns are start_id/end_id rather than from_id/
// to_id, and the hop's VariableLength spec and pass-8 filter buckets are
// carried on the join entry itself so lowering's emitTraversalCtes has
// everything vlp.Spec needs without re-deriving it from the logical plan.
func appendVariableLengthHop(gj *logicalplan.GraphJoins, hop *logicalplan.GraphRel, pctx *PlanContext, jType logicalplan.JoinType) error {
	cteName := vlpCteName(hop.LeftConnection, hop.RightConnection)
	leftIDCol := firstOrEmpty(idColumnForAlias(pctx, hop.LeftConnection))
	rightIDCol := firstOrEmpty(idColumnForAlias(pctx, hop.RightConnection))

	relJoin := logicalplan.GraphJoinEntry{
		Table: cteName,
		Alias: hop.Alias,
		Type:  jType,
		OnConditions: []logicalexpr.Expression{
			logicalexpr.NewBinary(logicalexpr.OpEq,
				logicalexpr.NewColumn(hop.LeftConnection, leftIDCol),
				logicalexpr.NewColumn(hop.Alias, "start_id")),
		},
		EdgeColumnTag:    "start_id",
		VarLength:        hop.VariableLength,
		ShortestMode:     hop.ShortestPathMode,
		PathVariable:     hop.PathVariable,
		RelLabels:        hop.Labels,
		Direction:        hop.Direction,
		StartNodeFilters: hop.StartNodeFilters,
		EndNodeFilters:   hop.EndNodeFilters,
		RelFilters:       hop.RelFilters,
		PathFuncFilters:  hop.PathFuncFilters,
	}
	gj.Joins = append(gj.Joins, relJoin)

	rightTable, err := extractSideTableName(hop.Right)
	if err != nil {
		return err
	}
	rightJoin := logicalplan.GraphJoinEntry{
		Table: rightTable,
		Alias: hop.RightConnection,
		Type:  jType,
		OnConditions: []logicalexpr.Expression{
			logicalexpr.NewBinary(logicalexpr.OpEq,
				logicalexpr.NewColumn(hop.RightConnection, rightIDCol),
				logicalexpr.NewColumn(hop.Alias, "end_id")),
		},
		EdgeColumnTag: "end_id",
	}
	gj.Joins = append(gj.Joins, rightJoin)
	return nil
}

// edgeOnCondition builds one side of a relationship join's ON clause
// (spec.md section 4.4.3): a plain equality against edgeCol for a directed
// hop, normalized so left_connection is always the source; an OR of both
// edge columns for an Either-direction hop, so the join is symmetric under
// swapping which side actually holds from_id/to_id (testable property 9).
func edgeOnCondition(dir logicalexpr.Direction, edgeAlias, edgeCol, nodeAlias, nodeCol string) logicalexpr.Expression {
	node := logicalexpr.NewColumn(nodeAlias, nodeCol)
	eq := logicalexpr.NewBinary(logicalexpr.OpEq, logicalexpr.NewColumn(edgeAlias, edgeCol), node)
	if dir != logicalexpr.Either {
		return eq
	}
	other := "to_id"
	if edgeCol == "to_id" {
		other = "from_id"
	}
	eqOther := logicalexpr.NewBinary(logicalexpr.OpEq, logicalexpr.NewColumn(edgeAlias, other), node)
	return logicalexpr.NewBinary(logicalexpr.OpOr, eq, eqOther)
}

func extractSideTableName(n logicalplan.Node) (string, error) {
	if gr, ok := n.(*logicalplan.GraphRel); ok {
		return logicalplan.ExtractEndNodeTableName(gr)
	}
	return logicalplan.ExtractTableName(n)
}

func idColumnForAlias(pctx *PlanContext, alias string) []string {
	if info, ok := pctx.Aliases[alias]; ok && info.NodeSchema != nil {
		return info.NodeSchema.ID.Columns
	}
	return nil
}

func firstOrEmpty(cols []string) string {
	if len(cols) == 0 {
		return "id"
	}
	return cols[0]
}

func joinLabels(labels []string) string {
	out := ""
	for i, l := range labels {
		if i > 0 {
			out += "|"
		}
		out += l
	}
	return out
}
