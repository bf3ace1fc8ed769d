package analyzer

import (
	"context"

	"github.com/brahmand-io/graphplan/internal/arena"
	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
	"github.com/brahmand-io/graphplan/perr"
	"github.com/brahmand-io/graphplan/schema"
	"github.com/brahmand-io/graphplan/transform"
)

// relCteName names the CTE a GraphRel's traversal is wrapped in:
// <rel_label>_<alias> for edge-list traversal; bitmap traversal passes
// <rel_label>_<direction> as the label, giving <rel_label>_<direction>_<alias>
// (spec.md section 4.2 pass 3). lower/names.go reimplements these
// conventions as standalone functions; the two are kept
// independent rather than sharing an import so analyzer never depends on
// lower (lower consumes analyzer's output, never the reverse).
func relCteName(relLabel, alias string) string {
	if relLabel == "" {
		relLabel = "rel"
	}
	return relLabel + "_" + alias
}

// planGraphTraversal is analyzer pass 3: bottom-up, decide edge-list vs
// bitmap traversal for each GraphRel, resolve each side's id column from
// its node schema, and insert the InSubquery membership filters connecting
// each side to the relationship's CTE. The sides themselves are left as
// they are: no id projection is added to them and they are not wrapped in
// a Cte.
func planGraphTraversal(_ context.Context, n logicalplan.Node, pctx *PlanContext, sch *schema.GraphSchema, ar *arena.Arena) (logicalplan.Node, *PlanContext, bool, error) {
	out, ti, err := transform.TransformUp(n, func(node logicalplan.Node) (logicalplan.Node, transform.TreeIdentity, error) {
		gr, ok := node.(*logicalplan.GraphRel)
		if !ok {
			return node, transform.SameTree, nil
		}
		info, ok := pctx.Aliases[gr.Alias]
		if !ok || info.RelSchema == nil {
			// No relationship schema was bound to this alias in pass 2;
			// the hop is left unchanged here and join inference (pass 4)
			// reports the missing relationship schema.
			return node, transform.SameTree, nil
		}
		if gr.HasVariableLength() {
			// Variable-length/shortest-path hops compile to a CTE built by
			// the vlp package, not the plain edge-list/bitmap strategy this
			// pass chooses for fixed single-hop relationships; join
			// inference (pass 4) carries this hop's VariableLength spec
			// through to lowering instead.
			return node, transform.SameTree, nil
		}
		rs := info.RelSchema

		if len(gr.Labels) > 1 {
			if err := checkPolymorphicIDColumns(sch, gr.Labels); err != nil {
				return nil, transform.SameTree, err
			}
		}

		useBitmap := rs.ShouldUseEdgeList() == false
		if gr.Direction == logicalexpr.Either && gr.IsRelAnchor && !useBitmap {
			return nil, transform.SameTree, perr.UnsupportedFeatureKind.New("either-direction anchor relationship in edge-list mode")
		}
		if useBitmap {
			if err := validateBitmapShape(rs.Type, info.RelDir); err != nil {
				return nil, transform.SameTree, perr.InvalidRenderPlanKind.New("bitmap relationship " + rs.Type + ": " + err.Error())
			}
		}
		info.UseBitmap = useBitmap

		// Either-direction traversal (spec.md section 4.2 pass 3): when both
		// sides share a label the schema can't tell which physical column is
		// "the" from/to for this hop, so the CTE must union both row
		// orderings instead. Asymmetric labels stay disambiguated by
		// info.RelDir (set in pass 2 from the schema's own from/to labels),
		// so no union is needed there.
		info.Undirected = gr.Direction == logicalexpr.Either && info.LeftLabel == info.RightLabel

		cteName := relCteName(rs.Type, gr.Alias)
		if useBitmap {
			cteName = relCteName(rs.Type+"_"+string(info.RelDir), gr.Alias)
		}
		cteName = ar.Intern(cteName)
		info.CteName = cteName

		out := *gr
		out.CteReferences = append(append([]string{}, gr.CteReferences...), cteName)

		leftID, err := ensureIDProjected(gr.Left, info.LeftLabel, sch)
		if err != nil {
			return nil, transform.SameTree, err
		}
		rightID, err := ensureIDProjected(gr.Right, info.RightLabel, sch)
		if err != nil {
			return nil, transform.SameTree, err
		}

		// InSubquery.Plan carries the CTE's name rather than a logical-plan
		// pointer here: the CTE body itself (from_id/to_id projection) is
		// materialized later, when lowering emits the CTE list (spec.md
		// section 4.4.1); the analyzer only needs to record which CTE a
		// side must be a member of.
		startFilter := &logicalexpr.InSubquery{Left: logicalexpr.NewColumn(gr.LeftConnection, leftID), Plan: cteName}
		out.StartNodeFilters = append(append([]logicalexpr.Expression{}, gr.StartNodeFilters...), startFilter)

		if !gr.IsRelAnchor {
			endFilter := &logicalexpr.InSubquery{Left: logicalexpr.NewColumn(gr.RightConnection, rightID), Plan: cteName}
			out.EndNodeFilters = append(append([]logicalexpr.Expression{}, gr.EndNodeFilters...), endFilter)
		}

		return &out, transform.NewTree, nil
	})
	if err != nil {
		return nil, nil, false, err
	}
	return out, pctx, ti == transform.NewTree, nil
}

// ensureIDProjected returns the id column to use for side, resolving it
// from the node's schema — no guessing when a label isn't bound (spec.md
// section 4.1's "never guess" policy applies here too).
func ensureIDProjected(side logicalplan.Node, label string, sch *schema.GraphSchema) (string, error) {
	if label == "" {
		return "", perr.MissingLabelKind.New("<anonymous>")
	}
	ns, err := sch.Node(label)
	if err != nil {
		return "", err
	}
	if len(ns.ID.Columns) == 0 {
		return "", perr.NodeIdColumnNotConfiguredKind.New(label)
	}
	return ns.ID.Columns[0], nil
}

// checkPolymorphicIDColumns resolves the open question on asymmetric
// polymorphic id columns (DESIGN.md): a multi-type edge whose member
// relationship schemas disagree on from/to id column names cannot be
// unioned into one CTE without silently picking a winner, so it is
// rejected rather than guessed.
func checkPolymorphicIDColumns(sch *schema.GraphSchema, labels []string) error {
	var fromCol, toCol string
	for i, l := range labels {
		rs, ok := sch.Relationships[l]
		if !ok {
			return perr.NoRelationshipTablesFoundKind.New(l)
		}
		if i == 0 {
			fromCol, toCol = rs.FromIDColumn, rs.ToIDColumn
			continue
		}
		if rs.FromIDColumn != fromCol || rs.ToIDColumn != toCol {
			return perr.NoRelationshipTablesFoundKind.New(labels[0] + "|" + l)
		}
	}
	return nil
}
