package vlp

import (
	"fmt"
	"strings"

	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/perr"
)

const cteAlias = "t"

// VariableLengthCteGenerator emits a WITH RECURSIVE CTE for a ranged or
// unbounded variable-length pattern (spec.md section 4.3). The exterior
// query always references the result as alias `t` with columns start_id,
// end_id, hop_count, path_nodes, path_relationships, and one
// start_<col>/end_<col> per requested property.
func VariableLengthCteGenerator(sp Spec, cteName string) (Result, error) {
	if sp.VarLength == nil {
		return Result{}, perr.UnsupportedFeatureKind.New("VariableLengthCteGenerator requires a variable-length spec")
	}
	if _, exact := sp.VarLength.ExactHopCount(); exact && sp.VarLength.MinHops >= 1 {
		// An exact hop count should use ChainedJoinGenerator instead; this
		// generator still handles it correctly, but callers should prefer
		// the non-recursive form for a fixed count.
	}
	if sp.Direction == logicalexpr.Either && (sp.VarLength.MaxHops == nil || *sp.VarLength.MaxHops > 1) {
		// Cycle prevention for undirected multi-hop patterns is deliberately
		// unsupported (DESIGN.md): has(base.path_nodes, rel.<to>) below
		// assumes a consistent from/to orientation hop over hop, which an
		// Either-direction pattern doesn't have.
		return Result{}, perr.UnsupportedFeatureKind.New("undirected variable-length pattern with max hops > 1")
	}

	pushEndFilter := sp.EndFilterSQL != "" && sp.Shortest != logicalexpr.NoShortestPath

	var b strings.Builder
	fmt.Fprintf(&b, "%s AS (\n", cteName)
	b.WriteString("  WITH RECURSIVE base AS (\n")
	fmt.Fprintf(&b, "    SELECT %s AS start_id, %s AS end_id, 1 AS hop_count, [%s, %s] AS path_nodes, [%s.%s] AS path_relationships",
		sp.FromColumn, sp.ToColumn, sp.FromColumn, sp.ToColumn, sp.RelTable, sp.FromColumn)
	fmt.Fprintf(&b, " FROM %s", sp.RelTable)
	if sp.StartFilterSQL != "" {
		fmt.Fprintf(&b, " WHERE %s", sp.StartFilterSQL)
	}
	b.WriteString("\n    UNION ALL\n")
	fmt.Fprintf(&b, "    SELECT base.start_id, rel.%s, base.hop_count + 1, arrayPushBack(base.path_nodes, rel.%s), arrayPushBack(base.path_relationships, rel.%s)",
		sp.ToColumn, sp.ToColumn, sp.FromColumn)
	fmt.Fprintf(&b, " FROM base JOIN %s AS rel ON base.end_id = rel.%s", sp.RelTable, sp.FromColumn)
	b.WriteString(" WHERE has(base.path_nodes, rel." + sp.ToColumn + ") = 0")
	if sp.VarLength.MaxHops != nil {
		fmt.Fprintf(&b, " AND base.hop_count < %d", *sp.VarLength.MaxHops)
	}
	b.WriteString("\n  )\n")

	selectCols := "start_id, end_id, hop_count, path_nodes, path_relationships"
	for _, p := range sp.Properties {
		selectCols += fmt.Sprintf(", start_%s, end_%s", p.Export, p.Export)
	}

	hasWhere := false
	switch sp.Shortest {
	case logicalexpr.Shortest, logicalexpr.AllShortest:
		fmt.Fprintf(&b, "  SELECT %s FROM base b\n", selectCols)
		b.WriteString("  WHERE hop_count = (SELECT MIN(b2.hop_count) FROM base b2 WHERE b2.start_id = b.start_id AND b2.end_id = b.end_id)")
		hasWhere = true
	default:
		fmt.Fprintf(&b, "  SELECT %s FROM base", selectCols)
	}

	writeCond := func(cond string) {
		if hasWhere {
			fmt.Fprintf(&b, " AND %s", cond)
		} else {
			fmt.Fprintf(&b, " WHERE %s", cond)
			hasWhere = true
		}
	}

	if pushEndFilter {
		writeCond("(" + sp.EndFilterSQL + ")")
	}
	if sp.VarLength.MinHops > 1 {
		// hop_count >= min_hops is already implied for min_hops <= 1 by base
		// starting at 1 and the recursive step only increasing it; an
		// explicit lower bound beyond 1 still needs a predicate.
		writeCond(fmt.Sprintf("hop_count >= %d", sp.VarLength.MinHops))
	}
	b.WriteString("\n)")

	return Result{SQL: b.String(), EndFilterPushed: pushEndFilter}, nil
}
