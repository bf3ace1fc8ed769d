package vlp

import (
	"fmt"
	"strings"

	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/perr"
)

// ChainedJoinGenerator builds a non-recursive SELECT with n successive
// self-joins of the relationship table, used when the pattern names an
// exact hop count n >= 1 (spec.md section 4.3). Zero hops (`*0`) is a
// degenerate case this generator never sees — lowering handles it directly
// since both endpoints are the same node and no join is needed at all.
func ChainedJoinGenerator(sp Spec) (Result, error) {
	n, ok := sp.VarLength.ExactHopCount()
	if !ok || n < 1 {
		return Result{}, perr.UnsupportedFeatureKind.New("ChainedJoinGenerator requires an exact hop count >= 1")
	}
	if sp.Direction == logicalexpr.Either && n >= 2 {
		// Cycle prevention for undirected multi-hop patterns is deliberately
		// unsupported (DESIGN.md): the self-join alias rewrite below assumes
		// a consistent from/to orientation across hops, which an
		// Either-direction pattern doesn't have.
		return Result{}, perr.UnsupportedFeatureKind.New("undirected variable-length pattern with hop count >= 2")
	}

	alias := func(i int) string { return fmt.Sprintf("r%d", i) }

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(alias(0) + "." + sp.FromColumn + " AS start_id, ")
	b.WriteString(alias(n-1) + "." + sp.ToColumn + " AS end_id")
	for _, p := range sp.Properties {
		fmt.Fprintf(&b, ", %s.%s AS start_%s", alias(0), p.Column, p.Export)
		fmt.Fprintf(&b, ", %s.%s AS end_%s", alias(n-1), p.Column, p.Export)
	}
	fmt.Fprintf(&b, " FROM %s AS %s", sp.RelTable, alias(0))
	for i := 1; i < n; i++ {
		fmt.Fprintf(&b, " JOIN %s AS %s ON %s.%s = %s.%s",
			sp.RelTable, alias(i), alias(i-1), sp.ToColumn, alias(i), sp.FromColumn)
	}

	var where []string
	if sp.StartFilterSQL != "" {
		where = append(where, rewriteAlias(sp.StartFilterSQL, alias(0)))
	}
	if sp.EndFilterSQL != "" {
		where = append(where, rewriteAlias(sp.EndFilterSQL, alias(n-1)))
	}
	if n >= 2 {
		for i := 0; i < n; i++ {
			for j := i + 2; j < n; j++ {
				where = append(where, fmt.Sprintf("%s.%s <> %s.%s", alias(i), sp.FromColumn, alias(j), sp.FromColumn))
			}
		}
	}
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}

	return Result{SQL: b.String(), EndFilterPushed: sp.EndFilterSQL != ""}, nil
}

// rewriteAlias substitutes a generic "t." qualifier in a caller-rendered
// filter clause with the generator's own hop alias, since the caller
// renders filter SQL against the exterior alias `t` spec.md section 4.3
// documents for both generators' output shape, but chained joins have no
// single exterior alias until after this SELECT is itself wrapped in a CTE.
func rewriteAlias(sql, newAlias string) string {
	return strings.ReplaceAll(sql, "t.", newAlias+".")
}
