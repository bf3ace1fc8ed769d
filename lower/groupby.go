package lower

import (
	"github.com/brahmand-io/graphplan/analyzer"
	"github.com/brahmand-io/graphplan/logicalexpr"
)

// buildGroupBy implements spec.md section 4.4.6: a bare alias or alias.* key
// groups by the alias's id column rather than every property (sound because
// every other column is functionally dependent on id, and cheaper); a
// denormalized node's key resolves to the edge-table alias that carries its
// fused row; anything else passes through with property mapping already
// applied by the expression converter.
func (lw *Lowerer) buildGroupBy(exprs []logicalexpr.Expression) ([]logicalexpr.Expression, error) {
	var out []logicalexpr.Expression
	for _, e := range exprs {
		cols, bare := lw.entityGroupingKey(e)
		if bare {
			out = append(out, cols...)
			continue
		}
		conv, err := lw.ConvertExpression(e)
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}
	return out, nil
}

// entityGroupingKey recognizes a bare-alias or alias.* grouping expression
// and returns the id-column expressions to group by instead. bare is false
// for anything else, signaling the caller to fall through to ordinary
// expression conversion.
func (lw *Lowerer) entityGroupingKey(e logicalexpr.Expression) (cols []logicalexpr.Expression, bare bool) {
	alias, ok := entityAlias(e)
	if !ok {
		return nil, false
	}
	info, ok := lw.Plan.Aliases[alias]
	if !ok {
		return nil, false
	}
	if info.NodeSchema != nil {
		return lw.nodeGroupingKey(alias, info), true
	}
	if info.RelSchema != nil {
		return []logicalexpr.Expression{
			logicalexpr.NewColumn(alias, info.RelSchema.FromIDColumn),
			logicalexpr.NewColumn(alias, info.RelSchema.ToIDColumn),
		}, true
	}
	return nil, false
}

// entityAlias reports the alias name if e is a bare `alias` reference or an
// `alias.*` star, the two shapes spec.md section 4.4.6 singles out. Both
// shapes are represented the same way in this package: a Star carrying the
// alias (an empty Alias means the un-aliased `*`, which never names a
// grouping key).
func entityAlias(e logicalexpr.Expression) (string, bool) {
	if star, ok := e.(*logicalexpr.Star); ok && star.Alias != "" {
		return star.Alias, true
	}
	return "", false
}

// nodeGroupingKey resolves alias's id columns. A denormalized node has no
// independent table, so its id column lives on the edge-table alias that
// fused its row (spec.md GLOSSARY's "denormalized edge"); findCoupledAlias
// locates that alias and its matching id column.
func (lw *Lowerer) nodeGroupingKey(alias string, info *analyzer.AliasInfo) []logicalexpr.Expression {
	ns := info.NodeSchema
	if !ns.IsDenormalized {
		out := make([]logicalexpr.Expression, len(ns.ID.Columns))
		for i, col := range ns.ID.Columns {
			out[i] = logicalexpr.NewColumn(alias, col)
		}
		return out
	}
	if edgeAlias, col, ok := lw.findCoupledAlias(ns.Label); ok {
		return []logicalexpr.Expression{logicalexpr.NewColumn(edgeAlias, col)}
	}
	// No coupling information resolved; fall back to the node's own alias
	// and id column rather than dropping the grouping key entirely.
	if len(ns.ID.Columns) > 0 {
		return []logicalexpr.Expression{logicalexpr.NewColumn(alias, ns.ID.Columns[0])}
	}
	return []logicalexpr.Expression{logicalexpr.NewColumn(alias, "id")}
}

// findCoupledAlias scans the bound aliases for a relationship whose schema
// couples nodeLabel onto its own table, returning the relationship alias
// and the id column on that table matching nodeLabel's side.
func (lw *Lowerer) findCoupledAlias(nodeLabel string) (alias, column string, ok bool) {
	for a, info := range lw.Plan.Aliases {
		rs := info.RelSchema
		if rs == nil || rs.Coupling == nil || rs.Coupling.DenormalizedNode != nodeLabel {
			continue
		}
		switch nodeLabel {
		case rs.FromLabel:
			return a, rs.FromIDColumn, true
		case rs.ToLabel:
			return a, rs.ToIDColumn, true
		default:
			return a, rs.FromIDColumn, true
		}
	}
	return "", "", false
}
