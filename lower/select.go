package lower

import (
	"sort"

	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
	"github.com/brahmand-io/graphplan/renderplan"
)

// buildSelect applies the SELECT-item rewrite rules of spec.md section
// 4.4.5. Bare `*`/`alias.*` expansion and alias.prop -> column mapping
// already happened in analyzer pass 6; what remains here is entity-level
// rewriting that needs render-stage context: count(alias) -> count(*),
// collect(alias) -> groupArray(tuple(...)), path variables, path
// functions, and CteEntityRef inlining.
func (lw *Lowerer) buildSelect(items []logicalplan.ProjectionItem) ([]renderplan.SelectItem, error) {
	var out []renderplan.SelectItem
	for _, it := range items {
		expanded, err := lw.expandSelectItem(it)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

func (lw *Lowerer) expandSelectItem(it logicalplan.ProjectionItem) ([]renderplan.SelectItem, error) {
	switch e := it.Expr.(type) {
	case *logicalexpr.CteEntityRef:
		// CTE entity references expand to the list of exported columns
		// (spec.md section 4.4.5's last rule).
		var out []renderplan.SelectItem
		for _, col := range e.Columns {
			out = append(out, renderplan.SelectItem{
				Expr:  logicalexpr.NewColumn(e.CteName, e.Alias+"_"+col),
				Alias: e.Alias + "_" + col,
			})
		}
		return out, nil

	case *logicalexpr.PathVariableRef:
		raw := "(path_nodes, hop_count, path_relationships)"
		return []renderplan.SelectItem{{Expr: renderplan.NewRaw(raw), Alias: it.Alias}}, nil

	case *logicalexpr.PathFuncCall:
		return []renderplan.SelectItem{{Expr: renderplan.NewRaw(pathFuncSQL(e)), Alias: selectAlias(it)}}, nil

	case *logicalexpr.AggregateCall:
		conv, err := lw.convertAggregate(e)
		if err != nil {
			return nil, err
		}
		return []renderplan.SelectItem{{Expr: conv, Alias: it.Alias}}, nil

	default:
		conv, err := lw.ConvertExpression(it.Expr)
		if err != nil {
			return nil, err
		}
		return []renderplan.SelectItem{{Expr: conv, Alias: it.Alias}}, nil
	}
}

func selectAlias(it logicalplan.ProjectionItem) string {
	if it.Alias != "" {
		return it.Alias
	}
	return it.Expr.String()
}

func pathFuncSQL(p *logicalexpr.PathFuncCall) string {
	switch p.Kind {
	case logicalexpr.PathLength:
		return "hop_count"
	case logicalexpr.PathNodes:
		return "path_nodes"
	default:
		return "path_relationships"
	}
}

// convertAggregate implements count(alias) -> count(*) and
// collect(alias) -> groupArray(tuple(col1, col2, ...)) (spec.md section
// 4.4.5); scalar-argument aggregates pass through with expression
// conversion applied to the argument.
func (lw *Lowerer) convertAggregate(a *logicalexpr.AggregateCall) (logicalexpr.Expression, error) {
	if a.IsEntityArg {
		switch a.Func {
		case logicalexpr.AggCount, logicalexpr.AggCountDistinct:
			return logicalexpr.NewFuncCall("count", logicalexpr.NewStar("")), nil
		case logicalexpr.AggCollect:
			col, ok := a.Arg.(*logicalexpr.Column)
			if !ok {
				return nil, nil
			}
			info, ok := lw.Plan.Aliases[col.Table]
			if !ok || info.NodeSchema == nil {
				return logicalexpr.NewFuncCall("groupArray", a.Arg), nil
			}
			var cols []logicalexpr.Expression
			for _, prop := range sortedSchemaKeys(info.NodeSchema.Properties) {
				cols = append(cols, logicalexpr.NewColumn(col.Table, info.NodeSchema.Properties[prop]))
			}
			tuple := logicalexpr.NewFuncCall("tuple", cols...)
			return logicalexpr.NewFuncCall("groupArray", tuple), nil
		}
	}
	if a.Arg == nil {
		return logicalexpr.NewFuncCall(a.Func.String(), logicalexpr.NewStar("")), nil
	}
	conv, err := lw.ConvertExpression(a.Arg)
	if err != nil {
		return nil, err
	}
	return logicalexpr.NewFuncCall(a.Func.String(), conv), nil
}

func sortedSchemaKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic order matches propmap.go's sortedKeys so collect()'s
	// tuple shape is stable across runs.
	sort.Strings(keys)
	return keys
}
