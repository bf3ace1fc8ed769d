package analyzer

import (
	"context"
	"sort"

	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
	"github.com/brahmand-io/graphplan/perr"
	"github.com/brahmand-io/graphplan/schema"
	"github.com/brahmand-io/graphplan/transform"
)

// propertyFilterMapping is analyzer pass 6: rewrite every alias.prop
// PropertyAccess into its physical Column via the owning schema's property
// map, and expand `*` / alias.* star projections into one item per schema
// column (spec.md section 4.2 pass 6). Analyze runs it to a fixed point;
// star expansion emits physical Columns directly, so a second iteration
// finds nothing left to rewrite.
func propertyFilterMapping(_ context.Context, n logicalplan.Node, pctx *PlanContext, sch *schema.GraphSchema) (logicalplan.Node, *PlanContext, bool, error) {
	expanded, starsChanged, err := expandStars(n, pctx)
	if err != nil {
		return nil, nil, false, err
	}

	mapProp := func(e logicalexpr.Expression) (logicalexpr.Expression, transform.TreeIdentity, error) {
		pa, ok := e.(*logicalexpr.PropertyAccess)
		if !ok {
			return e, transform.SameTree, nil
		}
		col, err := resolveProperty(pctx, pa.Alias, pa.Property)
		if err != nil {
			return nil, transform.SameTree, err
		}
		c := logicalexpr.NewColumn(pa.Alias, col)
		c.Source = pa.Alias + "." + pa.Property
		return c, transform.NewTree, nil
	}

	out, ti, err := transform.TransformUp(expanded, func(node logicalplan.Node) (logicalplan.Node, transform.TreeIdentity, error) {
		return transform.TransformExpressionsUp(node, mapProp)
	})
	if err != nil {
		return nil, nil, false, err
	}
	return out, pctx, starsChanged || ti == transform.NewTree, nil
}

// resolveProperty maps alias.property to its physical column name via the
// node or relationship schema bound to alias; fails rather than guessing
// (spec.md section 4.1) when the property has no entry.
func resolveProperty(pctx *PlanContext, alias, property string) (string, error) {
	info, ok := pctx.Aliases[alias]
	if !ok {
		return "", perr.CannotResolveNodeTypeKind.New(alias)
	}
	var props map[string]string
	switch {
	case info.NodeSchema != nil:
		props = info.NodeSchema.Properties
	case info.RelSchema != nil:
		props = info.RelSchema.Properties
	default:
		return "", perr.CannotResolveNodeTypeKind.New(alias)
	}
	col, ok := props[property]
	if !ok {
		return "", perr.NodeSchemaNotFoundKind.New(alias + "." + property)
	}
	return col, nil
}

// expandStars rewrites Projection items that are a bare `*` or `alias.*`
// into one item per schema-declared property column, aliased
// `<alias>_<property>` (spec.md section 4.4.5's `alias_column` convention).
func expandStars(n logicalplan.Node, pctx *PlanContext) (logicalplan.Node, bool, error) {
	children := n.Children()
	newChildren := make([]logicalplan.Node, len(children))
	anyChanged := false
	for i, c := range children {
		nc, changed, err := expandStars(c, pctx)
		if err != nil {
			return nil, false, err
		}
		newChildren[i] = nc
		if changed {
			anyChanged = true
		}
	}
	cur := n
	if anyChanged {
		rebuilt, err := n.WithChildren(newChildren...)
		if err != nil {
			return nil, false, err
		}
		cur = rebuilt
	}

	proj, ok := cur.(*logicalplan.Projection)
	if !ok {
		return cur, anyChanged, nil
	}

	var newItems []logicalplan.ProjectionItem
	itemsChanged := false
	for _, it := range proj.Items {
		star, ok := it.Expr.(*logicalexpr.Star)
		if !ok {
			newItems = append(newItems, it)
			continue
		}
		itemsChanged = true
		aliases := starAliases(pctx, star.Alias)
		for _, alias := range aliases {
			info := pctx.Aliases[alias]
			if info == nil || info.NodeSchema == nil {
				continue
			}
			for _, prop := range sortedKeys(info.NodeSchema.Properties) {
				col := info.NodeSchema.Properties[prop]
				newItems = append(newItems, logicalplan.ProjectionItem{
					Expr:  logicalexpr.NewColumn(alias, col),
					Alias: alias + "_" + prop,
				})
			}
		}
	}
	if !itemsChanged {
		return cur, anyChanged, nil
	}
	out := *proj
	out.Items = newItems
	return &out, true, nil
}

// starAliases returns the aliases a star expands to: just `alias` for
// `alias.*`, or every node alias bound so far for a bare `*`.
func starAliases(pctx *PlanContext, alias string) []string {
	if alias != "" {
		return []string{alias}
	}
	var out []string
	for a, info := range pctx.Aliases {
		if info.NodeSchema != nil {
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
