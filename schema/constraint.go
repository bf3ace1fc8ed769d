package schema

import (
	"regexp"

	"github.com/brahmand-io/graphplan/perr"
)

// constraintToken matches a from.<property> or to.<property> reference
// inside a RelationshipSchema.ConstraintExpr string.
var constraintToken = regexp.MustCompile(`\b(from|to)\.([A-Za-z_][A-Za-z0-9_]*)\b`)

// CompileConstraint rewrites a relationship's declarative constraint
// expression (spec.md section 4.4.3's "edge constraint compilation") into
// verbatim SQL: every `from.<property>` / `to.<property>` token is replaced
// by `<alias>.<physical column>`, resolved against the two node schemas'
// property maps. Grounded on the original planner's
// graph_catalog::constraint_compiler::compile_constraint, which takes the
// same five inputs (expression text, both node schemas, both aliases).
func CompileConstraint(expr string, fromSchema, toSchema *NodeSchema, fromAlias, toAlias string) (string, error) {
	var firstErr error
	out := constraintToken.ReplaceAllStringFunc(expr, func(tok string) string {
		if firstErr != nil {
			return tok
		}
		m := constraintToken.FindStringSubmatch(tok)
		side, prop := m[1], m[2]
		ns, alias := fromSchema, fromAlias
		if side == "to" {
			ns, alias = toSchema, toAlias
		}
		col, ok := ns.Properties[prop]
		if !ok {
			firstErr = perr.UnsupportedFeatureKind.New("constraint expression references unknown property " + side + "." + prop)
			return tok
		}
		return alias + "." + col
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
