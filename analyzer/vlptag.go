package analyzer

import (
	"context"

	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
	"github.com/brahmand-io/graphplan/schema"
)

// variableLengthTagging is analyzer pass 8: categorize a Filter predicate
// sitting above a variable-length GraphRel into the GraphRel's
// start/end/relationship/path-function buckets (spec.md section 4.2 pass
// 8). The variable_length/shortest_path_mode/path_variable fields
// themselves are already set by logicalplan.Build straight from the parsed
// pattern (`[*min..max]`, `shortestPath(...)`, `p = (...)`) — there is no
// separate resolution step for them, since the parser hands over exactly
// that information and nothing upstream of this pass could have altered it.
func variableLengthTagging(_ context.Context, n logicalplan.Node, pctx *PlanContext, sch *schema.GraphSchema) (logicalplan.Node, *PlanContext, bool, error) {
	out, changed, err := tagFilterAbove(n)
	if err != nil {
		return nil, nil, false, err
	}
	return out, pctx, changed, nil
}

func tagFilterAbove(n logicalplan.Node) (logicalplan.Node, bool, error) {
	children := n.Children()
	newChildren := make([]logicalplan.Node, len(children))
	anyChanged := false
	for i, c := range children {
		nc, changed, err := tagFilterAbove(c)
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

	f, ok := cur.(*logicalplan.Filter)
	if !ok {
		return cur, anyChanged, nil
	}
	vlp := findVariableLengthRel(f.Child)
	if vlp == nil {
		return cur, anyChanged, nil
	}

	conjuncts := splitConjuncts(f.Predicate)
	var remaining []logicalexpr.Expression
	changed := false
	for _, c := range conjuncts {
		bucket := classifyConjunct(c, vlp)
		switch bucket {
		case bucketStart:
			vlp.StartNodeFilters = append(vlp.StartNodeFilters, c)
			changed = true
		case bucketEnd:
			vlp.EndNodeFilters = append(vlp.EndNodeFilters, c)
			changed = true
		case bucketRel:
			vlp.RelFilters = append(vlp.RelFilters, c)
			changed = true
		case bucketPathFunc:
			vlp.PathFuncFilters = append(vlp.PathFuncFilters, c)
			changed = true
		default:
			remaining = append(remaining, c)
		}
	}
	if !changed {
		return cur, anyChanged, nil
	}
	if len(remaining) == 0 {
		return f.Child, true, nil
	}
	out := *f
	out.Predicate = joinConjuncts(remaining)
	return &out, true, nil
}

func findVariableLengthRel(n logicalplan.Node) *logicalplan.GraphRel {
	if gr, ok := n.(*logicalplan.GraphRel); ok && gr.HasVariableLength() {
		return gr
	}
	for _, c := range n.Children() {
		if found := findVariableLengthRel(c); found != nil {
			return found
		}
	}
	return nil
}

func splitConjuncts(e logicalexpr.Expression) []logicalexpr.Expression {
	if b, ok := e.(*logicalexpr.BinaryExpr); ok && b.Op == logicalexpr.OpAnd {
		return append(splitConjuncts(b.Left), splitConjuncts(b.Right)...)
	}
	return []logicalexpr.Expression{e}
}

func joinConjuncts(es []logicalexpr.Expression) logicalexpr.Expression {
	out := es[0]
	for _, e := range es[1:] {
		out = logicalexpr.NewBinary(logicalexpr.OpAnd, out, e)
	}
	return out
}

type conjunctBucket int

const (
	bucketNone conjunctBucket = iota
	bucketStart
	bucketEnd
	bucketRel
	bucketPathFunc
)

// classifyConjunct assigns one conjunct of a WHERE predicate sitting above
// a variable-length GraphRel to a bucket, by the set of aliases/path
// functions it references.
func classifyConjunct(e logicalexpr.Expression, vlp *logicalplan.GraphRel) conjunctBucket {
	if containsPathFuncCall(e) {
		return bucketPathFunc
	}
	aliases := referencedAliases(e)
	if len(aliases) != 1 {
		return bucketNone
	}
	switch aliases[0] {
	case vlp.LeftConnection:
		return bucketStart
	case vlp.RightConnection:
		return bucketEnd
	case vlp.Alias:
		return bucketRel
	default:
		return bucketNone
	}
}

func containsPathFuncCall(e logicalexpr.Expression) bool {
	if _, ok := e.(*logicalexpr.PathFuncCall); ok {
		return true
	}
	for _, c := range e.Children() {
		if containsPathFuncCall(c) {
			return true
		}
	}
	return false
}

func referencedAliases(e logicalexpr.Expression) []string {
	seen := map[string]bool{}
	var walk func(logicalexpr.Expression)
	walk = func(e logicalexpr.Expression) {
		switch v := e.(type) {
		case *logicalexpr.Column:
			if v.Table != "" {
				seen[v.Table] = true
			}
		case *logicalexpr.PropertyAccess:
			seen[v.Alias] = true
		}
		for _, c := range e.Children() {
			walk(c)
		}
	}
	walk(e)
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	return out
}
