package logicalplan_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"

	"github.com/brahmand-io/graphplan/ast"
	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
)

// printTree renders a plan as an indented outline, the way the teacher's own
// analyzer tests diff a plan's String() tree against an expected outline
// rather than comparing single-line representations.
func printTree(n logicalplan.Node, depth int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s\n", strings.Repeat("  ", depth), n.String())
	for _, c := range n.Children() {
		b.WriteString(printTree(c, depth+1))
	}
	return b.String()
}

func requireTreeEqual(t *testing.T, expected string, n logicalplan.Node) {
	t.Helper()
	actual := printTree(n, 0)
	if actual == expected {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	require.NoError(t, err)
	t.Fatalf("plan tree mismatch:\n%s", diff)
}

// Two chained hops, (a)-[r1]->(b)-[r2]->(c), build a left-deep GraphRel tree
// whose outline nests inner-hop-first (spec.md section 3.2's "left-deep"
// chaining rule for buildPathPattern).
func TestBuildTwoHopChainIsLeftDeep(t *testing.T) {
	q := &ast.Query{
		Clauses: []ast.Clause{{Match: &ast.MatchClause{
			Patterns: []ast.PathPattern{{
				Nodes: []ast.NodePattern{
					{Variable: "a", Label: "User"},
					{Variable: "b", Label: "User"},
					{Variable: "c", Label: "User"},
				},
				Rels: []ast.RelPattern{
					{Variable: "r1", Types: []string{"FOLLOWS"}, Direction: logicalexpr.Outgoing},
					{Variable: "r2", Types: []string{"FOLLOWS"}, Direction: logicalexpr.Outgoing},
				},
			}},
		}}},
		Return: &ast.ProjectionClause{
			Items: []ast.ReturnItem{{Expr: logicalexpr.NewPropertyAccess("a", "name"), Alias: "name"}},
		},
	}

	n, err := logicalplan.Build(q)
	require.NoError(t, err)

	expected := strings.Join([]string{
		"Return",
		"  GraphRel(b->c)",
		"    GraphRel(a->b)",
		"      GraphNode(a:User)",
		"        Scan( AS a)",
		"      GraphNode(b:User)",
		"        Scan( AS b)",
		"    GraphNode(c:User)",
		"      Scan( AS c)",
		"",
	}, "\n")

	requireTreeEqual(t, expected, n)
}
