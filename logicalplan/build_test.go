package logicalplan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brahmand-io/graphplan/ast"
	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
)

// singleHopQuery builds `MATCH (a:User)-[r:FOLLOWS]->(b:User) RETURN a.name`.
func singleHopQuery() *ast.Query {
	return &ast.Query{
		Clauses: []ast.Clause{{Match: &ast.MatchClause{
			Patterns: []ast.PathPattern{{
				Nodes: []ast.NodePattern{{Variable: "a", Label: "User"}, {Variable: "b", Label: "User"}},
				Rels:  []ast.RelPattern{{Variable: "r", Types: []string{"FOLLOWS"}, Direction: logicalexpr.Outgoing}},
			}},
		}}},
		Return: &ast.ProjectionClause{
			Items: []ast.ReturnItem{{Expr: logicalexpr.NewPropertyAccess("a", "name"), Alias: "name"}},
		},
	}
}

func TestBuildSingleHop(t *testing.T) {
	n, err := logicalplan.Build(singleHopQuery())
	require.NoError(t, err)

	proj, ok := n.(*logicalplan.Projection)
	require.True(t, ok)
	assert.Equal(t, logicalplan.Return, proj.Kind)

	gr, ok := proj.Child.(*logicalplan.GraphRel)
	require.True(t, ok)
	assert.Equal(t, "a", gr.LeftConnection)
	assert.Equal(t, "b", gr.RightConnection)
	assert.Equal(t, logicalexpr.Outgoing, gr.Direction)
	assert.True(t, gr.IsRelAnchor)

	left, ok := gr.Left.(*logicalplan.GraphNode)
	require.True(t, ok)
	assert.Equal(t, "a", left.Alias)
	assert.Equal(t, "User", left.Label)
}

func TestBuildRejectsDuplicateAlias(t *testing.T) {
	q := &ast.Query{
		Clauses: []ast.Clause{{Match: &ast.MatchClause{
			Patterns: []ast.PathPattern{{
				Nodes: []ast.NodePattern{{Variable: "a", Label: "User"}, {Variable: "a", Label: "User"}},
				Rels:  []ast.RelPattern{{Variable: "r", Types: []string{"FOLLOWS"}, Direction: logicalexpr.Outgoing}},
			}},
		}}},
	}
	_, err := logicalplan.Build(q)
	require.Error(t, err)
}

func TestBuildRejectsEmptyMatch(t *testing.T) {
	q := &ast.Query{Clauses: []ast.Clause{{Match: &ast.MatchClause{}}}}
	_, err := logicalplan.Build(q)
	require.Error(t, err)
}

func TestBuildUnwind(t *testing.T) {
	q := &ast.Query{
		Clauses: []ast.Clause{{Unwind: &ast.UnwindClause{
			Expr:  logicalexpr.NewList(logicalexpr.NewLiteral(1), logicalexpr.NewLiteral(2)),
			Alias: "x",
		}}},
		Return: &ast.ProjectionClause{
			Items: []ast.ReturnItem{{Expr: logicalexpr.NewColumn("", "x"), Alias: "x"}},
		},
	}
	n, err := logicalplan.Build(q)
	require.NoError(t, err)
	proj, ok := n.(*logicalplan.Projection)
	require.True(t, ok)
	uw, ok := proj.Child.(*logicalplan.Unwind)
	require.True(t, ok)
	assert.Equal(t, "x", uw.Alias)
}

func TestBuildUnion(t *testing.T) {
	q1 := singleHopQuery()
	q2 := singleHopQuery()
	q1.Union = []ast.UnionBranch{{Query: q2, All: false}}

	n, err := logicalplan.Build(q1)
	require.NoError(t, err)
	u, ok := n.(*logicalplan.Union)
	require.True(t, ok)
	assert.Equal(t, logicalplan.Distinct, u.Kind)
	assert.Len(t, u.Inputs, 2)
}

func TestBuildImplicitGroupByOnAggregate(t *testing.T) {
	q := &ast.Query{
		Clauses: []ast.Clause{{Match: &ast.MatchClause{
			Patterns: []ast.PathPattern{{Nodes: []ast.NodePattern{{Variable: "a", Label: "User"}}}},
		}}},
		Return: &ast.ProjectionClause{
			Items: []ast.ReturnItem{
				{Expr: logicalexpr.NewColumn("a", "id"), Alias: "a"},
				{Expr: logicalexpr.NewAggregateCall(logicalexpr.AggCount, nil, false), Alias: "c"},
			},
		},
	}
	n, err := logicalplan.Build(q)
	require.NoError(t, err)
	proj, ok := n.(*logicalplan.Projection)
	require.True(t, ok)
	_, ok = proj.Child.(*logicalplan.GroupBy)
	require.True(t, ok)
}
