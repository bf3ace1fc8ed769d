package lower_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brahmand-io/graphplan/analyzer"
	"github.com/brahmand-io/graphplan/ast"
	"github.com/brahmand-io/graphplan/internal/arena"
	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
	"github.com/brahmand-io/graphplan/lower"
	"github.com/brahmand-io/graphplan/renderplan"
	"github.com/brahmand-io/graphplan/schema"
)

func socialSchema() *schema.GraphSchema {
	return &schema.GraphSchema{
		Name: "social",
		Nodes: map[string]*schema.NodeSchema{
			"User": {
				Label: "User", Table: "users",
				ID:         schema.IDColumn{Columns: []string{"id"}},
				Properties: map[string]string{"name": "name"},
			},
		},
		Relationships: map[string]*schema.RelationshipSchema{
			"FOLLOWS": {
				Type: "FOLLOWS", Table: "follows",
				FromLabel: "User", ToLabel: "User",
				FromIDColumn: "from_id", ToIDColumn: "to_id",
			},
		},
	}
}

func planAndLower(t *testing.T, q *ast.Query, sch *schema.GraphSchema) *renderplan.RenderPlan {
	t.Helper()
	plan, err := logicalplan.Build(q)
	require.NoError(t, err)

	ar := arena.New()
	an := analyzer.New(analyzer.DefaultOptions())
	analyzed, pctx, err := an.Analyze(context.Background(), plan, sch, ar)
	require.NoError(t, err)

	lw := lower.NewLowerer(sch, pctx, ar)
	rp, err := lw.LowerQuery(analyzed)
	require.NoError(t, err)
	return rp
}

// S1 (spec.md section 8): MATCH (a:User)-[r:FOLLOWS]->(b:User) RETURN
// a.name, b.name -> no CTEs, two joins (edge then end node), empty WHERE.
func TestS1SingleHopDirectedMatch(t *testing.T) {
	q := &ast.Query{
		Clauses: []ast.Clause{{Match: &ast.MatchClause{
			Patterns: []ast.PathPattern{{
				Nodes: []ast.NodePattern{{Variable: "a", Label: "User"}, {Variable: "b", Label: "User"}},
				Rels:  []ast.RelPattern{{Variable: "r", Types: []string{"FOLLOWS"}, Direction: logicalexpr.Outgoing}},
			}},
		}}},
		Return: &ast.ProjectionClause{Items: []ast.ReturnItem{
			{Expr: logicalexpr.NewPropertyAccess("a", "name"), Alias: "name_a"},
			{Expr: logicalexpr.NewPropertyAccess("b", "name"), Alias: "name_b"},
		}},
	}

	rp := planAndLower(t, q, socialSchema())

	assert.Empty(t, rp.Ctes)
	require.NotNil(t, rp.From)
	assert.Equal(t, "users", rp.From.Table)
	assert.Equal(t, "a", rp.From.Alias)
	require.Len(t, rp.Joins, 2)
	assert.Equal(t, renderplan.InnerJoin, rp.Joins[0].Type)
	assert.Equal(t, renderplan.InnerJoin, rp.Joins[1].Type)
	assert.Nil(t, rp.Filters)
	require.Len(t, rp.Select, 2)
}

// S4 (spec.md section 8): MATCH (a:User) OPTIONAL MATCH (c:User)-[:FOLLOWS]->(d:User)
// RETURN a.name, c.name -> the optional pattern attaches to the anchor as a
// LEFT JOIN cartesian product, and every join inside the optional pattern
// itself stays a LEFT JOIN; no NULL filter is added automatically.
func TestS4OptionalMatchPreservesLeftJoinSemantics(t *testing.T) {
	q := &ast.Query{
		Clauses: []ast.Clause{
			{Match: &ast.MatchClause{Patterns: []ast.PathPattern{{
				Nodes: []ast.NodePattern{{Variable: "a", Label: "User"}},
			}}}},
			{Match: &ast.MatchClause{Optional: true, Patterns: []ast.PathPattern{{
				Nodes: []ast.NodePattern{{Variable: "c", Label: "User"}, {Variable: "d", Label: "User"}},
				Rels:  []ast.RelPattern{{Types: []string{"FOLLOWS"}, Direction: logicalexpr.Outgoing}},
			}}}},
		},
		Return: &ast.ProjectionClause{Items: []ast.ReturnItem{
			{Expr: logicalexpr.NewPropertyAccess("a", "name"), Alias: "name_a"},
			{Expr: logicalexpr.NewPropertyAccess("c", "name"), Alias: "name_c"},
		}},
	}

	rp := planAndLower(t, q, socialSchema())

	require.NotNil(t, rp.From)
	assert.Equal(t, "a", rp.From.Alias)
	require.NotEmpty(t, rp.Joins)
	for _, j := range rp.Joins {
		assert.Equal(t, renderplan.LeftJoin, j.Type, "join %q must stay a LEFT JOIN under OPTIONAL MATCH", j.Alias)
	}
	assert.Nil(t, rp.Filters)
}
