package planner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brahmand-io/graphplan/ast"
	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/planner"
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

func TestPlanWiresBuildAnalyzeAndLower(t *testing.T) {
	rp, err := planner.Plan(context.Background(), singleHopQuery(), socialSchema(), planner.Options{})
	require.NoError(t, err)

	require.NotNil(t, rp.From)
	assert.Equal(t, "users", rp.From.Table)
	assert.Equal(t, "a", rp.From.Alias)
	require.Len(t, rp.Joins, 2)
	assert.Equal(t, renderplan.InnerJoin, rp.Joins[0].Type)
	assert.Equal(t, renderplan.InnerJoin, rp.Joins[1].Type)
}

func TestPlanPropagatesAnalyzerErrors(t *testing.T) {
	q := singleHopQuery()
	q.Return.Items[0].Expr = logicalexpr.NewPropertyAccess("a", "nickname")

	_, err := planner.Plan(context.Background(), q, socialSchema(), planner.Options{})
	require.Error(t, err)
}
