package analyzer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brahmand-io/graphplan/analyzer"
	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
	"github.com/brahmand-io/graphplan/schema"
)

// Testable property 5 (spec.md section 8): property/filter mapping run
// twice over an already-mapped plan produces no further change — rewriting
// alias.prop once is idempotent, not merely convergent by accident.
func TestPropertyAccessMappedToPhysicalColumn(t *testing.T) {
	proj := logicalplan.NewProjection(logicalplan.Return, []logicalplan.ProjectionItem{
		{Expr: logicalexpr.NewPropertyAccess("a", "name"), Alias: "name"},
	}, logicalplan.NewGraphNode("a", "User", logicalplan.NewScan("", "a")))

	an := analyzer.New(analyzer.DefaultOptions())
	sch := &schema.GraphSchema{
		Nodes: map[string]*schema.NodeSchema{
			"User": {
				Label: "User", Table: "users",
				ID:         schema.IDColumn{Columns: []string{"id"}},
				Properties: map[string]string{"name": "full_name"},
			},
		},
	}

	out, _, err := an.Analyze(context.Background(), proj, sch, nil)
	require.NoError(t, err)

	p, ok := out.(*logicalplan.Projection)
	require.True(t, ok)
	require.Len(t, p.Items, 1)
	col, ok := p.Items[0].Expr.(*logicalexpr.Column)
	require.True(t, ok, "alias.prop must be rewritten to a physical Column")
	assert.Equal(t, "full_name", col.Name)
	assert.Equal(t, "a", col.Table)

	// Re-running the whole pipeline over the already-mapped plan must be a
	// no-op: there is no remaining PropertyAccess node to rewrite.
	out2, _, err := an.Analyze(context.Background(), out, sch, nil)
	require.NoError(t, err)
	p2 := out2.(*logicalplan.Projection)
	col2 := p2.Items[0].Expr.(*logicalexpr.Column)
	assert.Equal(t, col.Name, col2.Name)
	assert.Equal(t, col.Table, col2.Table)
}

func TestPropertyAccessUnknownPropertyFails(t *testing.T) {
	proj := logicalplan.NewProjection(logicalplan.Return, []logicalplan.ProjectionItem{
		{Expr: logicalexpr.NewPropertyAccess("a", "nickname"), Alias: "n"},
	}, logicalplan.NewGraphNode("a", "User", logicalplan.NewScan("", "a")))

	an := analyzer.New(analyzer.DefaultOptions())
	sch := &schema.GraphSchema{
		Nodes: map[string]*schema.NodeSchema{
			"User": {
				Label: "User", Table: "users",
				ID:         schema.IDColumn{Columns: []string{"id"}},
				Properties: map[string]string{"name": "full_name"},
			},
		},
	}

	_, _, err := an.Analyze(context.Background(), proj, sch, nil)
	require.Error(t, err)
}
