package analyzer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brahmand-io/graphplan/analyzer"
	"github.com/brahmand-io/graphplan/internal/arena"
	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
	"github.com/brahmand-io/graphplan/schema"
)

func bitmapSchema() *schema.GraphSchema {
	return &schema.GraphSchema{
		Nodes: map[string]*schema.NodeSchema{
			"User": {Label: "User", Table: "users", ID: schema.IDColumn{Columns: []string{"id"}}, Properties: map[string]string{"id": "id"}},
		},
		Relationships: map[string]*schema.RelationshipSchema{
			"FOLLOWS": {
				Type: "FOLLOWS", Table: "follows",
				FromLabel: "User", ToLabel: "User",
				FromIDColumn: "from_id", ToIDColumn: "to_id",
				Bitmap: true,
			},
		},
	}
}

// A bitmap-backed relationship plans without error, and pass 3's consistency check (analyzer/bitmap.go)
// is actually exercised rather than left dead.
func TestBitmapRelationshipPlansSuccessfully(t *testing.T) {
	gn := logicalplan.NewGraphNode("a", "User", logicalplan.NewScan("", "a"))
	gr := &logicalplan.GraphRel{
		Left: gn, LeftConnection: "a", RightConnection: "b",
		Alias: "r", Labels: []string{"FOLLOWS"}, Direction: logicalexpr.Outgoing,
		IsRelAnchor: true,
		Right:       logicalplan.NewGraphNode("b", "User", logicalplan.NewScan("", "b")),
	}
	proj := logicalplan.NewProjection(logicalplan.Return, []logicalplan.ProjectionItem{
		{Expr: logicalexpr.NewPropertyAccess("b", "id"), Alias: "id"},
	}, gr)

	an := analyzer.New(analyzer.DefaultOptions())
	_, pctx, err := an.Analyze(context.Background(), proj, bitmapSchema(), arena.New())
	require.NoError(t, err)

	info, ok := pctx.Aliases["r"]
	require.True(t, ok)
	assert.True(t, info.UseBitmap)
}
