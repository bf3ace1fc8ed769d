package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *GraphSchema {
	return &GraphSchema{
		Name: "social",
		Nodes: map[string]*NodeSchema{
			"User": {
				Label:      "User",
				Table:      "users",
				ID:         IDColumn{Columns: []string{"id"}},
				Properties: map[string]string{"name": "name"},
			},
		},
		Relationships: map[string]*RelationshipSchema{
			"FOLLOWS": {
				Type:         "FOLLOWS",
				Table:        "follows",
				FromLabel:    "User",
				ToLabel:      "User",
				FromIDColumn: "from_id",
				ToIDColumn:   "to_id",
			},
		},
	}
}

// Testable property 1 (spec.md section 8): table_name(start=A, end=B, R) ==
// R_outgoing, table_name(start=B, end=A, R) == R_incoming; any other
// start/end labels fail with NoRelationSchemaFound.
func TestDirectionalRelationshipTableSelection(t *testing.T) {
	sch := testSchema()

	r, dir, err := sch.Relationship("FOLLOWS", "User", "User")
	require.NoError(t, err)
	assert.Equal(t, DirOutgoing, dir)
	assert.Equal(t, "FOLLOWS_outgoing", r.TableName(dir))

	_, dir, err = sch.Relationship("FOLLOWS", "User", "User")
	require.NoError(t, err)
	// Same-labeled sides always resolve outgoing first; incoming is only
	// reachable with distinct from/to labels, covered below.
	assert.Equal(t, DirOutgoing, dir)

	asym := testSchema()
	asym.Nodes["Org"] = &NodeSchema{Label: "Org", Table: "orgs", ID: IDColumn{Columns: []string{"id"}}}
	asym.Relationships["WORKS_AT"] = &RelationshipSchema{
		Type: "WORKS_AT", Table: "works_at",
		FromLabel: "User", ToLabel: "Org",
		FromIDColumn: "from_id", ToIDColumn: "to_id",
	}

	r2, dir2, err := asym.Relationship("WORKS_AT", "Org", "User")
	require.NoError(t, err)
	assert.Equal(t, DirIncoming, dir2)
	assert.Equal(t, "WORKS_AT_incoming", r2.TableName(dir2))

	_, _, err = asym.Relationship("WORKS_AT", "User", "Org")
	require.NoError(t, err)

	_, _, err = asym.Relationship("WORKS_AT", "Org", "Org")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no relationship schema found"))
}

func TestNodeSchemaValidate(t *testing.T) {
	n := &NodeSchema{Label: "User", ID: IDColumn{}}
	require.Error(t, n.Validate())

	n.ID = IDColumn{Columns: []string{"id"}}
	require.NoError(t, n.Validate())

	n.Properties = map[string]string{"a": "col", "b": "col"}
	require.Error(t, n.Validate())
}

func TestRelationshipSchemaValidate(t *testing.T) {
	nodes := map[string]*NodeSchema{
		"User": {Label: "User", ID: IDColumn{Columns: []string{"id"}}},
	}
	r := &RelationshipSchema{Type: "FOLLOWS", FromLabel: "User", ToLabel: "Ghost", FromIDColumn: "from_id", ToIDColumn: "to_id"}
	require.Error(t, r.Validate(nodes))

	r.ToLabel = "User"
	require.NoError(t, r.Validate(nodes))
}

func TestShouldUseEdgeListDefault(t *testing.T) {
	r := &RelationshipSchema{}
	assert.True(t, r.ShouldUseEdgeList())
	r.Bitmap = true
	assert.False(t, r.ShouldUseEdgeList())
}

func TestIsPolymorphic(t *testing.T) {
	r := &RelationshipSchema{}
	assert.False(t, r.IsPolymorphic())
	r.PolymorphicTypeColumn = "rel_type"
	assert.True(t, r.IsPolymorphic())
}
