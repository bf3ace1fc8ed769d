package logicalplan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/logicalplan"
)

func tripleHopPlan() *logicalplan.GraphRel {
	a := logicalplan.NewGraphNode("a", "User", logicalplan.NewScan("", "a"))
	b := logicalplan.NewGraphNode("b", "User", logicalplan.NewScan("", "b"))
	return &logicalplan.GraphRel{
		Alias: "r", Left: a, Right: b,
		LeftConnection: "a", RightConnection: "b",
		Direction: logicalexpr.Outgoing, Labels: []string{"FOLLOWS"},
		IsRelAnchor: true,
	}
}

func TestExtractTableName(t *testing.T) {
	vs := &logicalplan.ViewScan{SourceTable: "users", IDColumn: []string{"id"}}
	gn := logicalplan.NewGraphNode("a", "User", vs)

	name, err := logicalplan.ExtractTableName(gn)
	require.NoError(t, err)
	assert.Equal(t, "users", name)

	_, err = logicalplan.ExtractTableName(logicalplan.NewEmpty())
	require.Error(t, err)
}

func TestExtractEndNodeTableNameDrillsNested(t *testing.T) {
	// (a)-[r1]->((b)-[r2]->(c)) : outer GraphRel's Right is itself a
	// GraphRel; ExtractEndNodeTableName must drill to c, not b.
	bVS := &logicalplan.ViewScan{SourceTable: "users_b"}
	cVS := &logicalplan.ViewScan{SourceTable: "users_c"}
	bNode := logicalplan.NewGraphNode("b", "User", bVS)
	cNode := logicalplan.NewGraphNode("c", "User", cVS)
	inner := &logicalplan.GraphRel{
		Alias: "r2", Left: bNode, Right: cNode,
		LeftConnection: "b", RightConnection: "c",
	}
	outer := &logicalplan.GraphRel{
		Alias: "r1", Left: logicalplan.NewGraphNode("a", "User", &logicalplan.ViewScan{SourceTable: "users_a"}),
		Right: inner, LeftConnection: "a", RightConnection: "c",
	}

	name, err := logicalplan.ExtractEndNodeTableName(outer)
	require.NoError(t, err)
	assert.Equal(t, "users_c", name)
}

func TestGetAllRelationshipConnections(t *testing.T) {
	gr := tripleHopPlan()
	conns := logicalplan.GetAllRelationshipConnections(gr)
	require.Len(t, conns, 1)
	assert.Equal(t, logicalplan.RelConnection{RelAlias: "r", LeftAlias: "a", RightAlias: "b"}, conns[0])
}

func TestHasVariableLengthRel(t *testing.T) {
	gr := tripleHopPlan()
	assert.False(t, logicalplan.HasVariableLengthRel(gr))

	gr.VariableLength = &logicalexpr.VariableLengthSpec{MinHops: 1, MaxHops: nil}
	assert.True(t, logicalplan.HasVariableLengthRel(gr))
}

func TestGetPathVariable(t *testing.T) {
	gr := tripleHopPlan()
	_, ok := logicalplan.GetPathVariable(gr)
	assert.False(t, ok)

	gr.PathVariable = "p"
	name, ok := logicalplan.GetPathVariable(gr)
	assert.True(t, ok)
	assert.Equal(t, "p", name)
}

func TestIsNodeDenormalized(t *testing.T) {
	gr := tripleHopPlan()
	assert.False(t, logicalplan.IsNodeDenormalized(gr, "a"))

	gr.Left.(*logicalplan.GraphNode).IsDenormalized = true
	assert.True(t, logicalplan.IsNodeDenormalized(gr, "a"))
	assert.False(t, logicalplan.IsNodeDenormalized(gr, "nonexistent"))
}

func TestFindTableNameForAlias(t *testing.T) {
	gn := logicalplan.NewGraphNode("a", "User", &logicalplan.ViewScan{SourceTable: "users"})
	name, err := logicalplan.FindTableNameForAlias(gn, "a")
	require.NoError(t, err)
	assert.Equal(t, "users", name)

	_, err = logicalplan.FindTableNameForAlias(gn, "z")
	require.Error(t, err)
}
