package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brahmand-io/graphplan/logicalplan"
)

func TestTransformedChanged(t *testing.T) {
	u := Unchanged(1)
	assert.False(t, u.Changed())

	c := Changed(2)
	assert.True(t, c.Changed())
}

func TestAndThenPropagatesChangedBit(t *testing.T) {
	start := Unchanged(1)
	out, err := AndThen(start, func(v int) (Transformed[int], error) {
		return Unchanged(v + 1), nil
	})
	require.NoError(t, err)
	assert.False(t, out.Changed())
	assert.Equal(t, 2, out.Tree)

	out2, err := AndThen(out, func(v int) (Transformed[int], error) {
		return Changed(v + 1), nil
	})
	require.NoError(t, err)
	assert.True(t, out2.Changed())
	assert.Equal(t, 3, out2.Tree)

	// Once changed is set anywhere in the chain, later unchanged steps must
	// not clear it.
	out3, err := AndThen(out2, func(v int) (Transformed[int], error) {
		return Unchanged(v), nil
	})
	require.NoError(t, err)
	assert.True(t, out3.Changed())
}

// TestTransformUpStructuralSharing verifies spec.md section 4.1's "clone
// parents only when a descendant changed" contract: a no-op rewrite leaves
// the same node pointer in place, and a leaf-only rewrite still forces its
// ancestors to be rebuilt so the new leaf is actually reachable.
func TestTransformUpStructuralSharing(t *testing.T) {
	leaf := logicalplan.NewScan("users", "a")
	node := logicalplan.NewGraphNode("a", "User", leaf)

	out, same, err := TransformUp(node, func(n logicalplan.Node) (logicalplan.Node, TreeIdentity, error) {
		return n, SameTree, nil
	})
	require.NoError(t, err)
	assert.Equal(t, SameTree, same)
	assert.Same(t, node, out)

	out2, same2, err := TransformUp(node, func(n logicalplan.Node) (logicalplan.Node, TreeIdentity, error) {
		if s, ok := n.(*logicalplan.Scan); ok {
			return logicalplan.NewScan(s.Table, "b"), NewTree, nil
		}
		return n, SameTree, nil
	})
	require.NoError(t, err)
	assert.Equal(t, NewTree, same2)
	rewritten, ok := out2.(*logicalplan.GraphNode)
	require.True(t, ok)
	scan, ok := rewritten.Child.(*logicalplan.Scan)
	require.True(t, ok)
	assert.Equal(t, "b", scan.Alias)
}

func TestTransformDownVisitsParentFirst(t *testing.T) {
	leaf := logicalplan.NewScan("users", "a")
	node := logicalplan.NewGraphNode("a", "User", leaf)

	var order []string
	_, _, err := TransformDown(node, func(n logicalplan.Node) (logicalplan.Node, TreeIdentity, error) {
		order = append(order, n.String())
		return n, SameTree, nil
	})
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Equal(t, "GraphNode(a:User)", order[0])
}
