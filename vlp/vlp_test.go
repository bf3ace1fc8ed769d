package vlp_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brahmand-io/graphplan/logicalexpr"
	"github.com/brahmand-io/graphplan/vlp"
)

func baseSpec() vlp.Spec {
	return vlp.Spec{
		StartTable: "users", EndTable: "users",
		StartIDColumn: "id", EndIDColumn: "id",
		RelTable:   "follows",
		FromColumn: "from_id", ToColumn: "to_id",
		LeftAlias: "a", RightAlias: "b",
	}
}

// Testable property 6 (spec.md section 8): for exact hops n, no recursive
// CTE is emitted and the chained-join CTE contains exactly n occurrences of
// the edge table.
func TestChainedJoinGeneratorExactHopCount(t *testing.T) {
	n := 3
	sp := baseSpec()
	sp.VarLength = &logicalexpr.VariableLengthSpec{MinHops: n, MaxHops: &n}

	res, err := vlp.ChainedJoinGenerator(sp)
	require.NoError(t, err)
	assert.NotContains(t, res.SQL, "RECURSIVE")
	assert.Equal(t, n, strings.Count(res.SQL, "FROM follows")+strings.Count(res.SQL, "JOIN follows"))
}

func TestChainedJoinGeneratorRejectsRange(t *testing.T) {
	sp := baseSpec()
	max := 3
	sp.VarLength = &logicalexpr.VariableLengthSpec{MinHops: 1, MaxHops: &max}
	_, err := vlp.ChainedJoinGenerator(sp)
	require.Error(t, err)
}

func TestChainedJoinGeneratorCyclePrevention(t *testing.T) {
	n := 3
	sp := baseSpec()
	sp.VarLength = &logicalexpr.VariableLengthSpec{MinHops: n, MaxHops: &n}
	res, err := vlp.ChainedJoinGenerator(sp)
	require.NoError(t, err)
	assert.Contains(t, res.SQL, "r0.from_id <> r2.from_id")
}

func TestChainedJoinGeneratorSingleHopNoCycleGuard(t *testing.T) {
	n := 1
	sp := baseSpec()
	sp.VarLength = &logicalexpr.VariableLengthSpec{MinHops: n, MaxHops: &n}
	res, err := vlp.ChainedJoinGenerator(sp)
	require.NoError(t, err)
	assert.NotContains(t, res.SQL, "<>")
}

// Testable property 6: for a range, a recursive CTE is emitted with
// termination (explicit max_hops predicate) and cycle prevention.
func TestVariableLengthCteGeneratorRange(t *testing.T) {
	max := 3
	sp := baseSpec()
	sp.VarLength = &logicalexpr.VariableLengthSpec{MinHops: 2, MaxHops: &max}

	res, err := vlp.VariableLengthCteGenerator(sp, "vlp_a_b")
	require.NoError(t, err)
	assert.Contains(t, res.SQL, "WITH RECURSIVE")
	assert.Contains(t, res.SQL, "hop_count < 3")
	assert.Contains(t, res.SQL, "has(base.path_nodes")
	assert.Contains(t, res.SQL, "hop_count >= 2")
	assert.False(t, res.EndFilterPushed)
}

func TestVariableLengthCteGeneratorUnbounded(t *testing.T) {
	sp := baseSpec()
	sp.VarLength = &logicalexpr.VariableLengthSpec{MinHops: 1, MaxHops: nil}
	res, err := vlp.VariableLengthCteGenerator(sp, "vlp_a_b")
	require.NoError(t, err)
	assert.NotContains(t, res.SQL, "hop_count <")
}

// Regression: MinHops > 1 with no shortest-path mode and no end filter must
// still produce a syntactically valid WHERE clause (previously emitted
// "...FROM base AND hop_count >= N" with no WHERE keyword).
func TestVariableLengthCteGeneratorMinHopsWithoutWhereClause(t *testing.T) {
	max := 4
	sp := baseSpec()
	sp.VarLength = &logicalexpr.VariableLengthSpec{MinHops: 2, MaxHops: &max}
	res, err := vlp.VariableLengthCteGenerator(sp, "vlp_a_b")
	require.NoError(t, err)
	assert.NotContains(t, res.SQL, "base AND")
	assert.Contains(t, res.SQL, "WHERE")
}

func TestVariableLengthCteGeneratorShortestPathGroupsByMinHopCount(t *testing.T) {
	sp := baseSpec()
	sp.VarLength = &logicalexpr.VariableLengthSpec{MinHops: 1, MaxHops: nil}
	sp.Shortest = logicalexpr.Shortest
	sp.EndFilterSQL = "t.end_id = 42"

	res, err := vlp.VariableLengthCteGenerator(sp, "vlp_a_b")
	require.NoError(t, err)
	assert.Contains(t, res.SQL, "MIN(b2.hop_count)")
	assert.True(t, res.EndFilterPushed)
	assert.Contains(t, res.SQL, "t.end_id = 42")
}

func TestVariableLengthCteGeneratorNonShortestEndFilterNotPushed(t *testing.T) {
	sp := baseSpec()
	sp.VarLength = &logicalexpr.VariableLengthSpec{MinHops: 1, MaxHops: nil}
	sp.EndFilterSQL = "t.end_id = 42"

	res, err := vlp.VariableLengthCteGenerator(sp, "vlp_a_b")
	require.NoError(t, err)
	assert.False(t, res.EndFilterPushed)
	assert.NotContains(t, res.SQL, "42")
}
