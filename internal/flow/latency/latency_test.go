package latency

import (
	"testing"

	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func phys(i uint64) model.LinkID { return model.LinkID{Net: model.NetRSPhys, Index: i} }

func TestObjectiveMinimizesWidthWeightedLatency(t *testing.T) {
	b := NewBuilder()
	l0 := phys(0)
	b.LatencyVar(l0)
	b.AddTopoBounds([]model.LinkID{l0}, 3, model.Unbounded)

	p := b.Build(BranchAndBound{}, func(model.LinkID) int { return 7 })
	sol, err := p.Solve()
	require.NoError(t, err)
	col, ok := b.physCol[l0]
	require.True(t, ok)
	assert.Equal(t, 3, sol.Value(col))
}

func TestTopoMaxRegsUpperBounds(t *testing.T) {
	b := NewBuilder()
	l0, l1 := phys(0), phys(1)
	b.AddTopoBounds([]model.LinkID{l0, l1}, 1, 2)

	p := b.Build(BranchAndBound{}, func(model.LinkID) int { return 0 })
	sol, err := p.Solve()
	require.NoError(t, err)
	sum := sol.Value(b.physCol[l0]) + sol.Value(b.physCol[l1])
	assert.GreaterOrEqual(t, sum, 1)
	assert.LessOrEqual(t, sum, 2)
}

func TestSyncConstraintDroppedWhenLinkMissing(t *testing.T) {
	b := NewBuilder()
	missing := model.LinkID{Net: model.NetRSLogical, Index: 99}
	c := SyncConstraint{
		Terms: []SignedChain{{Sign: 1, Chain: Chain{Logical: []model.LinkID{missing}}}},
		Op:    SyncEQ,
		RHS:   5,
	}
	rowsBefore := len(b.rows)
	b.AddSyncConstraint(c, func(model.LinkID) []model.LinkID { return nil }, func(model.LinkID) bool { return false })
	assert.Equal(t, rowsBefore, len(b.rows))
}

func TestForceLatencyWithoutBinaryVar(t *testing.T) {
	b := NewBuilder()
	l0 := phys(0)
	b.ForceLatency(l0, 1)
	p := b.Build(BranchAndBound{}, func(model.LinkID) int { return 8 })
	sol, err := p.Solve()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sol.Value(b.physCol[l0]), 1)
}

func TestRegGraphCoverFindsOverweightSnake(t *testing.T) {
	g := NewRegGraph()
	a, bId, c := phys(0), phys(1), phys(2)
	g.AddEdge(a, bId, 4)
	g.AddEdge(bId, c, 4)

	snakes := g.Cover(5)
	require.NotEmpty(t, snakes)
}
