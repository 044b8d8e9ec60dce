package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicGraphOps(t *testing.T) {
	g := New()
	v1 := g.NewVertex()
	v2 := g.NewVertex()
	v3 := g.NewVertex()
	e1 := g.NewEdge(v1, v2)
	e2 := g.NewEdge(v2, v3)

	assert.True(t, g.HasVertex(v1))
	assert.True(t, g.HasEdge(e1))
	assert.ElementsMatch(t, []VertexID{v1, v2, v3}, g.Verts())
	assert.ElementsMatch(t, []EdgeID{e1, e2}, g.Edges())
	assert.ElementsMatch(t, []VertexID{v1, v3}, g.Neigh(v2))
	assert.ElementsMatch(t, []VertexID{v2}, g.DirNeigh(v1))
	assert.ElementsMatch(t, []VertexID{}, g.DirNeighR(v1))
}

func TestMergeVertsDropsSelfLoopsKeepsDuplicates(t *testing.T) {
	g := New()
	a := g.NewVertex()
	b := g.NewVertex()
	c := g.NewVertex()
	g.NewEdge(a, c)
	g.NewEdge(b, c)
	g.NewEdge(a, b) // becomes a self loop on merge(b->a)

	g.MergeVerts(b, a)

	assert.False(t, g.HasVertex(b))
	// Two parallel edges a-c remain (one original, one redirected from b-c);
	// the a-b self loop is discarded.
	assert.Len(t, g.UndirEdges(a, c), 2)
}

func TestConnectedComponents(t *testing.T) {
	g := New()
	a, b, c, d := g.NewVertex(), g.NewVertex(), g.NewVertex(), g.NewVertex()
	g.NewEdge(a, b)
	// c, d isolated from a, b and from each other.
	_ = c
	_ = d

	vcomp, _ := ConnectedComponents(g)
	assert.Equal(t, vcomp[a], vcomp[b])
	assert.NotEqual(t, vcomp[a], vcomp[c])
	assert.NotEqual(t, vcomp[c], vcomp[d])
}

func TestDijkstraShortestPath(t *testing.T) {
	g := New()
	a, b, c, d := g.NewVertex(), g.NewVertex(), g.NewVertex(), g.NewVertex()
	g.NewEdge(a, b)
	g.NewEdge(b, d)
	g.NewEdge(a, c)
	g.NewEdge(c, d)

	path, ok := Dijkstra(g, a, d, nil)
	require.True(t, ok)
	assert.Len(t, path, 2)

	_, none := g.NewVertex(), struct{}{}
	_ = none
	unreachable := g.NewVertex()
	_, ok = Dijkstra(g, a, unreachable, nil)
	assert.False(t, ok)
}

func TestDijkstraRespectsWeights(t *testing.T) {
	g := New()
	a, b, c, d := g.NewVertex(), g.NewVertex(), g.NewVertex(), g.NewVertex()
	direct := g.NewEdge(a, d)
	e1 := g.NewEdge(a, b)
	e2 := g.NewEdge(b, c)
	e3 := g.NewEdge(c, d)

	weight := map[EdgeID]int{direct: 100, e1: 1, e2: 1, e3: 1}
	path, ok := Dijkstra(g, a, d, func(e EdgeID) int { return weight[e] })
	require.True(t, ok)
	assert.Len(t, path, 3)
}

func TestMinSTCutSimple(t *testing.T) {
	// s - a - t, and a parallel direct s-t edge with higher weight.
	g := New()
	s := g.NewVertex()
	a := g.NewVertex()
	tt := g.NewVertex()
	e1 := g.NewEdge(s, a)
	e2 := g.NewEdge(a, tt)
	e3 := g.NewEdge(s, tt)

	weights := map[EdgeID]int{e1: 3, e2: 3, e3: 10}
	cut := MinSTCut(g, weights, s, tt)
	// Every s-t cut must include the direct edge e3 (10) plus one of e1/e2
	// (3) to break the path through a, so the minimum cut is 10+3=13.
	assert.Equal(t, 13, cut)
}

func TestMultiwayCutAssignsEveryVertexExactlyOneTerminal(t *testing.T) {
	g := New()
	t1 := g.NewVertex()
	t2 := g.NewVertex()
	t3 := g.NewVertex()
	mid := g.NewVertex()
	e1 := g.NewEdge(t1, mid)
	e2 := g.NewEdge(t2, mid)
	e3 := g.NewEdge(t3, mid)

	weights := map[EdgeID]int{e1: 1, e2: 1, e3: 1}
	result := MultiwayCut(g, weights, []VertexID{t1, t2, t3})

	assert.Equal(t, t1, result[t1])
	assert.Equal(t, t2, result[t2])
	assert.Equal(t, t3, result[t3])
	// Legality: every vertex assigned, and it's assigned to one of the
	// declared terminals.
	terminalSet := map[VertexID]bool{t1: true, t2: true, t3: true}
	for _, v := range g.Verts() {
		assigned, ok := result[v]
		require.True(t, ok, "vertex %v unassigned", v)
		assert.True(t, terminalSet[assigned])
	}
}
