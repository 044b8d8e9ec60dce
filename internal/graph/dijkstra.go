package graph

import "container/heap"

// DistanceFunc returns the traversal distance for an edge, directed from
// the vertex currently being expanded. The default (nil) is a uniform
// distance of 1 per edge, per spec.md §4.1.
type DistanceFunc func(e EdgeID) int

// Dijkstra finds a shortest directed path from src to dest, following
// DirNeigh adjacency. It returns the sequence of edge ids on the path in
// traversal order, and ok=false if dest is unreachable.
func Dijkstra(g *Graph, src, dest VertexID, dist DistanceFunc) (path []EdgeID, ok bool) {
	if dist == nil {
		dist = func(EdgeID) int { return 1 }
	}

	const inf = int(^uint(0) >> 1)
	distTo := map[VertexID]int{src: 0}
	viaEdge := map[VertexID]EdgeID{}
	viaVert := map[VertexID]VertexID{}
	visited := map[VertexID]bool{}

	pq := &vertexHeap{{v: src, d: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(vertexDist)
		if visited[cur.v] {
			continue
		}
		visited[cur.v] = true
		if cur.v == dest {
			break
		}

		for _, e := range g.dirEdgesFrom(cur.v) {
			next := g.OtherVert(e, cur.v)
			if visited[next] {
				continue
			}
			nd := cur.d + dist(e)
			if old, seen := distTo[next]; !seen || nd < old {
				distTo[next] = nd
				viaEdge[next] = e
				viaVert[next] = cur.v
				heap.Push(pq, vertexDist{v: next, d: nd})
			}
		}
		_ = inf
	}

	if !visited[dest] {
		return nil, false
	}

	// Walk parent pointers back from dest to src, then reverse.
	var rev []EdgeID
	for v := dest; v != src; {
		e, seen := viaEdge[v]
		if !seen {
			return nil, false
		}
		rev = append(rev, e)
		v = viaVert[v]
	}
	path = make([]EdgeID, len(rev))
	for i, e := range rev {
		path[len(rev)-1-i] = e
	}
	return path, true
}

// dirEdgesFrom returns, in insertion order, the edges directed away from v.
func (g *Graph) dirEdgesFrom(v VertexID) []EdgeID {
	var out []EdgeID
	for _, e := range g.vertEdges[v] {
		if g.edges[e].v1 == v {
			out = append(out, e)
		}
	}
	return out
}

type vertexDist struct {
	v VertexID
	d int
}

type vertexHeap []vertexDist

func (h vertexHeap) Len() int            { return len(h) }
func (h vertexHeap) Less(i, j int) bool  { return h[i].d < h[j].d }
func (h vertexHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *vertexHeap) Push(x interface{}) { *h = append(*h, x.(vertexDist)) }
func (h *vertexHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
