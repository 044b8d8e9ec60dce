// Package graph implements the generic, type-erased directed multigraph
// that underlies every network in the GENIE data model (spec.md §4.1), plus
// the graph algorithms the flow compiler calls: connected components,
// Dijkstra shortest path, min-s-t-cut, and multiway-cut.
//
// Vertex and edge identities are stable integers from independent,
// never-reused counters (spec.md §4.1). Every iteration here walks an
// insertion-ordered slice rather than a map, because spec.md §5 requires
// the whole compiler to be deterministic: the same input graph, visited in
// the same order, must produce byte-identical output on every run.
package graph

import "math"

// VertexID and EdgeID are opaque, monotonically increasing handles. Deleted
// ids are never reissued within a Graph's lifetime, matching the C++
// implementation's `m_next_vid`/`m_next_eid` counters.
type VertexID uint64
type EdgeID uint64

// InvalidVertex and InvalidEdge mirror the sentinel values the original
// implementation uses for "no such vertex/edge."
const (
	InvalidVertex VertexID = math.MaxUint64
	InvalidEdge   EdgeID   = math.MaxUint64
)

type edge struct {
	v1, v2 VertexID
}

// Graph is an undirected-capable directed multigraph: every Edge records an
// ordered (v1, v2) pair, but algorithms that want undirected adjacency
// (neigh, connected components, min-cut) ignore the order, while ones that
// want directed adjacency (dir_neigh, routing) respect it.
type Graph struct {
	vertOrder []VertexID
	vertSet   map[VertexID]struct{}
	vertEdges map[VertexID][]EdgeID // insertion-ordered incident edge list

	edgeOrder []EdgeID
	edges     map[EdgeID]edge

	nextVertex VertexID
	nextEdge   EdgeID
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		vertSet:   make(map[VertexID]struct{}),
		vertEdges: make(map[VertexID][]EdgeID),
		edges:     make(map[EdgeID]edge),
	}
}

// NewVertex allocates a fresh vertex id.
func (g *Graph) NewVertex() VertexID {
	id := g.nextVertex
	g.nextVertex++
	g.addVertex(id)
	return id
}

// AddVertex inserts a vertex with a caller-chosen id (used when rebuilding
// or copying a graph while preserving ids, e.g. multiway-cut's working
// copies).
func (g *Graph) AddVertex(id VertexID) {
	g.addVertex(id)
	if id >= g.nextVertex {
		g.nextVertex = id + 1
	}
}

func (g *Graph) addVertex(id VertexID) {
	if _, ok := g.vertSet[id]; ok {
		return
	}
	g.vertSet[id] = struct{}{}
	g.vertOrder = append(g.vertOrder, id)
	g.vertEdges[id] = nil
}

// NewEdge allocates a fresh edge id connecting v1 -> v2 (source -> sink for
// directed queries; either order for undirected queries).
func (g *Graph) NewEdge(v1, v2 VertexID) EdgeID {
	id := g.nextEdge
	g.nextEdge++
	g.connect(id, v1, v2)
	return id
}

func (g *Graph) connect(id EdgeID, v1, v2 VertexID) {
	g.edges[id] = edge{v1: v1, v2: v2}
	g.edgeOrder = append(g.edgeOrder, id)
	g.vertEdges[v1] = append(g.vertEdges[v1], id)
	if v2 != v1 {
		g.vertEdges[v2] = append(g.vertEdges[v2], id)
	}
}

// HasVertex reports whether v is present.
func (g *Graph) HasVertex(v VertexID) bool {
	_, ok := g.vertSet[v]
	return ok
}

// HasEdge reports whether e is present.
func (g *Graph) HasEdge(e EdgeID) bool {
	_, ok := g.edges[e]
	return ok
}

// Verts returns all vertex ids in insertion order.
func (g *Graph) Verts() []VertexID {
	out := make([]VertexID, len(g.vertOrder))
	copy(out, g.vertOrder)
	return out
}

// Edges returns all edge ids in insertion order.
func (g *Graph) Edges() []EdgeID {
	out := make([]EdgeID, len(g.edgeOrder))
	copy(out, g.edgeOrder)
	return out
}

// EdgeVerts returns the (v1, v2) pair an edge was created with.
func (g *Graph) EdgeVerts(e EdgeID) (VertexID, VertexID) {
	ev := g.edges[e]
	return ev.v1, ev.v2
}

// OtherVert returns the endpoint of e that isn't self.
func (g *Graph) OtherVert(e EdgeID, self VertexID) VertexID {
	ev := g.edges[e]
	if ev.v1 == self {
		return ev.v2
	}
	return ev.v1
}

// IncidentEdges returns, in insertion order, every edge touching v
// (undirected sense).
func (g *Graph) IncidentEdges(v VertexID) []EdgeID {
	src := g.vertEdges[v]
	out := make([]EdgeID, len(src))
	copy(out, src)
	return out
}

// Neigh returns the undirected neighbor list of v (duplicates kept for
// parallel edges), in insertion order of the incident edges.
func (g *Graph) Neigh(v VertexID) []VertexID {
	var out []VertexID
	for _, e := range g.vertEdges[v] {
		out = append(out, g.OtherVert(e, v))
	}
	return out
}

// DirNeigh returns vertices reachable by an edge directed away from v
// (v == edge.v1).
func (g *Graph) DirNeigh(v VertexID) []VertexID {
	var out []VertexID
	for _, e := range g.vertEdges[v] {
		ev := g.edges[e]
		if ev.v1 == v {
			out = append(out, ev.v2)
		}
	}
	return out
}

// DirNeighR returns vertices with an edge directed into v (v == edge.v2).
func (g *Graph) DirNeighR(v VertexID) []VertexID {
	var out []VertexID
	for _, e := range g.vertEdges[v] {
		ev := g.edges[e]
		if ev.v2 == v && ev.v1 != v {
			out = append(out, ev.v1)
		}
	}
	return out
}

// DirEdges returns edges directed from v1 to v2.
func (g *Graph) DirEdges(v1, v2 VertexID) []EdgeID {
	var out []EdgeID
	for _, e := range g.vertEdges[v1] {
		ev := g.edges[e]
		if ev.v1 == v1 && ev.v2 == v2 {
			out = append(out, e)
		}
	}
	return out
}

// DirEdge returns the first edge directed from v1 to v2, or InvalidEdge.
func (g *Graph) DirEdge(v1, v2 VertexID) EdgeID {
	es := g.DirEdges(v1, v2)
	if len(es) == 0 {
		return InvalidEdge
	}
	return es[0]
}

// UndirEdges returns every edge between v1 and v2 regardless of direction.
func (g *Graph) UndirEdges(v1, v2 VertexID) []EdgeID {
	var out []EdgeID
	for _, e := range g.vertEdges[v1] {
		ev := g.edges[e]
		if (ev.v1 == v1 && ev.v2 == v2) || (ev.v1 == v2 && ev.v2 == v1) {
			out = append(out, e)
		}
	}
	return out
}

// DelVertex removes v and every edge incident to it.
func (g *Graph) DelVertex(v VertexID) {
	for _, e := range append([]EdgeID(nil), g.vertEdges[v]...) {
		g.DelEdge(e)
	}
	delete(g.vertSet, v)
	delete(g.vertEdges, v)
	g.vertOrder = removeVertex(g.vertOrder, v)
}

// DelEdge removes e.
func (g *Graph) DelEdge(e EdgeID) {
	ev, ok := g.edges[e]
	if !ok {
		return
	}
	delete(g.edges, e)
	g.edgeOrder = removeEdge(g.edgeOrder, e)
	g.vertEdges[ev.v1] = removeEdge(g.vertEdges[ev.v1], e)
	if ev.v2 != ev.v1 {
		g.vertEdges[ev.v2] = removeEdge(g.vertEdges[ev.v2], e)
	}
}

func removeVertex(s []VertexID, v VertexID) []VertexID {
	out := s[:0:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func removeEdge(s []EdgeID, e EdgeID) []EdgeID {
	out := s[:0:0]
	for _, x := range s {
		if x != e {
			out = append(out, x)
		}
	}
	return out
}

// MergeVerts merges src into dest: every edge touching src is redirected to
// dest, self-loops created by the merge are discarded, and duplicate edges
// are kept (spec.md §4.1 "merge two vertices"). src is removed.
func (g *Graph) MergeVerts(src, dest VertexID) {
	if src == dest {
		return
	}
	for _, e := range append([]EdgeID(nil), g.vertEdges[src]...) {
		ev := g.edges[e]
		nv1, nv2 := ev.v1, ev.v2
		if nv1 == src {
			nv1 = dest
		}
		if nv2 == src {
			nv2 = dest
		}
		g.DelEdge(e)
		if nv1 == nv2 {
			continue // self-loop, discard
		}
		g.connect(e, nv1, nv2)
	}
	delete(g.vertSet, src)
	delete(g.vertEdges, src)
	g.vertOrder = removeVertex(g.vertOrder, src)
}

// MergeVertList collapses an entire list of vertices into its first member.
func (g *Graph) MergeVertList(vs []VertexID) {
	if len(vs) < 2 {
		return
	}
	dest := vs[0]
	for _, v := range vs[1:] {
		g.MergeVerts(v, dest)
	}
}

// ConnectedVerts returns every vertex reachable from t via undirected
// edges, including t itself, in BFS-discovery order.
func (g *Graph) ConnectedVerts(t VertexID) []VertexID {
	visited := map[VertexID]bool{t: true}
	order := []VertexID{t}
	queue := []VertexID{t}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, n := range g.Neigh(v) {
			if !visited[n] {
				visited[n] = true
				order = append(order, n)
				queue = append(queue, n)
			}
		}
	}
	return order
}

// Complement flips edge-existence between every pair of distinct vertices:
// an edge present in g is removed from the result, and vice versa. Intended
// only for small special-purpose graphs (spec.md §4.1).
func (g *Graph) Complement() *Graph {
	out := New()
	for _, v := range g.vertOrder {
		out.AddVertex(v)
	}
	has := func(a, b VertexID) bool { return len(g.UndirEdges(a, b)) > 0 }
	for i, a := range g.vertOrder {
		for _, b := range g.vertOrder[i+1:] {
			if !has(a, b) {
				out.NewEdge(a, b)
			}
		}
	}
	return out
}

// UnionWith adds every vertex and edge of other into g, preserving ids.
// Only meaningful when the two graphs' id spaces are disjoint.
func (g *Graph) UnionWith(other *Graph) {
	for _, v := range other.vertOrder {
		g.AddVertex(v)
	}
	for _, e := range other.edgeOrder {
		ev := other.edges[e]
		g.edges[e] = ev
		g.edgeOrder = append(g.edgeOrder, e)
		g.vertEdges[ev.v1] = append(g.vertEdges[ev.v1], e)
		if ev.v2 != ev.v1 {
			g.vertEdges[ev.v2] = append(g.vertEdges[ev.v2], e)
		}
		if e >= g.nextEdge {
			g.nextEdge = e + 1
		}
	}
}

// Clone makes a deep, id-preserving copy, used by algorithms (min-cut,
// multiway-cut) that destructively mutate a working copy.
func (g *Graph) Clone() *Graph {
	out := New()
	out.nextVertex = g.nextVertex
	out.nextEdge = g.nextEdge
	for _, v := range g.vertOrder {
		out.addVertex(v)
	}
	for _, e := range g.edgeOrder {
		ev := g.edges[e]
		out.edges[e] = ev
		out.edgeOrder = append(out.edgeOrder, e)
		out.vertEdges[ev.v1] = append(out.vertEdges[ev.v1], e)
		if ev.v2 != ev.v1 {
			out.vertEdges[ev.v2] = append(out.vertEdges[ev.v2], e)
		}
	}
	return out
}
