package graph

// MinSTCut computes the minimum-weight cut between s and t in an undirected
// weighted graph (spec.md §4.1). It is Ford-Fulkerson on a reified directed
// graph: every undirected edge becomes two anti-parallel directed edges,
// both seeded with the original capacity. Augmenting paths are found by
// depth-first search, not in the shortest-path (breadth-first) order of
// Edmonds-Karp. The cut is every edge between the vertices still reachable
// from s in the final residual graph and the rest; those edges are removed
// from g, and the total cut weight is returned.
//
// Recovering the original weight of each cut edge is the one non-obvious
// step: forward and backward residual capacity on an edge and its twin
// always sum to 2*original_weight, so the original weight is half of that
// sum (the saturated direction holds zero).
func MinSTCut(g *Graph, weights map[EdgeID]int, s, t VertexID) int {
	// R is g reified: every edge e=(v1,v2) gets a reverse twin e'=(v2,v1)
	// with the same starting capacity.
	r := g.Clone()
	cap := make(map[EdgeID]int, len(weights)*2)
	twin := make(map[EdgeID]EdgeID, len(weights)*2)

	for _, e := range g.Edges() {
		cap[e] = weights[e]
	}
	// Allocate reverse edges with fresh ids above the current max, so they
	// never collide with ids used elsewhere in a shared id space.
	nextID := r.nextEdge
	for _, e := range g.Edges() {
		v1, v2 := g.EdgeVerts(e)
		re := nextID
		nextID++
		r.connect(re, v2, v1)
		cap[re] = weights[e]
		twin[e] = re
		twin[re] = e
	}
	r.nextEdge = nextID

	// After the last, failed search, visited holds every vertex reachable
	// from s over positive residual capacity: the s side of the cut.
	var visited map[VertexID]bool
	for {
		visited = make(map[VertexID]bool, len(r.vertOrder))
		path := []VertexID{s}
		visited[s] = true

		for len(path) > 0 {
			cur := path[len(path)-1]
			if cur == t {
				break
			}
			advanced := false
			for _, e := range r.vertEdges[cur] {
				ev := r.edges[e]
				if ev.v1 != cur {
					continue
				}
				if cap[e] > 0 && !visited[ev.v2] {
					visited[ev.v2] = true
					path = append(path, ev.v2)
					advanced = true
					break
				}
			}
			if !advanced {
				path = path[:len(path)-1]
			}
		}

		if len(path) == 0 {
			break
		}

		// Bottleneck capacity along the augmenting path.
		minCap := int(^uint(0) >> 1)
		for i := 0; i+1 < len(path); i++ {
			e := r.DirEdge(path[i], path[i+1])
			if cap[e] < minCap {
				minCap = cap[e]
			}
		}
		for i := 0; i+1 < len(path); i++ {
			v1, v2 := path[i], path[i+1]
			e1 := r.DirEdge(v1, v2)
			e2 := r.DirEdge(v2, v1)
			cap[e1] -= minCap
			cap[e2] += minCap
		}
	}

	total := 0
	for _, e := range g.Edges() {
		v1, v2 := g.EdgeVerts(e)
		if visited[v1] != visited[v2] {
			total += (cap[e] + cap[twin[e]]) / 2
			g.DelEdge(e)
		}
	}
	return total
}
