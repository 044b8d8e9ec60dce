package graph

// ConnectedComponents performs an undirected flood-fill over g and returns
// a component number for every vertex and every edge (spec.md §4.1).
// Component numbers are assigned in the order components are first
// discovered while walking Verts() in insertion order, so the result is
// deterministic across runs given the same graph construction order.
func ConnectedComponents(g *Graph) (vertComp map[VertexID]int, edgeComp map[EdgeID]int) {
	vertComp = make(map[VertexID]int)
	edgeComp = make(map[EdgeID]int)

	next := 0
	for _, start := range g.Verts() {
		if _, seen := vertComp[start]; seen {
			continue
		}
		comp := next
		next++

		queue := []VertexID{start}
		vertComp[start] = comp
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, e := range g.IncidentEdges(v) {
				edgeComp[e] = comp
				other := g.OtherVert(e, v)
				if _, seen := vertComp[other]; !seen {
					vertComp[other] = comp
					queue = append(queue, other)
				}
			}
		}
	}
	return vertComp, edgeComp
}
