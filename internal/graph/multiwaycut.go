package graph

// MultiwayCut partitions g so each partition contains exactly one of the
// terminal vertices in terminals (spec.md §4.1). It is the greedy isolation
// heuristic: a known constant-factor approximation, not an exact solver —
// acceptable because the caller's objective (minimizing clock-domain-
// crossing wire count, spec.md §4.6 step 7) is itself only a heuristic
// cost. Callers should check legality (exactly one terminal per partition)
// rather than optimality.
//
// The returned map associates every vertex of g with the terminal vertex id
// of its assigned partition.
func MultiwayCut(g *Graph, weights map[EdgeID]int, terminals []VertexID) map[VertexID]VertexID {
	result := make(map[VertexID]VertexID)

	working := g.Clone()
	remaining := append([]VertexID(nil), terminals...)

	for len(remaining) > 1 {
		type cutResult struct {
			weight int
			graph  *Graph
		}
		cuts := make(map[VertexID]cutResult, len(remaining))

		for _, t := range remaining {
			h := working.Clone()

			var other []VertexID
			for _, u := range remaining {
				if u != t {
					other = append(other, u)
				}
			}
			s := other[0]
			for _, u := range other[1:] {
				h.MergeVerts(u, s)
			}

			merged := cloneWeights(weights)
			collapseParallelEdges(h, merged)

			w := MinSTCut(h, merged, t, s)
			cuts[t] = cutResult{weight: w, graph: h}
		}

		// Smallest cut wins; remaining is iterated in a stable order so
		// ties resolve deterministically to the first terminal in list
		// order, matching std::min_element's first-minimum semantics.
		best := remaining[0]
		for _, t := range remaining[1:] {
			if cuts[t].weight < cuts[best].weight {
				best = t
			}
		}

		connected := cuts[best].graph.ConnectedVerts(best)
		for _, v := range connected {
			result[v] = best
			working.DelVertex(v)
		}

		var next []VertexID
		for _, t := range remaining {
			if t != best {
				next = append(next, t)
			}
		}
		remaining = next
	}

	last := remaining[0]
	for _, v := range working.Verts() {
		result[v] = last
	}
	return result
}

func cloneWeights(w map[EdgeID]int) map[EdgeID]int {
	out := make(map[EdgeID]int, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// collapseParallelEdges sums the weight of every group of parallel
// undirected edges between the same pair of vertices into the first edge
// of the group and deletes the rest, matching the C++ implementation's
// merge step after vertex collapsing produces duplicate edges.
func collapseParallelEdges(h *Graph, weights map[EdgeID]int) {
	seen := make(map[[2]VertexID]EdgeID)
	for _, e := range h.Edges() {
		v1, v2 := h.EdgeVerts(e)
		key := [2]VertexID{v1, v2}
		if v2 < v1 {
			key = [2]VertexID{v2, v1}
		}
		if first, ok := seen[key]; ok {
			weights[first] += weights[e]
			h.DelEdge(e)
			continue
		}
		seen[key] = e
	}
}
