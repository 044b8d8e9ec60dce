package model

import "github.com/jonathanscottrose/genie/internal/graph"

// LinkRelations is the containment graph described in spec.md §3: a
// directed graph whose vertices are Link identifiers and whose edges are
// parent -> child relations (a logical RS link is a parent of each topo
// link along its route; a topo link is the parent of each physical RS link
// realizing it). It holds non-owning references to Links (just their ids)
// and must be told whenever a Link is destroyed (spec.md §5).
type LinkRelations struct {
	g        *graph.Graph
	vertexOf map[LinkID]graph.VertexID
	linkOf   map[graph.VertexID]LinkID
}

// NewLinkRelations returns an empty containment graph.
func NewLinkRelations() *LinkRelations {
	return &LinkRelations{
		g:        graph.New(),
		vertexOf: make(map[LinkID]graph.VertexID),
		linkOf:   make(map[graph.VertexID]LinkID),
	}
}

func (r *LinkRelations) vertex(id LinkID) graph.VertexID {
	if v, ok := r.vertexOf[id]; ok {
		return v
	}
	v := r.g.NewVertex()
	r.vertexOf[id] = v
	r.linkOf[v] = id
	return v
}

// AddRelation records that parent is a parent of child.
func (r *LinkRelations) AddRelation(parent, child LinkID) {
	r.g.NewEdge(r.vertex(parent), r.vertex(child))
}

// Forget removes id and every relation edge touching it — callers must
// call this whenever a Link is destroyed (spec.md §5).
func (r *LinkRelations) Forget(id LinkID) {
	v, ok := r.vertexOf[id]
	if !ok {
		return
	}
	r.g.DelVertex(v)
	delete(r.vertexOf, id)
	delete(r.linkOf, v)
}

// Children returns id's direct children, optionally filtered to net.
func (r *LinkRelations) Children(id LinkID, net NetworkType, filter bool) []LinkID {
	v, ok := r.vertexOf[id]
	if !ok {
		return nil
	}
	var out []LinkID
	for _, child := range r.g.DirNeigh(v) {
		cid := r.linkOf[child]
		if !filter || cid.Net == net {
			out = append(out, cid)
		}
	}
	return out
}

// Parents returns id's direct parents, optionally filtered to net.
func (r *LinkRelations) Parents(id LinkID, net NetworkType, filter bool) []LinkID {
	v, ok := r.vertexOf[id]
	if !ok {
		return nil
	}
	var out []LinkID
	for _, parent := range r.g.DirNeighR(v) {
		pid := r.linkOf[parent]
		if !filter || pid.Net == net {
			out = append(out, pid)
		}
	}
	return out
}

// Descendants returns every transitive descendant of id, filtered to net
// (membership queries return the set of descendants filtered by a target
// network, spec.md §3).
func (r *LinkRelations) Descendants(id LinkID, net NetworkType) []LinkID {
	return r.transitive(id, net, true)
}

// Ancestors returns every transitive ancestor of id, filtered to net.
func (r *LinkRelations) Ancestors(id LinkID, net NetworkType) []LinkID {
	return r.transitive(id, net, false)
}

func (r *LinkRelations) transitive(id LinkID, net NetworkType, forward bool) []LinkID {
	start, ok := r.vertexOf[id]
	if !ok {
		return nil
	}
	visited := map[graph.VertexID]bool{start: true}
	queue := []graph.VertexID{start}
	var out []LinkID
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		var next []graph.VertexID
		if forward {
			next = r.g.DirNeigh(v)
		} else {
			next = r.g.DirNeighR(v)
		}
		for _, n := range next {
			if visited[n] {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
			lid := r.linkOf[n]
			if lid.Net == net {
				out = append(out, lid)
			}
		}
	}
	return out
}
