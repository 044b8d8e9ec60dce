package outer

import (
	"sort"

	"github.com/jonathanscottrose/genie/internal/graph"
	"github.com/jonathanscottrose/genie/internal/model"
)

// AssignRSDomains is step 3: build the RS-logical graph (one vertex per
// RS port, one edge per logical link, no internal links), run connected
// components, and assign each component a new domain id (spec.md §4.5
// step 3). Returns the domain id assigned to each RS port and each
// logical link.
func AssignRSDomains(ports []*model.Object, logicalLinks []*model.Link) (portDomain map[*model.Object]int, linkDomain map[*model.Link]int) {
	g := graph.New()
	vertOf := make(map[*model.Object]graph.VertexID)
	portOf := make(map[graph.VertexID]*model.Object)
	edgeLink := make(map[graph.EdgeID]*model.Link)

	vertex := func(p *model.Object) graph.VertexID {
		if v, ok := vertOf[p]; ok {
			return v
		}
		v := g.NewVertex()
		vertOf[p] = v
		portOf[v] = p
		return v
	}
	for _, p := range ports {
		vertex(p)
	}
	for _, l := range logicalLinks {
		v1 := vertex(l.SrcObject())
		v2 := vertex(l.SinkObject())
		e := g.NewEdge(v1, v2)
		edgeLink[e] = l
	}

	vertComp, edgeComp := graph.ConnectedComponents(g)

	portDomain = make(map[*model.Object]int, len(ports))
	for v, comp := range vertComp {
		portDomain[portOf[v]] = comp
	}
	linkDomain = make(map[*model.Link]int, len(logicalLinks))
	for e, comp := range edgeComp {
		linkDomain[edgeLink[e]] = comp
	}
	return portDomain, linkDomain
}

// Transmission is one source-object/source-address bin of logical links
// in a domain (spec.md §4.5 step 4).
type Transmission struct {
	ID        int
	Domain    int
	SrcObject *model.Object
	SrcAddr   uint
	Links     []*model.Link
}

// CreateTransmissions is step 4: bin logical links by source Object,
// within each source-bin bin again by source address; each inner bin is
// one transmission (spec.md §4.5 step 4). Bins are walked in the
// caller-supplied deterministic order of logicalLinks.
func CreateTransmissions(logicalLinks []*model.Link, domainOf func(*model.Link) int) []*Transmission {
	type key struct {
		src  *model.Object
		addr uint
	}
	order := make([]key, 0)
	seen := make(map[key]bool)
	bins := make(map[key][]*model.Link)

	for _, l := range logicalLinks {
		k := key{src: l.SrcObject(), addr: l.Logical.SrcAddr}
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
		bins[k] = append(bins[k], l)
	}

	out := make([]*Transmission, 0, len(order))
	for i, k := range order {
		links := bins[k]
		out = append(out, &Transmission{
			ID:        i,
			Domain:    domainOf(links[0]),
			SrcObject: k.src,
			SrcAddr:   k.addr,
			Links:     links,
		})
	}
	return out
}

// FindManualTopologyDomains is step 5: a domain is manual if it already
// has user-created topo links; manual domains are skipped by the
// automatic crossbar/routing stages below (spec.md §4.5 step 5).
func FindManualTopologyDomains(topoLinks []*model.Link, domainOfTopo func(*model.Link) int) map[int]bool {
	manual := make(map[int]bool)
	for _, l := range topoLinks {
		manual[domainOfTopo(l)] = true
	}
	return manual
}

// SortedDomainIDs returns the distinct domain ids present in portDomain,
// ascending, for deterministic per-domain iteration order.
func SortedDomainIDs(portDomain map[*model.Object]int) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, d := range portDomain {
		if !seen[d] {
			seen[d] = true
			ids = append(ids, d)
		}
	}
	sort.Ints(ids)
	return ids
}
