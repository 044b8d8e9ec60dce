// Package inner implements Flow Inner (spec.md §4.6): the 16-step
// per-domain realization that turns a domain's topo graph into a fully
// latched physical RS graph ready for HDL elaboration.
package inner

import (
	"github.com/jonathanscottrose/genie/internal/address"
	"github.com/jonathanscottrose/genie/internal/flow"
	"github.com/jonathanscottrose/genie/internal/flow/latency"
	"github.com/jonathanscottrose/genie/internal/graph"
	"github.com/jonathanscottrose/genie/internal/model"
	"go.uber.org/zap"
)

// Domain is one RS domain's working set for Flow Inner: the snapshot
// System it operates on (spec.md §4.5 step 9: inner flow always runs
// against an isolated snapshot), the RS ports and logical links assigned
// to it, and the topo graph to realize.
type Domain struct {
	ID     int
	System *model.Object

	Ports    []*model.Object   // KindPortRS Objects in this domain
	Logical  []*model.Link     // LinkRSLogical in this domain
	TopoLinks []*model.Link    // LinkTopo in this domain, post crossbar/manual topology

	Topo      *graph.Graph
	TopoVert  map[*model.Object]graph.VertexID
	TopoEdge  map[graph.EdgeID]*model.Link

	Relations *model.LinkRelations

	Rep *address.Rep // per-domain canonical rep, built in step 2

	nextPhysIndex uint64
	Phys          []*model.Link

	nextTopoIndex      uint64
	topoIndexSeeded    bool
	oversizedSplits    []*model.Object
	oversizedMerges    []*model.Object

	// LogicDepth holds step 10's per-node timing annotation, keyed by the
	// Object whose primitive-database row was looked up (spec.md §4.6 step
	// 10, §4.7).
	LogicDepth map[*model.Object]LogicDepth

	// SyncConstraints are the user latency-equality/inequality constraints
	// applicable to this System (spec.md §4.7 "User synchronization
	// constraints"); a constraint naming a logical link outside this
	// domain is dropped when the latency solve builds its rows.
	SyncConstraints []latency.SyncConstraint
}

// OversizedSplits and OversizedMerges return the nodes Treeify found over
// their fan-out/fan-in threshold and rebuilt as a balanced tree in place,
// for callers that just want to log or count them.
func (d *Domain) OversizedSplits() []*model.Object { return d.oversizedSplits }
func (d *Domain) OversizedMerges() []*model.Object { return d.oversizedMerges }

// NewDomain returns a Domain working set ready for the step-by-step calls
// in this package.
func NewDomain(id int, sys *model.Object, relations *model.LinkRelations) *Domain {
	return &Domain{
		ID:         id,
		System:     sys,
		Relations:  relations,
		Topo:       graph.New(),
		TopoVert:   make(map[*model.Object]graph.VertexID),
		TopoEdge:   make(map[graph.EdgeID]*model.Link),
		LogicDepth: make(map[*model.Object]LogicDepth),
	}
}

func (d *Domain) topoVertex(owner *model.Object) graph.VertexID {
	if v, ok := d.TopoVert[owner]; ok {
		return v
	}
	v := d.Topo.NewVertex()
	d.TopoVert[owner] = v
	return v
}

// AddTopoLink registers a topo link already created on the model (e.g. by
// flow outer's crossbar/manual-topology step) into this domain's working
// topo graph.
func (d *Domain) AddTopoLink(l *model.Link) {
	d.TopoLinks = append(d.TopoLinks, l)
	v1 := d.topoVertex(l.SrcObject())
	v2 := d.topoVertex(l.SinkObject())
	e := d.Topo.NewEdge(v1, v2)
	d.TopoEdge[e] = l
}

func (d *Domain) allocPhysIndex() uint64 {
	idx := d.nextPhysIndex
	d.nextPhysIndex++
	return idx
}

// allocTopoIndex hands out a fresh NetTopo link index for this domain's
// own tree-ification, seeded past every index already in use by
// d.TopoLinks on first call so new internal topo links never collide with
// the ones the crossbar/manual topology already assigned.
func (d *Domain) allocTopoIndex() uint64 {
	if !d.topoIndexSeeded {
		var max uint64
		var any bool
		for _, l := range d.TopoLinks {
			if !any || l.ID.Index > max {
				max = l.ID.Index
				any = true
			}
		}
		if any {
			d.nextTopoIndex = max + 1
		}
		d.topoIndexSeeded = true
	}
	idx := d.nextTopoIndex
	d.nextTopoIndex++
	return idx
}

// Log is the per-domain logger, namespaced under the flow stage the
// caller is running.
func Log(base *zap.Logger, domainID int) *zap.Logger {
	return base.With(zap.Int("domain", domainID))
}

// Options is re-exported so callers need only import this package for
// the common per-domain entry points.
type Options = flow.Options
