package outer

import (
	"fmt"

	"github.com/jonathanscottrose/genie/internal/flow"
	"github.com/jonathanscottrose/genie/internal/flow/inner"
	"github.com/jonathanscottrose/genie/internal/flow/latency"
	"github.com/jonathanscottrose/genie/internal/graph"
	"github.com/jonathanscottrose/genie/internal/hdl"
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/primitive"
	"go.uber.org/zap"
)

// Input is everything Compile needs to run Flow Outer end to end over one
// System: the pieces a config loader extracts from the user's description
// (spec.md §4.2 "System description") plus the hooks flow outer's earlier
// steps already take as plain functions.
type Input struct {
	System       *model.Object
	SystemParams *NodeParams
	NodeParams   map[*model.Object]*NodeParams

	RSPorts      []*model.Object
	ConduitLinks []*model.Link
	LogicalLinks []*model.Link

	// PreexistingTopoLinks are topo links the user wired by hand before
	// compiling; any domain touched by one of these skips automatic
	// crossbar/routing entirely (spec.md §4.5 step 5).
	PreexistingTopoLinks []*model.Link
	TopoLinkDomain       func(*model.Link) int

	BitsOf func(model.HDLBinding) (int, error)

	ConduitSubPortsOf func(*model.Object) []*model.Object
	ConduitTagOf      func(*model.Object) string
	ConduitIsInput    func(*model.Object) bool

	// SyncConstraints are distributed to every domain; a constraint whose
	// logical link isn't that domain's own is dropped when the latency
	// solve builds its rows (spec.md §4.7).
	SyncConstraints []latency.SyncConstraint

	Options Options
	DB      *primitive.Database
}

// Options is re-exported so callers need only import this package to
// configure a Compile call.
type Options = flow.Options

// Result is Compile's return value: the elaborated HDL state plus the
// number of RS domains realized along the way.
type Result struct {
	HDL     *hdl.State
	Domains int
}

// Compile runs Flow Outer steps 1-10 over one System: parameter
// resolution, user port protocol init, RS domain assignment, transmission
// creation, crossbar/routing of any domain with no manual topology,
// conduit connection, then for every domain a snapshot/Flow-Inner/
// reintegrate pass, finishing with HDL elaboration over the whole,
// reassembled physical graph (spec.md §4.5).
func Compile(log *zap.Logger, in Input) (*Result, error) {
	// Step 1.
	if err := ResolveParameters(in.SystemParams, in.NodeParams); err != nil {
		return nil, fmt.Errorf("resolve parameters: %w", err)
	}

	// Step 2.
	for _, port := range in.RSPorts {
		if _, err := InitUserPortProtocol(port, in.BitsOf); err != nil {
			return nil, fmt.Errorf("init port protocol on %q: %w", port.HierPath(), err)
		}
	}

	// Step 3.
	portDomain, linkDomain := AssignRSDomains(in.RSPorts, in.LogicalLinks)

	// Step 4.
	txs := CreateTransmissions(in.LogicalLinks, func(l *model.Link) int { return linkDomain[l] })

	// Step 5.
	topoLinkDomain := in.TopoLinkDomain
	if topoLinkDomain == nil {
		topoLinkDomain = func(*model.Link) int { return -1 }
	}
	manual := FindManualTopologyDomains(in.PreexistingTopoLinks, topoLinkDomain)

	relations := model.NewLinkRelations()
	domains := make(map[int]*inner.Domain)
	for _, id := range SortedDomainIDs(portDomain) {
		domains[id] = inner.NewDomain(id, in.System, relations)
		domains[id].SyncConstraints = in.SyncConstraints
	}
	// RSPorts, then logical-link endpoints: a fixed order, not map order.
	seenPort := make(map[*model.Object]bool, len(portDomain))
	addPort := func(port *model.Object) {
		if !seenPort[port] {
			seenPort[port] = true
			domains[portDomain[port]].Ports = append(domains[portDomain[port]].Ports, port)
		}
	}
	for _, port := range in.RSPorts {
		addPort(port)
	}
	for _, l := range in.LogicalLinks {
		addPort(l.SrcObject())
		addPort(l.SinkObject())
	}
	for _, l := range in.LogicalLinks {
		id := linkDomain[l]
		domains[id].Logical = append(domains[id].Logical, l)
	}
	for _, l := range in.PreexistingTopoLinks {
		domains[topoLinkDomain(l)].AddTopoLink(l)
	}

	connectedInTopo := func(o *model.Object) bool {
		return o.HasEndpoint(model.NetTopo, model.DirOut) || o.HasEndpoint(model.NetTopo, model.DirIn)
	}

	// Step 6+7: for every non-manual domain, gather/build a crossbar over
	// its own logical links, then route them across the resulting topo
	// graph.
	domainExtraNodes := make(map[int][]*model.Object)
	for _, id := range SortedDomainIDs(portDomain) {
		if manual[id] {
			continue
		}
		d := domains[id]
		created, err := buildDomainTopology(in.System, d, connectedInTopo, relations, in.Options.DescSPMG)
		if err != nil {
			return nil, fmt.Errorf("domain %d: %w", id, err)
		}
		domainExtraNodes[id] = created
	}

	// Step 8.
	nextConduitIdx := uint64(0)
	if _, warnings, err := ConnectConduitLinks(in.ConduitLinks, in.ConduitSubPortsOf, in.ConduitTagOf, in.ConduitIsInput,
		func() uint64 { nextConduitIdx++; return nextConduitIdx - 1 }); err != nil {
		return nil, fmt.Errorf("connect conduit links: %w", err)
	} else {
		for _, w := range warnings {
			log.Warn("unmatched conduit sub-port", zap.String("tag", w.Tag), zap.String("message", w.Message))
		}
	}

	// Step 9: one snapshot/inner/reintegrate pass per domain, and step 10:
	// HDL elaboration over the fully reassembled physical graph.
	var allPhys []*model.Link
	for _, id := range SortedDomainIDs(portDomain) {
		d := domains[id]
		var domainTxs []inner.TransmissionInfo
		for _, tx := range txs {
			if tx.Domain != id {
				continue
			}
			logical := make([]model.LinkID, len(tx.Links))
			for i, l := range tx.Links {
				logical[i] = l.ID
			}
			domainTxs = append(domainTxs, inner.TransmissionInfo{XmisID: uint(tx.ID), Logical: logical})
		}

		snapObjects := append(append([]*model.Object(nil), d.Ports...), domainExtraNodes[id]...)
		snap, err := NewSnapshot(snapObjects)
		if err != nil {
			return nil, fmt.Errorf("domain %d: snapshot: %w", id, err)
		}
		d.System = snap.Root

		if err := d.Treeify(in.Options); err != nil {
			return nil, fmt.Errorf("domain %d: treeify: %w", id, err)
		}
		if n := len(d.OversizedSplits()) + len(d.OversizedMerges()); n > 0 {
			log.Debug("tree-decomposed oversized crossbar nodes", zap.Int("domain", id), zap.Int("count", n))
		}
		if err := d.Run(log, in.Options, in.DB, domainTxs); err != nil {
			return nil, fmt.Errorf("domain %d: run: %w", id, err)
		}
		if err := snap.Reintegrate(in.System); err != nil {
			return nil, fmt.Errorf("domain %d: reintegrate: %w", id, err)
		}
		allPhys = append(allPhys, d.Phys...)
	}

	state, err := hdl.Elaborate(in.System, allPhys)
	if err != nil {
		return nil, fmt.Errorf("elaborate: %w", err)
	}
	return &Result{HDL: state, Domains: len(domains)}, nil
}

// buildDomainTopology runs step 6 (crossbar) then step 7 (routing) for one
// automatically-topologized domain, wiring the crossbar's split/merge
// nodes into the domain's topo graph and recording the resulting
// logical->topo containment. It returns the split/merge Objects it
// created, so the caller can fold them into that domain's step 9
// snapshot alongside its ports.
func buildDomainTopology(parent *model.Object, d *inner.Domain, connectedInTopo func(*model.Object) bool, relations *model.LinkRelations, descriptiveNames bool) ([]*model.Object, error) {
	c, err := GatherCrossbar(d.Logical, connectedInTopo)
	if err != nil {
		return nil, err
	}
	splitHead, mergeHead, err := BuildCrossbar(parent, c, descriptiveNames)
	if err != nil {
		return nil, err
	}

	topo := graph.New()
	vertOf := make(map[*model.Object]graph.VertexID)
	edgeLink := make(map[graph.EdgeID]*model.Link)
	nextTopoIdx := uint64(0)

	vertex := func(o *model.Object) graph.VertexID {
		if v, ok := vertOf[o]; ok {
			return v
		}
		v := topo.NewVertex()
		vertOf[o] = v
		return v
	}
	connect := func(src, sink *model.Object) error {
		l, err := model.NewLink(model.NetTopo, nextTopoIdx, src.Endpoint(model.NetTopo, model.DirOut), sink.Endpoint(model.NetTopo, model.DirIn))
		if err != nil {
			return err
		}
		nextTopoIdx++
		d.AddTopoLink(l)
		e := topo.NewEdge(vertex(src), vertex(sink))
		edgeLink[e] = l
		return nil
	}

	// Every source's fan-out, whether or not it needed an actual split
	// node, connects to each of its sinks' fan-in head (or the sink
	// itself, if that sink needed no merge node either).
	for _, src := range c.SplitOrder {
		from := src
		if head, ok := splitHead[src]; ok {
			if err := connect(src, head); err != nil {
				return nil, err
			}
			from = head
		}
		for _, sink := range c.SplitFanout[src].Sinks {
			to := sink
			if head, ok := mergeHead[sink]; ok {
				to = head
			}
			if err := connect(from, to); err != nil {
				return nil, err
			}
		}
	}
	for _, sink := range c.MergeOrder {
		head, ok := mergeHead[sink]
		if !ok {
			continue
		}
		if err := connect(head, sink); err != nil {
			return nil, err
		}
	}

	vertexOf := func(o *model.Object) (graph.VertexID, bool) { v, ok := vertOf[o]; return v, ok }
	topoLinkOf := func(e graph.EdgeID) *model.Link { return edgeLink[e] }

	// Walk c.SplitOrder/c.MergeOrder, not the splitHead/mergeHead maps
	// directly, so the created-node list stays in the crossbar's
	// first-discovery order across identical runs (spec.md §5).
	var created []*model.Object
	for _, src := range c.SplitOrder {
		if v, ok := splitHead[src]; ok {
			created = append(created, v)
		}
	}
	for _, sink := range c.MergeOrder {
		if v, ok := mergeHead[sink]; ok {
			created = append(created, v)
		}
	}
	if err := RouteLogicalLinks(topo, vertexOf, topoLinkOf, d.Logical, relations, nil); err != nil {
		return nil, err
	}
	return created, nil
}
