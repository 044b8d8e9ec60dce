package inner

import (
	"fmt"

	"github.com/jonathanscottrose/genie/internal/flow/latency"
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/primitive"
	"github.com/jonathanscottrose/genie/internal/protocol"
	"go.uber.org/zap"
)

// TransmissionInfo is the subset of a flow-outer Transmission that Flow
// Inner steps 4-5 and 16 need: its domain-rep xmis id, the user address
// bound at its source port (if any), and the RS logical links it bins
// (for step 16's containment-graph lookup).
type TransmissionInfo struct {
	XmisID   uint
	UserAddr uint
	HasUser  bool
	Logical  []model.LinkID
}

// Run drives Flow Inner steps 2-16 over a Domain already populated with
// its ports, logical links, and topo links (step 1, Treeify, is a separate
// method the caller runs first). db may be nil, in which
// case RealizeLatencies always chooses a register chain and
// AnnotateTiming is skipped.
func (d *Domain) Run(log *zap.Logger, opts Options, db *primitive.Database, txs []TransmissionInfo) error {
	log = Log(log, d.ID)

	// Step 2: domain address rep. txs[i]'s canonical id is i by
	// construction (spec.md §4.3); xmisIDs below lists every
	// transmission's XmisID for the converter steps 4-5.
	d.BuildDomainAddressRep(len(txs))

	// Step 3: realize topo links into physical RS links.
	if err := d.RealizeTopoLinks(
		func(*model.Object) error { return nil },
		func(sink *model.Object) (*model.Endpoint, error) {
			return sink.Endpoint(model.NetRSPhys, model.DirIn), nil
		},
		func(src *model.Object) (*model.Endpoint, error) {
			return src.Endpoint(model.NetRSPhys, model.DirOut), nil
		},
	); err != nil {
		return fmt.Errorf("domain %d: realize topo links: %w", d.ID, err)
	}

	xmisIDs := make([]uint, len(txs))
	for i, tx := range txs {
		xmisIDs[i] = tx.XmisID
	}

	// Step 4: user-side address converters.
	for _, port := range d.Ports {
		userAddrOf := func(xmis uint) uint {
			for _, tx := range txs {
				if tx.XmisID == xmis && tx.HasUser {
					return tx.UserAddr
				}
			}
			return 0
		}
		if err := d.InsertUserSideConverter(port, userAddrOf, xmisIDs, func(*model.Object, *model.Object) error { return nil }); err != nil {
			return fmt.Errorf("domain %d: user-side converter on %q: %w", d.ID, port.HierPath(), err)
		}
	}

	// Step 5: split-node address converters.
	for _, split := range d.System.Descendants(model.KindSplit) {
		payload, ok := split.Payload.(*primitive.SplitPayload)
		if !ok {
			continue
		}
		perOutput := func(int) []uint { return xmisIDs }
		if err := d.InsertSplitConverter(split, payload.NumOutputs, perOutput, func(*model.Object, *model.Object) error { return nil }); err != nil {
			return fmt.Errorf("domain %d: split converter on %q: %w", d.ID, split.HierPath(), err)
		}
	}

	// Step 6: protocol carriage, one end-to-end chain per logical link.
	for _, logical := range d.Logical {
		chain := d.physChainFor(logical)
		PropagateCarriage(chain)
	}

	// Step 7+8: clock domains and CDC insertion. An object's clock sink is
	// "driven" once something already drives its NetClock input; the
	// driver Object is its clock-vertex key, otherwise the object is its
	// own (undriven) clock vertex.
	clockKeyOf := func(obj *model.Object) (bool, any) {
		if obj.HasEndpoint(model.NetClock, model.DirIn) {
			if l := obj.Endpoint(model.NetClock, model.DirIn).Link0(); l != nil {
				return true, l.SrcObject()
			}
		}
		return false, obj
	}
	assignment := AssignClockDomains(d.Phys, clockKeyOf)
	for _, l := range append([]*model.Link(nil), d.Phys...) {
		_, srcKey := clockKeyOf(l.SrcObject())
		_, sinkKey := clockKeyOf(l.SinkObject())
		if assignment != nil && assignment[srcKey] != assignment[sinkKey] {
			cx, err := InsertCDC(l, physWidth(l), nil)
			if err != nil {
				return fmt.Errorf("domain %d: insert CDC: %w", d.ID, err)
			}
			log.Debug("inserted clock-domain crossing", zap.String("at", cx.HierPath()))
		}
	}

	// Step 9: backpressure propagation.
	bySink := make(map[*model.Object][]*model.Link)
	for _, l := range d.Phys {
		bySink[l.SinkObject()] = append(bySink[l.SinkObject()], l)
	}
	statusOf := make(map[*model.Object]*BPPort)
	var order []*model.Object
	for _, l := range d.Phys {
		if _, ok := statusOf[l.SinkObject()]; !ok {
			statusOf[l.SinkObject()] = &BPPort{Configurable: true}
		}
		if _, ok := statusOf[l.SrcObject()]; !ok {
			statusOf[l.SrcObject()] = &BPPort{Configurable: true}
		}
	}
	for _, p := range d.Ports {
		order = append(order, p)
	}
	if err := PropagateBackpressure(bySink, statusOf, order); err != nil {
		return fmt.Errorf("domain %d: backpressure: %w", d.ID, err)
	}

	// Step 10: timing annotation (needs a primitive database; skipped
	// when none is configured). The depth is stored per source node so
	// step 11 can consult it when placing registers.
	if db != nil {
		for _, l := range d.Phys {
			if row := primitiveRowFor(db, l.SrcObject(), physWidth(l)); row != nil {
				d.LogicDepth[l.SrcObject()] = AnnotateTiming(*row, "in", "reg")
			}
		}
	}

	// Step 11: latency solve.
	builder := latency.NewBuilder()
	widthOf := make(map[model.LinkID]int, len(d.Phys))
	for _, l := range d.Phys {
		builder.LatencyVar(l.ID)
		widthOf[l.ID] = physWidth(l)
	}

	maxLogicDepth := opts.MaxLogicDepth
	if maxLogicDepth <= 0 {
		maxLogicDepth = latency.DefaultMaxLogicDepth
	}

	// A node whose own logic depth already meets or exceeds the budget
	// forces a register directly onto every physical link it drives.
	for _, l := range d.Phys {
		if depth, ok := d.LogicDepth[l.SrcObject()]; ok && depth.Depth() >= maxLogicDepth {
			builder.ForceLatency(l.ID, 1)
		}
	}

	// Chains of under-budget nodes whose combined depth still exceeds the
	// budget are found via the register graph's snake cover: an edge
	// in->out through node n, weighted by n's logic depth, for every node
	// with both an incoming and an outgoing physical link.
	incoming := make(map[*model.Object][]*model.Link)
	outgoing := make(map[*model.Object][]*model.Link)
	for _, l := range d.Phys {
		incoming[l.SinkObject()] = append(incoming[l.SinkObject()], l)
		outgoing[l.SrcObject()] = append(outgoing[l.SrcObject()], l)
	}
	regGraph := latency.NewRegGraph()
	seenNode := make(map[*model.Object]bool)
	for _, l := range d.Phys {
		node := l.SrcObject()
		depth, ok := d.LogicDepth[node]
		if !ok || seenNode[node] {
			continue
		}
		seenNode[node] = true
		for _, in := range incoming[node] {
			for _, out := range outgoing[node] {
				regGraph.AddEdge(in.ID, out.ID, depth.Depth())
			}
		}
	}
	for _, snake := range regGraph.Cover(maxLogicDepth) {
		builder.AddSnakeCover(snake)
	}

	// Topology-imposed register bounds, one row pair per topo link.
	for _, t := range d.TopoLinks {
		if t.Topo == nil {
			continue
		}
		realizing := d.Relations.Children(t.ID, model.NetRSPhys, true)
		builder.AddTopoBounds(realizing, t.Topo.MinRegs, t.Topo.MaxRegs)
	}

	// User synchronization constraints, dropped whole when any logical
	// link they name isn't part of this domain.
	existsLogical := func(id model.LinkID) bool {
		for _, l := range d.Logical {
			if l.ID == id {
				return true
			}
		}
		return false
	}
	physicalLinksOfLogical := func(id model.LinkID) []model.LinkID {
		for _, l := range d.Logical {
			if l.ID == id {
				chain := d.physChainFor(l)
				ids := make([]model.LinkID, len(chain))
				for i, p := range chain {
					ids[i] = p.ID
				}
				return ids
			}
		}
		return nil
	}
	for _, c := range d.SyncConstraints {
		builder.AddSyncConstraint(c, physicalLinksOfLogical, existsLogical)
	}

	problem := builder.Build(&latency.BranchAndBound{MaxNodes: latency.DefaultMaxNodes}, func(link model.LinkID) int {
		return widthOf[link]
	})
	solution, err := problem.Solve()
	if err != nil {
		return fmt.Errorf("domain %d: latency solve: %w", d.ID, err)
	}
	log.Debug("latency solved", zap.Int("rows", len(problem.Rows())))
	for col := 0; col < len(d.Phys); col++ {
		link, ok := builder.LinkOf(col)
		if !ok {
			continue
		}
		for _, l := range d.Phys {
			if l.ID == link {
				l.Phys.Latency = solution.Value(col)
			}
		}
	}

	// Step 12: systolic split (best-effort; skipped for splits whose
	// fanout carries uniform latency).
	for _, split := range d.System.Descendants(model.KindSplit) {
		fanout := d.physLinksFrom(split)
		if len(fanout) < 2 {
			continue
		}
		uniform := true
		for _, l := range fanout[1:] {
			if l.Phys.Latency != fanout[0].Phys.Latency {
				uniform = false
				break
			}
		}
		if uniform {
			continue
		}
		payload, _ := split.Payload.(*primitive.SplitPayload)
		pureUnicast := payload != nil && payload.PureUnicast
		if _, _, err := SystolicSplit(split, fanout, func(l *model.Link) int { return l.Phys.Latency }, pureUnicast); err != nil {
			return fmt.Errorf("domain %d: systolic split on %q: %w", d.ID, split.HierPath(), err)
		}
	}

	// Step 13: realize latencies.
	for _, l := range append([]*model.Link(nil), d.Phys...) {
		if l.Phys.Latency <= 0 {
			continue
		}
		if _, err := RealizeLatencies(l, physWidth(l), db, opts, func([]*model.Object) error { return nil }); err != nil {
			return fmt.Errorf("domain %d: realize latencies: %w", d.ID, err)
		}
	}

	// Step 14: connect resets.
	var unconnectedResetSinks, resetSources []*model.Endpoint
	for _, p := range d.Ports {
		if p.HasEndpoint(model.NetReset, model.DirIn) {
			ep := p.Endpoint(model.NetReset, model.DirIn)
			if len(ep.Links()) == 0 {
				unconnectedResetSinks = append(unconnectedResetSinks, ep)
			}
		}
		if p.HasEndpoint(model.NetReset, model.DirOut) {
			resetSources = append(resetSources, p.Endpoint(model.NetReset, model.DirOut))
		}
	}
	nextReset := uint64(0)
	if err := ConnectResets(unconnectedResetSinks, resetSources, func() uint64 { nextReset++; return nextReset - 1 }); err != nil {
		return fmt.Errorf("domain %d: connect resets: %w", d.ID, err)
	}

	// Step 15 + 16: defaults. A phys link's XMIS_ID is its unique owning
	// transmission's canonical position, found by walking the containment
	// graph up to the one RS logical link it realizes (spec.md §4.6 step
	// 16, §3).
	logicalToCanon := make(map[model.LinkID]int, len(txs))
	for i, tx := range txs {
		for _, lid := range tx.Logical {
			logicalToCanon[lid] = i
		}
	}
	DefaultEOPs(d.Phys)
	DefaultXmisIDs(d.Phys, d.Rep, func(l *model.Link) (uint, bool) {
		ancestors := d.Relations.Ancestors(l.ID, model.NetRSLogical)
		if len(ancestors) != 1 {
			return 0, false
		}
		i, ok := logicalToCanon[ancestors[0]]
		if !ok {
			return 0, false
		}
		return uint(i), true
	})

	return nil
}

// physChainFor returns the physical links realizing logical, ordered
// sink-to-source, using the containment graph built in step 3/flow
// outer step 7.
func (d *Domain) physChainFor(logical *model.Link) []*model.Link {
	topoChildren := d.Relations.Children(logical.ID, model.NetTopo, true)
	var phys []*model.Link
	for _, tid := range topoChildren {
		physChildren := d.Relations.Children(tid, model.NetRSPhys, true)
		for _, pid := range physChildren {
			for _, l := range d.Phys {
				if l.ID == pid {
					phys = append(phys, l)
				}
			}
		}
	}
	for i, j := 0, len(phys)-1; i < j; i, j = i+1, j-1 {
		phys[i], phys[j] = phys[j], phys[i]
	}
	return phys
}

func (d *Domain) physLinksFrom(owner *model.Object) []*model.Link {
	var out []*model.Link
	for _, l := range d.Phys {
		if l.SrcObject() == owner {
			out = append(out, l)
		}
	}
	return out
}

// physWidth returns the bit width the protocols at both ends of l agree on,
// or 0 if either end has no protocol yet (spec.md §4.6, §6: primitive
// database rows are selected per link width).
func physWidth(l *model.Link) int {
	sp, ok := l.SrcObject().Payload.(*model.PortPayload)
	if !ok || sp.Protocol == nil {
		return 0
	}
	kp, ok := l.SinkObject().Payload.(*model.PortPayload)
	if !ok || kp.Protocol == nil {
		return 0
	}
	return protocol.LinkWidth(sp.Protocol, kp.Protocol)
}

func primitiveRowFor(db *primitive.Database, node *model.Object, width int) *primitive.Row {
	tbl := db.Table(node.Kind.String())
	row, err := tbl.Row(width)
	if err != nil {
		return nil
	}
	return &row
}
