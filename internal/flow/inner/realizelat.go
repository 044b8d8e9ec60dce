package inner

import (
	"fmt"

	"github.com/jonathanscottrose/genie/internal/flow"
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/primitive"
	"github.com/jonathanscottrose/genie/internal/protocol"
)

// RealizeLatencies is step 13: for a physical link with latency > 0,
// splice in one MDelay (if the area estimate favors it) or a chain of k
// Regs, reset the link's latency to 0, and splice-carrier the protocol
// onto each new node (spec.md §4.6 step 13). The splicing itself is left
// to insertChain; backpressure status is not updated here. With a nil db
// a register chain is always used. Returns the chain of newly spliced
// nodes, outermost (closest to src) first.
func RealizeLatencies(link *model.Link, width int, db *primitive.Database, opts flow.Options, insertChain func(nodes []*model.Object) error) ([]*model.Object, error) {
	if link.Phys == nil || link.Phys.Latency <= 0 {
		return nil, nil
	}
	k := link.Phys.Latency

	useMDelay := false
	if !opts.NoMDelay && k > 1 && db != nil {
		prefer, err := primitive.PreferMDelay(db, width, k)
		if err != nil {
			return nil, fmt.Errorf("realize latencies: %q: %w", link.SrcObject().HierPath(), err)
		}
		useMDelay = prefer
	}

	var nodes []*model.Object
	parent := link.SrcObject().Parent
	if useMDelay {
		name := fmt.Sprintf("%s_md", link.SrcObject().Name)
		md, err := primitive.NewMDelay(parent, name, width, k)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, md)
	} else {
		for i := 0; i < k; i++ {
			name := fmt.Sprintf("%s_r%d", link.SrcObject().Name, i)
			reg, err := primitive.NewReg(parent, name, width)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, reg)
		}
	}

	srcPayload, srcOK := link.SrcObject().Payload.(*model.PortPayload)
	sinkPayload, sinkOK := link.SinkObject().Payload.(*model.PortPayload)
	if srcOK && sinkOK && srcPayload.Protocol != nil && sinkPayload.Protocol != nil {
		for _, n := range nodes {
			SpliceCarrier(n, srcPayload.Protocol, sinkPayload.Protocol)
		}
	}

	link.Phys.Latency = 0
	if insertChain != nil {
		if err := insertChain(nodes); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// DefaultEOPs is step 15: for every physical link where the sink needs
// EOP but the src doesn't provide it, tie EOP to constant 1 at the sink
// (single-beat packets, spec.md §4.6 step 15).
func DefaultEOPs(links []*model.Link) {
	for _, l := range links {
		srcPayload, srcOK := l.SrcObject().Payload.(*model.PortPayload)
		sinkPayload, sinkOK := l.SinkObject().Payload.(*model.PortPayload)
		if !srcOK || !sinkOK || sinkPayload.Protocol == nil {
			continue
		}
		f, needsEOP := findField(sinkPayload.Protocol, protocol.FieldEOP)
		if !needsEOP {
			continue
		}
		if srcOK && srcPayload.Protocol != nil {
			if _, has := findField(srcPayload.Protocol, protocol.FieldEOP); has {
				continue
			}
		}
		sinkPayload.Protocol.SetConst(f, 1)
	}
}

// DefaultXmisIDs is step 16: when a sink needs the XMIS_ID field but the
// incoming physical link doesn't carry one, look up the transmission
// going through the link via the containment graph, convert its id
// through the domain rep, and tie the result as a constant at the sink
// (spec.md §4.6 step 16).
func DefaultXmisIDs(links []*model.Link, domainRep interface{ GetAddr(uint) uint }, xmisOf func(*model.Link) (uint, bool)) {
	for _, l := range links {
		srcPayload, srcOK := l.SrcObject().Payload.(*model.PortPayload)
		sinkPayload, sinkOK := l.SinkObject().Payload.(*model.PortPayload)
		if !sinkOK || sinkPayload.Protocol == nil {
			continue
		}
		f, needsXmis := findField(sinkPayload.Protocol, protocol.FieldXmisID)
		if !needsXmis {
			continue
		}
		if srcOK && srcPayload.Protocol != nil {
			if _, has := findField(srcPayload.Protocol, protocol.FieldXmisID); has {
				continue
			}
		}
		xmis, ok := xmisOf(l)
		if !ok {
			continue
		}
		sinkPayload.Protocol.SetConst(f, uint64(domainRep.GetAddr(xmis)))
	}
}
