package model

import "github.com/jonathanscottrose/genie/internal/address"

// LinkID is a Link's stable identifier: network type plus an index, unique
// within that network type (spec.md §3).
type LinkID struct {
	Net   NetworkType
	Index uint64
}

// LogicalData is the specialization payload of a LinkRSLogical (spec.md
// §3): source/sink address (address.Any is the "any address" sentinel),
// the domain-id assigned by flow outer step 3, and the flow-id assigned by
// the flow.
type LogicalData struct {
	SrcAddr  uint
	SinkAddr uint
	Domain   int
	FlowID   int
}

// PhysData is the specialization payload of a LinkRSPhys: its latency in
// clock cycles, consumed and zeroed by "realize latencies" (spec.md §4.6
// step 13).
type PhysData struct {
	Latency int
}

// TopoData is the specialization payload of a LinkTopo: min/max register
// bounds (spec.md §3). MaxRegs == Unbounded means "unlimited."
type TopoData struct {
	MinRegs int
	MaxRegs int
}

// Link is a directed connection between a source Endpoint (OUT) and a sink
// Endpoint (IN) of the same network type (spec.md §3).
type Link struct {
	ID   LinkID
	Net  NetworkType
	Src  *Endpoint
	Sink *Endpoint

	Logical *LogicalData
	Phys    *PhysData
	Topo    *TopoData
}

// NewLink constructs and wires a Link between src (must be DirOut) and sink
// (must be DirIn), on the same network, registering it with both
// endpoints. index is caller-assigned per the owning Node's per-network
// link table (spec.md §5 "Resource lifetimes").
func NewLink(net NetworkType, index uint64, src, sink *Endpoint) (*Link, error) {
	if src.Net != net || sink.Net != net {
		return nil, errNetworkMismatch(net, src.Net, sink.Net)
	}
	if src.Dir != DirOut || sink.Dir != DirIn {
		return nil, errDirectionMismatch()
	}
	l := &Link{ID: LinkID{Net: net, Index: index}, Net: net, Src: src, Sink: sink}
	switch net {
	case NetRSLogical:
		l.Logical = &LogicalData{SrcAddr: address.Any, SinkAddr: address.Any, Domain: -1, FlowID: -1}
	case NetRSPhys:
		l.Phys = &PhysData{}
	case NetTopo:
		l.Topo = &TopoData{MaxRegs: Unbounded}
	}
	if err := src.addLink(l); err != nil {
		return nil, err
	}
	if err := sink.addLink(l); err != nil {
		src.removeLink(l)
		return nil, err
	}
	return l, nil
}

// Destroy detaches the link from both endpoints. Callers owning a
// LinkRelations graph must also call LinkRelations.Forget(l.ID).
func (l *Link) Destroy() {
	l.Src.removeLink(l)
	l.Sink.removeLink(l)
}

// SrcObject and SinkObject return the Objects owning this link's endpoints.
func (l *Link) SrcObject() *Object  { return l.Src.Owner }
func (l *Link) SinkObject() *Object { return l.Sink.Owner }
