package inner

import (
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/protocol"
)

// PropagateCarriage is step 6: walk every end-to-end physical chain
// realizing one logical link sink->source, maintaining an evolving
// carriage_set and splicing it into intermediate carrier protocols
// (spec.md §4.2 "End-to-end carriage", §4.6 step 6). chain must already
// be ordered sink-to-source (the reverse of signal flow).
func PropagateCarriage(chain []*model.Link) {
	carriage := protocol.NewFieldSet()
	for _, l := range chain {
		sinkPayload, sinkOK := l.SinkObject().Payload.(*model.PortPayload)
		srcPayload, srcOK := l.SrcObject().Payload.(*model.PortPayload)
		if !sinkOK || !srcOK || sinkPayload.Protocol == nil || srcPayload.Protocol == nil {
			continue
		}

		nonConst := protocol.NonConstTerminal(sinkPayload.Protocol)
		delta := protocol.Subtract(nonConst, srcPayload.Protocol.TerminalFields())
		carriage = protocol.Union(carriage, delta)

		if srcPayload.Protocol.Carrier() != nil {
			srcPayload.Protocol.Carrier().AddSet(carriage)
		} else {
			carriage = protocol.NewFieldSet()
		}
	}
}

// SpliceCarrier configures a newly inserted intermediate node's carrier
// protocol with exactly the fields that must pass through it (spec.md
// §4.2 "Carriage splicing"). Called whenever inner flow splices a node
// (Conv, Reg, MDelay, ClockX) between an existing src and sink.
func SpliceCarrier(node *model.Object, src, sink *protocol.PortProtocol) {
	payload, ok := node.Payload.(*model.PortPayload)
	if !ok {
		return
	}
	carriage := protocol.SpliceCarriage(src, sink)
	carrier := protocol.NewCarrierProtocol()
	carrier.AddSet(carriage)
	if payload.Protocol == nil {
		payload.Protocol = protocol.NewPortProtocol()
	}
	payload.Protocol.SetCarrier(carrier)
}
