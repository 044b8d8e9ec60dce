package hdl

import (
	"fmt"

	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/protocol"
	"github.com/jonathanscottrose/genie/internal/synth"
)

// State is the full elaborated HDL output for one System: one ModulePorts
// per Module Object plus one NetList for the System.
type State struct {
	Ports map[*model.Object]*ModulePorts
	Nets  *NetList
}

// NewState returns an empty elaboration state.
func NewState() *State {
	return &State{Ports: make(map[*model.Object]*ModulePorts), Nets: NewNetList()}
}

func (s *State) portsFor(owner *model.Object) *ModulePorts {
	mp, ok := s.Ports[owner]
	if !ok {
		mp = NewModulePorts()
		s.Ports[owner] = mp
	}
	return mp
}

// Elaborate walks every physical link of sys in the order spec.md §4.8
// mandates: clock, reset, conduit, physical RS (ready/valid), then RS
// fields. physLinks must already be in the final, fully-realized physical
// graph (post-latency-realization).
func Elaborate(sys *model.Object, physLinks []*model.Link) (*State, error) {
	st := NewState()

	byNet := make(map[model.NetworkType][]*model.Link)
	for _, l := range physLinks {
		byNet[l.Net] = append(byNet[l.Net], l)
	}

	order := []model.NetworkType{
		model.NetClock, model.NetReset, model.NetConduit, model.NetConduitSub, model.NetRSPhys,
	}
	for _, net := range order {
		for _, l := range byNet[net] {
			if err := elaborateLink(st, l); err != nil {
				return nil, err
			}
		}
	}
	return st, nil
}

func elaborateLink(st *State, l *model.Link) error {
	switch l.Net {
	case model.NetClock, model.NetReset:
		return elaborateFullWidth(st, l)
	case model.NetConduit, model.NetConduitSub:
		return elaborateConduit(st, l)
	case model.NetRSPhys:
		return elaborateRS(st, l)
	}
	return nil
}

// elaborateFullWidth connects a whole-signal net (clock, reset) without
// any slicing.
func elaborateFullWidth(st *State, l *model.Link) error {
	st.Nets.Assign(Assignment{
		SrcPort: l.SrcObject().HierPath(),
		DstPort: l.SinkObject().HierPath(),
		Width:   1,
	})
	return nil
}

// elaborateConduit matches sub-ports by role+tag, flips src/sink per role
// sense, and connects full width (spec.md §4.8).
func elaborateConduit(st *State, l *model.Link) error {
	srcPayload, srcOK := l.SrcObject().Payload.(*model.PortPayload)
	sinkPayload, sinkOK := l.SinkObject().Payload.(*model.PortPayload)
	if !srcOK || !sinkOK {
		return nil
	}
	for _, srcRole := range srcPayload.Roles {
		matched := false
		for _, sinkRole := range sinkPayload.RolesOf(srcRole.Role) {
			if sinkRole.Tag != srcRole.Tag {
				continue
			}
			matched = true
			from, to := srcRole.HDL.PortName, sinkRole.HDL.PortName
			if srcRole.Role == model.RoleIn {
				from, to = to, from
			}
			st.Nets.Assign(Assignment{SrcPort: from, DstPort: to})
		}
		if !matched {
			// Missing sub-port at sink is a warning, not a fatal error
			// (spec.md §4.5 step 8); callers collect warnings separately.
			continue
		}
	}
	return nil
}

// elaborateRS connects ready/valid then, separately, every RS field
// (spec.md §4.8).
func elaborateRS(st *State, l *model.Link) error {
	srcPayload, srcOK := l.SrcObject().Payload.(*model.PortPayload)
	sinkPayload, sinkOK := l.SinkObject().Payload.(*model.PortPayload)
	if !srcOK || !sinkOK {
		return nil
	}
	srcValid := srcPayload.RolesOf(model.RoleValid)
	sinkValid := sinkPayload.RolesOf(model.RoleValid)
	switch {
	case len(srcValid) > 0 && len(sinkValid) > 0:
		st.Nets.Assign(Assignment{SrcPort: srcValid[0].HDL.PortName, DstPort: sinkValid[0].HDL.PortName, Width: 1})
	case len(sinkValid) > 0:
		st.Nets.Assign(Assignment{IsConst: true, Constant: 1, DstPort: sinkValid[0].HDL.PortName, Width: 1})
	case len(srcValid) > 0:
		return synth.At(synth.KindMissingTerminalField, l.SinkObject().HierPath(),
			"sink has no valid signal but source %s drives one", l.SrcObject().HierPath())
	}

	srcReady := srcPayload.RolesOf(model.RoleReady)
	sinkReady := sinkPayload.RolesOf(model.RoleReady)
	if len(srcReady) > 0 && len(sinkReady) > 0 {
		// Ready travels reversed: sink -> source.
		st.Nets.Assign(Assignment{SrcPort: sinkReady[0].HDL.PortName, DstPort: srcReady[0].HDL.PortName, Width: 1})
	}

	srcProto, sinkProto := srcPayload.Protocol, sinkPayload.Protocol
	if srcProto == nil || sinkProto == nil {
		return nil
	}

	if srcProto.Carrier() != nil && sinkProto.Carrier() != nil {
		width := srcProto.Carrier().GetDomainWidth()
		st.Nets.Assign(Assignment{
			SrcPort: fmt.Sprintf("%s.carrier", l.SrcObject().HierPath()),
			DstPort: fmt.Sprintf("%s.carrier", l.SinkObject().HierPath()),
			Width:   width,
		})
		return nil
	}

	for _, f := range sinkProto.TerminalFields().Contents() {
		if sinkProto.IsConst(f) {
			st.Nets.Assign(Assignment{IsConst: true, Constant: sinkProto.ConstValue(f), Width: f.Width, DstPort: fieldPortName(sinkProto, f)})
			continue
		}
		srcLSB, width, ok := locate(srcProto, f)
		if !ok {
			return synth.At(synth.KindMissingTerminalField, l.SinkObject().HierPath(),
				"sink requires field %s.%s but source provides no equivalent", f.Type, f.Tag)
		}
		sinkLSB := sinkProto.TerminalFields().GetLSB(f)
		st.Nets.Assign(Assignment{
			SrcPort: fieldPortName(srcProto, f),
			DstPort: fieldPortName(sinkProto, f),
			SrcLSB:  srcLSB,
			DstLSB:  sinkLSB,
			Width:   width,
		})
	}
	return nil
}

// locate finds field f at src, either among its terminal fields or, if it
// carries a carrier protocol, among the carrier's fields, returning the
// LSB position and width to slice from.
func locate(src *protocol.PortProtocol, f protocol.Field) (lsb, width int, ok bool) {
	if src.Has(f) {
		return src.TerminalFields().GetLSB(f), f.Width, true
	}
	if c := src.Carrier(); c != nil && c.Has(f) {
		return c.GetLSB(f), f.Width, true
	}
	return 0, 0, false
}

func fieldPortName(p *protocol.PortProtocol, f protocol.Field) string {
	role, _ := p.RoleOf(f)
	return fmt.Sprintf("%s_%s", role, f.Tag)
}
