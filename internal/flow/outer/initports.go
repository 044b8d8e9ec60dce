package outer

import (
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/protocol"
)

// InitUserPortProtocol is step 2 for one user RS port: convert each role
// binding into a terminal field (spec.md §4.5 step 2):
//
//	ADDRESS          -> USERADDR(width = binding.bits)
//	EOP              -> EOP(1)
//	DATA/DATABUNDLE  -> USERDATA(tag, domain=port.domain, width=binding.bits)
//	READY            -> bp_status.status = ENABLED
//
// bitsOf resolves an HDLBinding's width expression against the port's
// already-resolved Node parameters.
func InitUserPortProtocol(port *model.Object, bitsOf func(model.HDLBinding) (int, error)) (bpEnabled bool, err error) {
	payload, ok := port.Payload.(*model.PortPayload)
	if !ok {
		payload = model.NewPortPayload()
		port.Payload = payload
	}
	if payload.Protocol == nil {
		payload.Protocol = protocol.NewPortProtocol()
	}

	for _, rb := range payload.Roles {
		switch rb.Role {
		case model.RoleAddress:
			bits, e := bitsOf(rb.HDL)
			if e != nil {
				return bpEnabled, e
			}
			f := protocol.Field{Type: protocol.FieldUserAddr, Tag: rb.Tag, Domain: protocol.NoDomain, Width: bits}
			payload.Protocol.AddTerminalField(f, "address")
		case model.RoleEOP:
			f := protocol.Field{Type: protocol.FieldEOP, Tag: rb.Tag, Domain: protocol.NoDomain, Width: 1}
			payload.Protocol.AddTerminalField(f, "eop")
		case model.RoleData, model.RoleDataBundle:
			bits, e := bitsOf(rb.HDL)
			if e != nil {
				return bpEnabled, e
			}
			f := protocol.Field{Type: protocol.FieldUserData, Tag: rb.Tag, Domain: payload.Domain, Width: bits}
			payload.Protocol.AddTerminalField(f, "data")
		case model.RoleReady:
			bpEnabled = true
		}
	}
	return bpEnabled, nil
}
