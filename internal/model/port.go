package model

import (
	"github.com/jonathanscottrose/genie/internal/expr"
	"github.com/jonathanscottrose/genie/internal/protocol"
)

// RoleType names the fixed set of signal roles a Port binds its fields or
// sub-signals onto (spec.md §3). Tags distinguish multiple bindings of the
// same role (e.g. several tagged CONDUIT "fwd" sub-fields).
type RoleType string

const (
	// CLOCK
	RoleClock RoleType = "clock"
	// RESET
	RoleReset RoleType = "reset"
	// CONDUIT / CONDUIT_SUB
	RoleFwd   RoleType = "fwd"
	RoleRev   RoleType = "rev"
	RoleIn    RoleType = "in"
	RoleOut   RoleType = "out"
	RoleInOut RoleType = "inout"
	// RS
	RoleValid      RoleType = "valid"
	RoleReady      RoleType = "ready" // reversed: travels sink -> source
	RoleData       RoleType = "data"
	RoleDataBundle RoleType = "databundle" // tagged, one per terminal field
	RoleEOP        RoleType = "eop"
	RoleAddress    RoleType = "address"
	RoleXData      RoleType = "xdata" // internal carrier signal, never at the HDL boundary
)

// Reversed reports whether signals of this role travel from sink to
// source rather than source to sink (spec.md §3: only READY does).
func (r RoleType) Reversed() bool { return r == RoleReady }

// HDLBinding ties a role to an actual HDL port (or a slice of one),
// expressed over the owning Module's (or System's) integer parameters
// (spec.md §4.5 step 2, §9). LoBit/Width describe a contiguous slice
// of a vector port; LoSlice/NumSlices describe a 2-D bus where each
// "slice" of Width bits is picked out by an outer index, used when a
// tree-ified Split/Merge binds one field across several child ports.
type HDLBinding struct {
	PortName  string
	LoBit     *expr.Expr
	Width     *expr.Expr
	LoSlice   *expr.Expr
	NumSlices *expr.Expr
}

// RoleBinding associates one role (optionally tagged, for multi-instance
// roles like tagged CONDUIT sub-fields or RS data bundle fields) with its
// HDL binding.
type RoleBinding struct {
	Role RoleType
	Tag  string
	HDL  HDLBinding
}

// PortPayload is the Object.Payload for any KindPort* node: the ordered
// role bindings it exposes, plus, for RS ports, the negotiated wire
// protocol (spec.md §3 "Port").
type PortPayload struct {
	Roles []RoleBinding

	// Domain is the RS domain this port's network belongs to, assigned in
	// flow-outer step 3 (only meaningful for KindPortRS).
	Domain int

	// Protocol is the terminal-field protocol this RS port exposes at its
	// HDL boundary, built in flow-outer step 2 and refined by the protocol
	// carriage walk (only meaningful for KindPortRS).
	Protocol *protocol.PortProtocol
}

// NewPortPayload returns an empty payload with Domain unset (-1).
func NewPortPayload() *PortPayload {
	return &PortPayload{Domain: -1}
}

// AddRole appends a role binding in declaration order (spec.md §5:
// iteration over role bindings must be deterministic).
func (p *PortPayload) AddRole(role RoleType, tag string, hdl HDLBinding) {
	p.Roles = append(p.Roles, RoleBinding{Role: role, Tag: tag, HDL: hdl})
}

// RolesOf returns every binding for the given role, in declaration order.
func (p *PortPayload) RolesOf(role RoleType) []RoleBinding {
	var out []RoleBinding
	for _, rb := range p.Roles {
		if rb.Role == role {
			out = append(out, rb)
		}
	}
	return out
}
