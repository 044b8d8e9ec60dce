// Package hdl implements HDL elaboration (spec.md §4.8): walking the
// final physical graph in network-specific order and emitting a
// Module-keyed set of named HDL ports plus a System-keyed graph of net
// assignments, the interface described in spec.md §6 "HDL back end".
package hdl

import "github.com/jonathanscottrose/genie/internal/expr"

// Dir is an HDL port's direction from the perspective of its owning
// Module.
type Dir int

const (
	DirInput Dir = iota
	DirOutput
	DirInOut
)

// Port is one named HDL port on a Module: a width expression (bit vector
// size) and an optional depth expression (array dimension, for bussed
// ports), both resolved against the Module's parameters.
type Port struct {
	Name  string
	Width *expr.Expr
	Depth *expr.Expr // nil for a plain vector port
	Dir   Dir
}

// ModulePorts holds the ordered HDL port declarations for one Module
// (declaration order is preserved for deterministic HDL emission, spec.md
// §5).
type ModulePorts struct {
	ports      []Port
	index      map[string]int
}

// NewModulePorts returns an empty port set.
func NewModulePorts() *ModulePorts {
	return &ModulePorts{index: make(map[string]int)}
}

// Add appends a port declaration. Re-adding an existing name overwrites
// in place, preserving its original position.
func (m *ModulePorts) Add(p Port) {
	if i, ok := m.index[p.Name]; ok {
		m.ports[i] = p
		return
	}
	m.index[p.Name] = len(m.ports)
	m.ports = append(m.ports, p)
}

// Ports returns every declared port in declaration order.
func (m *ModulePorts) Ports() []Port { return m.ports }

// Assignment is one net assignment in the System's HDL graph: either a
// source port bit-slice or a constant tied value, assigned into a
// destination port bit-slice (spec.md §6 "HDL back end").
type Assignment struct {
	// SrcPort is empty when this assignment ties the destination to a
	// constant instead of another port.
	SrcPort  string
	Constant uint64
	IsConst  bool

	DstPort string

	SrcLSB, DstLSB, Width int
	SrcSlice, DstSlice     int // outer bus index, for 2-D (tree-ified) ports; 0 for plain vectors
}

// NetList accumulates the net assignments for one System, in emission
// order (spec.md §5: determinism).
type NetList struct {
	assignments []Assignment
}

// NewNetList returns an empty net list.
func NewNetList() *NetList { return &NetList{} }

// Assign appends one net assignment.
func (n *NetList) Assign(a Assignment) { n.assignments = append(n.assignments, a) }

// Assignments returns every recorded assignment in emission order.
func (n *NetList) Assignments() []Assignment { return n.assignments }
