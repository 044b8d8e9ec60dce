package primitive

import (
	"fmt"

	"github.com/jonathanscottrose/genie/internal/model"
)

// MDelayPayload is the KindMDelay Object.Payload: a memory-based delay of
// Cycles > 1 clock cycles, whose internal src->sink link latency equals
// Cycles (spec.md §4.4 "MDelay").
type MDelayPayload struct {
	Width  int
	Cycles int
}

// NewMDelay creates a memory-based delay of the given width and cycle
// count (cycles must exceed 1; a 1-cycle delay is always a Reg).
func NewMDelay(parent *model.Object, name string, width, cycles int) (*model.Object, error) {
	if cycles <= 1 {
		return nil, fmt.Errorf("primitive: mdelay %q needs cycles > 1, got %d", name, cycles)
	}
	n := model.NewObject(name, model.KindMDelay)
	n.Payload = &MDelayPayload{Width: width, Cycles: cycles}
	if err := parent.AddChild(n); err != nil {
		return nil, err
	}
	in := model.NewObject("in", model.KindPortRS)
	in.Payload = model.NewPortPayload()
	if err := n.AddChild(in); err != nil {
		return nil, err
	}
	out := model.NewObject("out", model.KindPortRS)
	out.Payload = model.NewPortPayload()
	if err := n.AddChild(out); err != nil {
		return nil, err
	}
	return n, nil
}

// ArchMemDivisor is the "two registers per ALM" architecture constant in
// the MDelay-vs-register-chain area comparison (spec.md §4.4 open
// question 2): implementers are told to parameterize this by target
// architecture rather than hard-code it, so it is exposed as a variable
// rather than a const.
var ArchMemDivisor = 2

// PreferMDelay implements the spec's §4.4 area comparison: pick MDelay
// over a chain of `cycles` Regs when the estimated memory-ALM cost is
// less than half the register-chain's register cost (for the configured
// architecture's registers-per-ALM ratio).
func PreferMDelay(db *Database, width, cycles int) (bool, error) {
	row, err := db.Table("mdelay").Row(width * cycles)
	if err != nil {
		return false, err
	}
	memCost := row.AreaMetrics().MemALM
	regCost := RegChainArea(width, cycles).Reg
	return memCost < regCost/ArchMemDivisor, nil
}
