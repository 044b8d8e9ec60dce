package primitive

import "github.com/jonathanscottrose/genie/internal/model"

// RegPayload is the KindReg Object.Payload. A Reg always contributes
// exactly 1 cycle of latency (spec.md §4.4 "Reg").
type RegPayload struct {
	Width int
}

// RegLatency is a Reg's fixed internal src->sink latency.
const RegLatency = 1

// NewReg creates a 1-cycle pipeline register with one RS input ("in") and
// one RS output ("out").
func NewReg(parent *model.Object, name string, width int) (*model.Object, error) {
	n := model.NewObject(name, model.KindReg)
	n.Payload = &RegPayload{Width: width}
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

// RegChainArea estimates a k-register chain's register count for the
// MDelay-vs-Regs comparison in spec.md §4.4: width bits wide, k deep.
func RegChainArea(width, k int) AreaMetrics {
	return AreaMetrics{Reg: width * k}
}
