package primitive

import "github.com/jonathanscottrose/genie/internal/model"

// DefaultClockXLatency is ClockX's nominal internal link latency, a seed
// value carried over with no deeper derivation (spec.md §4.4, open
// question 1): exposed as a named constant so the latency solver's view
// of it is visible and adjustable in one place.
const DefaultClockXLatency = 2

// ClockXPayload is the KindClockX Object.Payload: a dual-clock FIFO
// crossing from a write-clock domain to a read-clock domain (spec.md §4.4
// "ClockX").
type ClockXPayload struct {
	Width   int
	Latency int
}

// NewClockX creates a dual-clock FIFO with two clock inputs ("wrclk",
// "rdclk"), one async reset input, and an RS in/out pair.
func NewClockX(parent *model.Object, name string, width int) (*model.Object, error) {
	n := model.NewObject(name, model.KindClockX)
	n.Payload = &ClockXPayload{Width: width, Latency: DefaultClockXLatency}
	if err := parent.AddChild(n); err != nil {
		return nil, err
	}
	wrclk := model.NewObject("wrclk", model.KindPortClock)
	rdclk := model.NewObject("rdclk", model.KindPortClock)
	reset := model.NewObject("reset", model.KindPortReset)
	in := model.NewObject("in", model.KindPortRS)
	in.Payload = model.NewPortPayload()
	out := model.NewObject("out", model.KindPortRS)
	out.Payload = model.NewPortPayload()
	for _, child := range []*model.Object{wrclk, rdclk, reset, in, out} {
		if err := n.AddChild(child); err != nil {
			return nil, err
		}
	}
	return n, nil
}
