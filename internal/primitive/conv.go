package primitive

import (
	"github.com/jonathanscottrose/genie/internal/address"
	"github.com/jonathanscottrose/genie/internal/model"
)

// ConvPayload is the KindConv Object.Payload: a table mapping from-address
// to to-address, built by configuring two address reps and two field ids
// (spec.md §4.4 "Conv"). The in_rep/out_rep themselves are not retained;
// only the resulting lookup table is needed downstream.
type ConvPayload struct {
	InField  string
	OutField string
	Table    map[uint]uint // in_rep address bin -> out_rep address bin
}

// NewConv builds a Conv node converting inField of inRep to outField of
// outRep, iterating inRep's address bins and looking up each bin's
// exemplar transmission in outRep (spec.md §4.4). Skipped by callers when
// inRep has only one bin; this constructor does not itself special-case
// that (callers decide whether to call it at all).
func NewConv(parent *model.Object, name string, inField, outField string, inRep, outRep *address.Rep) (*model.Object, error) {
	n := model.NewObject(name, model.KindConv)
	table := make(map[uint]uint, inRep.NumAddrBins())
	for _, bin := range inRep.AddrBins() {
		xmis := inRep.GetXmis(bin)
		if len(xmis) == 0 {
			continue
		}
		exemplar := xmis[0]
		table[bin] = outRep.GetAddr(exemplar)
	}
	n.Payload = &ConvPayload{InField: inField, OutField: outField, Table: table}
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

// Lookup translates an input address bin to its output address bin.
func (c *ConvPayload) Lookup(in uint) (uint, bool) {
	out, ok := c.Table[in]
	return out, ok
}

// SingleBin reports whether a Conv built from inRep would be trivial
// (inRep has only one address bin, so the output field should instead be
// constant-tied — spec.md §4.4 "Skipped if the input rep has only one
// bin").
func SingleBin(inRep *address.Rep) bool {
	return inRep.NumAddrBins() <= 1
}
