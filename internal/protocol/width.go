package protocol

// LinkWidth computes the bit width of a physical RS link between source
// port protocol src and sink port protocol sink (spec.md §4.2 "Width rule
// for a physical RS link"):
//
//	width = |Ts ∩ Tt|
//	      + max_domain_width(Cs)                         if both Cs, Ct exist
//	      + |domain_fields(Cs) ∩ Tt|                      if only Cs exists
//	      + |terminal(S) ∩ domain_fields(Ct)|             if only Ct exists
//	      + 0                                             otherwise
func LinkWidth(src, sink *PortProtocol) int {
	common := Intersect(src.TerminalFields(), sink.TerminalFields())
	width := common.Width()

	cs, ct := src.Carrier(), sink.Carrier()
	switch {
	case cs != nil && ct != nil:
		width += cs.GetDomainWidth()
	case cs != nil:
		width += Intersect(cs.DomainFields(), sink.TerminalFields()).Width()
	case ct != nil:
		width += Intersect(src.TerminalFields(), ct.DomainFields()).Width()
	}
	return width
}

// SpliceCarriage computes the fields an intermediate node N must carry when
// it is inserted on an existing src->sink link (spec.md §4.2 "Carriage
// splicing"):
//
//	carriage = (terminal(sink) ∪ jection(sink) ∪ domain(sink))
//	         ∩ (terminal(src)  ∪ jection(src)  ∪ domain(src))
//
// This is the conservative minimum that keeps widths consistent on both
// spliced halves.
func SpliceCarriage(src, sink *PortProtocol) *FieldSet {
	sinkAll := unionAllFields(sink)
	srcAll := unionAllFields(src)
	return Intersect(sinkAll, srcAll)
}

func unionAllFields(p *PortProtocol) *FieldSet {
	out := NewFieldSet()
	out.AddSet(p.TerminalFields())
	if c := p.Carrier(); c != nil {
		out.AddSet(c.JectionFields())
		out.AddSet(c.DomainFields())
	}
	return out
}

// EndToEndCarriage walks one hop of the sink->src carriage-propagation
// pass (spec.md §4.2 "End-to-end carriage"). Given the evolving carriage
// set and the protocols of this hop's sink and (upstream) src, it returns
// the updated carriage set for the next hop upstream:
//
//	carriage_set += sink.terminal_nonconst - src.terminal
//
// and if upstream (src's owning node) has a carrier protocol, the engine
// adds the updated set to that carrier (the caller does this, since only
// it knows which node owns src); otherwise the set resets to empty because
// the field must be re-supplied or tied off further upstream.
func EndToEndCarriage(carriage *FieldSet, sinkNonConstTerminal, srcTerminal *FieldSet) *FieldSet {
	delta := Subtract(sinkNonConstTerminal, srcTerminal)
	next := Union(carriage, delta)
	return next
}

// NonConstTerminal returns p's terminal fields minus the ones tied to a
// constant at this port (a constant-tied field is already satisfied and
// doesn't need to be carried).
func NonConstTerminal(p *PortProtocol) *FieldSet {
	out := NewFieldSet()
	for _, f := range p.TerminalFields().Contents() {
		if !p.IsConst(f) {
			out.Add(f)
		}
	}
	return out
}
