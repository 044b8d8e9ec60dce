package protocol

// Value is a constant value tied to a field at a port boundary (spec.md
// §3 "the sink port's protocol has a constant value recorded").
type Value struct {
	Set   bool
	Value uint64
}

// PortProtocol holds the FieldSet of terminal fields a PortRS exposes at
// its HDL boundary (spec.md §3), the role binding each field travels on,
// and any constant value that short-circuits the field's data source.
type PortProtocol struct {
	terminal   *FieldSet
	roleOf     map[Field]string // field identity -> role name (e.g. "data", "address")
	constant   map[Field]Value
	carrier    *CarrierProtocol // non-nil if this port sits on a carrier primitive
}

// NewPortProtocol returns an empty protocol.
func NewPortProtocol() *PortProtocol {
	return &PortProtocol{
		terminal: NewFieldSet(),
		roleOf:   make(map[Field]string),
		constant: make(map[Field]Value),
	}
}

// AddTerminalField records that f is present at this port's HDL boundary,
// carried on the named role (spec.md §4.5 step 2).
func (p *PortProtocol) AddTerminalField(f Field, role string) {
	p.terminal.Add(f)
	p.roleOf[fieldKey(f)] = role
}

// TerminalFields returns the FieldSet of fields actually present at the
// port's HDL boundary.
func (p *PortProtocol) TerminalFields() *FieldSet { return p.terminal }

// Has reports whether f is a terminal field of this port.
func (p *PortProtocol) Has(f Field) bool { return p.terminal.Has(f) }

// RoleOf returns the role name a terminal field is bound on.
func (p *PortProtocol) RoleOf(f Field) (string, bool) {
	r, ok := p.roleOf[fieldKey(f)]
	return r, ok
}

// SetConst ties f to a constant value at this port, short-circuiting its
// data source (spec.md §3 invariant (c)).
func (p *PortProtocol) SetConst(f Field, v uint64) {
	p.constant[fieldKey(f)] = Value{Set: true, Value: v}
}

// IsConst reports whether f has a constant tied at this port.
func (p *PortProtocol) IsConst(f Field) bool {
	return p.constant[fieldKey(f)].Set
}

// ConstValue returns the constant value tied to f.
func (p *PortProtocol) ConstValue(f Field) uint64 {
	return p.constant[fieldKey(f)].Value
}

// SetCarrier attaches a CarrierProtocol to this port (the port sits on a
// carrier-capable primitive — Reg, MDelay, ClockX, or a split/merge stage).
func (p *PortProtocol) SetCarrier(c *CarrierProtocol) { p.carrier = c }

// Carrier returns the attached carrier protocol, or nil.
func (p *PortProtocol) Carrier() *CarrierProtocol { return p.carrier }

// fieldKey strips Width so map lookups use field identity only.
func fieldKey(f Field) Field { return Field{Type: f.Type, Tag: f.Tag, Domain: f.Domain} }

// CarrierProtocol holds the fields a carrier-capable node transports
// opaquely from input to output (spec.md §3): a jection set (fields that
// enter/leave the carrier at this node's boundary, not domain-scoped) and
// per-domain sets of domain-local fields. Layout places jection fields
// first, then the widest domain set (spec.md §3 "Width layout").
type CarrierProtocol struct {
	jection *FieldSet
	domains map[int]*FieldSet
	// domainOrder preserves first-insertion order over map iteration, for
	// deterministic width recomputation and bit layout.
	domainOrder []int
}

// NewCarrierProtocol returns an empty carrier protocol.
func NewCarrierProtocol() *CarrierProtocol {
	return &CarrierProtocol{jection: NewFieldSet(), domains: make(map[int]*FieldSet)}
}

// Clear empties the protocol.
func (c *CarrierProtocol) Clear() {
	c.jection = NewFieldSet()
	c.domains = make(map[int]*FieldSet)
	c.domainOrder = nil
}

// AddSet merges fs into the carrier: domain-scoped fields go into their
// domain's set, everything else (domain == NoDomain) into the jection set.
func (c *CarrierProtocol) AddSet(fs *FieldSet) {
	for _, f := range fs.Contents() {
		c.addField(f)
	}
}

// AddField adds a single field the same way AddSet does.
func (c *CarrierProtocol) AddField(f Field) { c.addField(f) }

func (c *CarrierProtocol) addField(f Field) {
	if f.Domain == NoDomain {
		c.jection.Add(f)
		return
	}
	set, ok := c.domains[f.Domain]
	if !ok {
		set = NewFieldSet()
		c.domains[f.Domain] = set
		c.domainOrder = append(c.domainOrder, f.Domain)
	}
	set.Add(f)
}

// JectionFields returns the non-domain-scoped jection set.
func (c *CarrierProtocol) JectionFields() *FieldSet { return c.jection }

// DomainFields returns the union of every per-domain field set.
func (c *CarrierProtocol) DomainFields() *FieldSet {
	out := NewFieldSet()
	for _, d := range c.domainOrder {
		out.AddSet(c.domains[d])
	}
	return out
}

// Has reports whether f is present anywhere in the carrier (jection or any
// domain set).
func (c *CarrierProtocol) Has(f Field) bool {
	if c.jection.Has(f) {
		return true
	}
	if f.Domain != NoDomain {
		if set, ok := c.domains[f.Domain]; ok {
			return set.Has(f)
		}
	}
	for _, d := range c.domainOrder {
		if c.domains[d].Has(f) {
			return true
		}
	}
	return false
}

// widestDomainWidth returns the width of the widest per-domain field set —
// only one domain's fields occupy the domain region at a time (spec.md §3
// "then the widest domain set").
func (c *CarrierProtocol) widestDomainWidth() int {
	w := 0
	for _, d := range c.domainOrder {
		if dw := c.domains[d].Width(); dw > w {
			w = dw
		}
	}
	return w
}

// GetDomainLSB returns the bit offset where the domain region begins: right
// after the jection fields.
func (c *CarrierProtocol) GetDomainLSB() int { return c.jection.Width() }

// GetDomainWidth returns the width reserved for the domain region.
func (c *CarrierProtocol) GetDomainWidth() int { return c.widestDomainWidth() }

// GetTotalWidth returns the carrier's total encoded width: jection fields
// plus the domain region.
func (c *CarrierProtocol) GetTotalWidth() int { return c.jection.Width() + c.widestDomainWidth() }

// GetLSB returns f's bit position within the combined jection+domain
// encoding (spec.md §4.2 "Provides get_lsb(field) over the combined
// encoding").
func (c *CarrierProtocol) GetLSB(f Field) int {
	if c.jection.Has(f) {
		return c.jection.GetLSB(f)
	}
	if f.Domain != NoDomain {
		if set, ok := c.domains[f.Domain]; ok && set.Has(f) {
			return c.GetDomainLSB() + set.GetLSB(f)
		}
	}
	return -1
}
