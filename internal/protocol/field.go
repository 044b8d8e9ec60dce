// Package protocol implements GENIE's field-level protocol model (spec.md
// §3, §4.2): the Field/FieldSet algebra, PortProtocol (terminal fields a
// port exposes) and CarrierProtocol (fields a node transports opaquely),
// the width rule for a physical RS link, and carriage splicing.
package protocol

import "sort"

// FieldType is the closed set of reserved field type tags (spec.md
// GLOSSARY). Domain-specific split-node flow-id/eop internals are
// represented with the Splitmask/generic tags plus a Tag string, rather
// than enumerating every internal variant as its own FieldType.
type FieldType int

const (
	FieldUserData FieldType = iota
	FieldUserAddr
	FieldEOP
	FieldXmisID
	FieldSplitMask
)

func (t FieldType) String() string {
	switch t {
	case FieldUserData:
		return "USERDATA"
	case FieldUserAddr:
		return "USERADDR"
	case FieldEOP:
		return "EOP"
	case FieldXmisID:
		return "XMIS_ID"
	case FieldSplitMask:
		return "SPLITMASK"
	default:
		return "UNKNOWN"
	}
}

// NoDomain marks a Field with no domain scoping.
const NoDomain = -1

// Field identifies a field by (type, tag, domain) — the triple it compares
// and sorts by, per spec.md §3. Width is metadata carried on the identity
// (an "instance" of the field), not part of the identity itself.
type Field struct {
	Type   FieldType
	Tag    string // optional; "" means untagged
	Domain int    // NoDomain means not domain-scoped
	Width  int
}

// key returns the (type, tag, domain) identity triple used for comparisons,
// excluding Width, so two instances of "the same field" with different
// widths are still recognized as the same field.
func (f Field) key() (FieldType, string, int) { return f.Type, f.Tag, f.Domain }

// Less orders fields by the (type, tag, domain) triple (spec.md §3).
func (f Field) Less(o Field) bool {
	if f.Type != o.Type {
		return f.Type < o.Type
	}
	if f.Tag != o.Tag {
		return f.Tag < o.Tag
	}
	return f.Domain < o.Domain
}

// Matches reports whether two fields share the same (type, tag, domain)
// identity, ignoring width.
func (f Field) Matches(o Field) bool { return f.key() == o.key() }

// FieldSet is an ordered sequence of field instances with unique identities
// (spec.md §3). Order is the stable sort order used for get_lsb, so two
// FieldSets built from the same members always lay fields out identically.
type FieldSet struct {
	fields []Field
}

// NewFieldSet builds a FieldSet from the given fields, deduplicating by
// identity (last write wins) and sorting.
func NewFieldSet(fields ...Field) *FieldSet {
	fs := &FieldSet{}
	for _, f := range fields {
		fs.Add(f)
	}
	return fs
}

// Add inserts f, replacing any existing field with the same identity
// (idempotent), and keeps the set sorted.
func (fs *FieldSet) Add(f Field) {
	for i, existing := range fs.fields {
		if existing.Matches(f) {
			fs.fields[i] = f
			return
		}
	}
	fs.fields = append(fs.fields, f)
	sort.SliceStable(fs.fields, func(i, j int) bool { return fs.fields[i].Less(fs.fields[j]) })
}

// AddSet merges every field of other into fs.
func (fs *FieldSet) AddSet(other *FieldSet) {
	if other == nil {
		return
	}
	for _, f := range other.fields {
		fs.Add(f)
	}
}

// Remove deletes the field matching f's identity, if present.
func (fs *FieldSet) Remove(f Field) {
	out := fs.fields[:0:0]
	for _, existing := range fs.fields {
		if !existing.Matches(f) {
			out = append(out, existing)
		}
	}
	fs.fields = out
}

// Has reports whether a field with f's identity is present.
func (fs *FieldSet) Has(f Field) bool {
	for _, existing := range fs.fields {
		if existing.Matches(f) {
			return true
		}
	}
	return false
}

// Get returns the field instance matching f's identity (so callers can
// recover its concrete width), and whether it was found.
func (fs *FieldSet) Get(f Field) (Field, bool) {
	for _, existing := range fs.fields {
		if existing.Matches(f) {
			return existing, true
		}
	}
	return Field{}, false
}

// Contents returns the ordered field list. Callers must not mutate it.
func (fs *FieldSet) Contents() []Field {
	if fs == nil {
		return nil
	}
	return fs.fields
}

// Width returns the sum of all member widths.
func (fs *FieldSet) Width() int {
	if fs == nil {
		return 0
	}
	w := 0
	for _, f := range fs.fields {
		w += f.Width
	}
	return w
}

// GetLSB returns the cumulative width of every field preceding f in sorted
// order — f's stable bit position within the set (spec.md §4.2).
func (fs *FieldSet) GetLSB(f Field) int {
	lsb := 0
	for _, existing := range fs.fields {
		if existing.Matches(f) {
			return lsb
		}
		lsb += existing.Width
	}
	return -1
}

// Union returns a new FieldSet containing every member of both sets.
func Union(a, b *FieldSet) *FieldSet {
	out := NewFieldSet()
	out.AddSet(a)
	out.AddSet(b)
	return out
}

// Intersect returns a new FieldSet containing only fields present in both
// a and b (the instance kept is a's).
func Intersect(a, b *FieldSet) *FieldSet {
	out := NewFieldSet()
	for _, f := range a.Contents() {
		if b.Has(f) {
			out.Add(f)
		}
	}
	return out
}

// Subtract returns a new FieldSet containing a's members with b's removed.
func Subtract(a, b *FieldSet) *FieldSet {
	out := NewFieldSet()
	for _, f := range a.Contents() {
		if !b.Has(f) {
			out.Add(f)
		}
	}
	return out
}
