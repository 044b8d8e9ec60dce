package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldSetAddIdempotentAndSorted(t *testing.T) {
	fs := NewFieldSet()
	f1 := Field{Type: FieldUserData, Tag: "d", Domain: 0, Width: 8}
	f2 := Field{Type: FieldEOP, Width: 1}
	fs.Add(f1)
	fs.Add(f2)
	fs.Add(f1) // idempotent

	assert.Len(t, fs.Contents(), 2)
	// USERDATA < EOP by FieldType ordering.
	assert.Equal(t, FieldUserData, fs.Contents()[0].Type)
}

func TestFieldSetAlgebra(t *testing.T) {
	a := NewFieldSet(
		Field{Type: FieldUserData, Tag: "a", Width: 8},
		Field{Type: FieldEOP, Width: 1},
	)
	b := NewFieldSet(
		Field{Type: FieldEOP, Width: 1},
		Field{Type: FieldUserAddr, Width: 4},
	)

	union := Union(a, b)
	assert.Len(t, union.Contents(), 3)

	inter := Intersect(a, b)
	assert.Len(t, inter.Contents(), 1)
	assert.Equal(t, FieldEOP, inter.Contents()[0].Type)

	sub := Subtract(a, b)
	assert.Len(t, sub.Contents(), 1)
	assert.Equal(t, FieldUserData, sub.Contents()[0].Type)

	// Commutativity of union/intersect; A - A = empty; A ∩ A = A.
	assert.ElementsMatch(t, union.Contents(), Union(b, a).Contents())
	assert.ElementsMatch(t, inter.Contents(), Intersect(b, a).Contents())
	assert.Empty(t, Subtract(a, a).Contents())
	assert.ElementsMatch(t, a.Contents(), Intersect(a, a).Contents())
}

func TestGetLSBStableBitPosition(t *testing.T) {
	fs := NewFieldSet(
		Field{Type: FieldEOP, Width: 1},
		Field{Type: FieldUserAddr, Width: 4},
		Field{Type: FieldUserData, Tag: "d", Width: 8},
	)
	// Sorted order is USERDATA(8), USERADDR(4), EOP(1).
	assert.Equal(t, 12, fs.GetLSB(Field{Type: FieldEOP}))
	assert.Equal(t, 8, fs.GetLSB(Field{Type: FieldUserAddr}))
	assert.Equal(t, 0, fs.GetLSB(Field{Type: FieldUserData, Tag: "d"}))
	assert.Equal(t, 13, fs.Width())
}

func TestLinkWidthNoCarriers(t *testing.T) {
	src := NewPortProtocol()
	src.AddTerminalField(Field{Type: FieldUserData, Tag: "d", Width: 8}, "data")
	src.AddTerminalField(Field{Type: FieldEOP, Width: 1}, "eop")

	sink := NewPortProtocol()
	sink.AddTerminalField(Field{Type: FieldUserData, Tag: "d", Width: 8}, "data")

	assert.Equal(t, 8, LinkWidth(src, sink))
}

func TestLinkWidthBothCarriers(t *testing.T) {
	src := NewPortProtocol()
	cs := NewCarrierProtocol()
	cs.AddField(Field{Type: FieldUserData, Tag: "d", Domain: 0, Width: 8})
	cs.AddField(Field{Type: FieldEOP, Domain: 0, Width: 1})
	src.SetCarrier(cs)

	sink := NewPortProtocol()
	ct := NewCarrierProtocol()
	ct.AddField(Field{Type: FieldUserData, Tag: "d", Domain: 0, Width: 8})
	ct.AddField(Field{Type: FieldEOP, Domain: 0, Width: 1})
	sink.SetCarrier(ct)

	assert.Equal(t, 9, LinkWidth(src, sink))
}

func TestSpliceCarriageIsConservativeIntersection(t *testing.T) {
	src := NewPortProtocol()
	src.AddTerminalField(Field{Type: FieldUserData, Tag: "d", Width: 8}, "data")
	src.AddTerminalField(Field{Type: FieldEOP, Width: 1}, "eop")

	sink := NewPortProtocol()
	sink.AddTerminalField(Field{Type: FieldUserData, Tag: "d", Width: 8}, "data")
	sink.AddTerminalField(Field{Type: FieldUserAddr, Width: 4}, "address")

	carriage := SpliceCarriage(src, sink)
	assert.Len(t, carriage.Contents(), 1)
	assert.Equal(t, FieldUserData, carriage.Contents()[0].Type)
}
