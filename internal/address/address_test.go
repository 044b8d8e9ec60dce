package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalRepSequentialIDs(t *testing.T) {
	r := BuildCanonical(3)
	assert.Equal(t, uint(0), r.GetAddr(0))
	assert.Equal(t, uint(1), r.GetAddr(1))
	assert.Equal(t, uint(2), r.GetAddr(2))
	assert.Equal(t, 3, r.NumAddrBins())
}

func TestSplitRepOneHotAndMulticast(t *testing.T) {
	// xmis 0 -> output 0 only; xmis 1 -> outputs 0 and 1 (multicast).
	perOutput := map[int][]uint{
		0: {0, 1},
		1: {1},
	}
	r := BuildSplitRep(2, func(o int) []uint { return perOutput[o] })
	assert.Equal(t, uint(0b01), r.GetAddr(0))
	assert.Equal(t, uint(0b11), r.GetAddr(1))
}

func TestUserRepBinsByBoundAddress(t *testing.T) {
	userAddr := map[uint]uint{0: 7, 1: 12}
	r := BuildUserRep([]uint{0, 1}, func(x uint) uint { return userAddr[x] })
	assert.True(t, r.Exists(7))
	assert.True(t, r.Exists(12))
	assert.Equal(t, []uint{0}, r.GetXmis(7))
}

func TestSizeInBitsIgnoresAnySentinel(t *testing.T) {
	r := New()
	r.Insert(0, 7)
	r.Insert(1, 12)
	r.Insert(2, Any)
	// ceil(log2(12+1)) = ceil(log2(13)) = 4
	assert.Equal(t, 4, r.SizeInBits())
}

func TestSizeInBitsSingleBin(t *testing.T) {
	r := New()
	r.Insert(0, 0)
	assert.Equal(t, 0, r.SizeInBits())
}
