// Package address implements the bidirectional transmission-id <-> address
// mapping described in spec.md §4.3: the per-domain canonical rep, the
// split-node one-hot rep, and the user-port rep, all built on the same
// Rep type.
package address

import "math/bits"

// Any is the sentinel "any address" value (spec.md §3 LinkRSLogical, §4.3).
const Any = ^uint(0)

// invalid marks a transmission with no assigned address.
const invalid = Any - 1

// Rep is a bidirectional map: transmission-id -> address value, and
// address value -> set of transmission-ids (a transmission may be the sole
// occupant of an address or share it, spec.md §4.3).
type Rep struct {
	xmisToAddr map[uint]uint
	addrToXmis map[uint][]uint
	// binOrder preserves first-insertion order of address bins, so
	// get_addr_bins()/ConvTable traversal is deterministic.
	binOrder []uint

	widthDirty bool
	width      int
}

// New returns an empty Rep.
func New() *Rep {
	return &Rep{
		xmisToAddr: make(map[uint]uint),
		addrToXmis: make(map[uint][]uint),
		widthDirty: true,
	}
}

// Insert records that transmission xmis is assigned address addr.
func (r *Rep) Insert(xmis, addr uint) {
	r.xmisToAddr[xmis] = addr
	if _, ok := r.addrToXmis[addr]; !ok {
		r.binOrder = append(r.binOrder, addr)
	}
	r.addrToXmis[addr] = append(r.addrToXmis[addr], xmis)
	r.widthDirty = true
}

// GetXmis returns the transmissions bound to addr, in insertion order.
func (r *Rep) GetXmis(addr uint) []uint {
	out := make([]uint, len(r.addrToXmis[addr]))
	copy(out, r.addrToXmis[addr])
	return out
}

// GetAddr returns the address bound to xmis, or the invalid sentinel if
// none was ever inserted.
func (r *Rep) GetAddr(xmis uint) uint {
	if a, ok := r.xmisToAddr[xmis]; ok {
		return a
	}
	return invalid
}

// Exists reports whether addr has at least one transmission bound to it.
func (r *Rep) Exists(addr uint) bool {
	_, ok := r.addrToXmis[addr]
	return ok
}

// AddrBins returns every address bin in first-insertion order.
func (r *Rep) AddrBins() []uint {
	out := make([]uint, len(r.binOrder))
	copy(out, r.binOrder)
	return out
}

// NumAddrBins returns the number of distinct address bins.
func (r *Rep) NumAddrBins() int { return len(r.binOrder) }

// SizeInBits is ⌈log2(max_addr + 1)⌉, ignoring the Any sentinel (spec.md
// §4.3), lazily recomputed whenever the rep changes.
func (r *Rep) SizeInBits() int {
	if r.widthDirty {
		max := uint(0)
		for _, addr := range r.binOrder {
			if addr == Any {
				continue
			}
			if addr > max {
				max = addr
			}
		}
		r.width = bitLen(max + 1)
		r.widthDirty = false
	}
	return r.width
}

func bitLen(v uint) int {
	if v <= 1 {
		return 0
	}
	return bits.Len(v - 1)
}

// BuildCanonical constructs the per-domain canonical rep (spec.md §4.3):
// each of the n transmissions in the domain gets a sequential id starting
// at zero, used as the common exchange currency inside one domain.
func BuildCanonical(nTransmissions int) *Rep {
	r := New()
	for i := 0; i < nTransmissions; i++ {
		r.Insert(uint(i), uint(i))
	}
	return r
}

// BuildSplitRep constructs the split-node rep (spec.md §4.3): for each
// split output index in [0, nOutputs), OR bit `index` into the address of
// every transmission whose flow passes through that output, yielding a
// one-hot (or multi-hot, for multicast) output mask. transmissionsPerOutput
// maps output index -> the transmission ids routed through it.
func BuildSplitRep(nOutputs int, transmissionsPerOutput func(output int) []uint) *Rep {
	masks := make(map[uint]uint)
	var order []uint
	seen := make(map[uint]bool)
	for out := 0; out < nOutputs; out++ {
		for _, xmis := range transmissionsPerOutput(out) {
			masks[xmis] |= 1 << uint(out)
			if !seen[xmis] {
				seen[xmis] = true
				order = append(order, xmis)
			}
		}
	}
	r := New()
	for _, xmis := range order {
		r.Insert(xmis, masks[xmis])
	}
	return r
}

// BuildUserRep bins transmissions by the user-visible address value bound
// to each one's logical link (spec.md §4.3 "User-port rep").
// userAddrOf maps transmission id -> its bound user address (Any allowed).
func BuildUserRep(transmissions []uint, userAddrOf func(xmis uint) uint) *Rep {
	r := New()
	for _, xmis := range transmissions {
		r.Insert(xmis, userAddrOf(xmis))
	}
	return r
}
