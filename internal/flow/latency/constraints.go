package latency

import (
	"fmt"

	"github.com/jonathanscottrose/genie/internal/model"
)

// SyncOp is a user synchronization constraint's relational operator,
// before translation to the solver's <=/=/>= rows (spec.md §4.7).
type SyncOp int

const (
	SyncLT SyncOp = iota
	SyncLE
	SyncEQ
	SyncGE
	SyncGT
)

// Chain is a sequence of logical links whose end-to-end latency is the
// sum of each logical link's realized physical-link latencies plus the
// fixed internal latency of each node between consecutive links in the
// chain (spec.md §4.7 "User synchronization constraints").
type Chain struct {
	Logical  []model.LinkID
	Internal []int // fixed internal latencies between consecutive logical links, len(Logical)-1
}

// SyncConstraint is a signed sum of chains OP a constant.
type SyncConstraint struct {
	Terms []SignedChain
	Op    SyncOp
	RHS   int
}

// SignedChain is one term of a SyncConstraint: +1 or -1 times a Chain's
// latency.
type SignedChain struct {
	Sign  int // +1 or -1
	Chain Chain
}

// Builder accumulates MILP columns and rows across the stages of
// spec.md §4.7, then produces a Problem ready to Solve.
type Builder struct {
	physCol map[model.LinkID]int // physical link id -> latency var column
	regCol  map[model.LinkID]int // physical link id -> register-presence binary column, if any
	colName []string
	rows    []builtRow
}

type builtRow struct {
	coeffs map[int]float64
	op     RowOp
	rhs    float64
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		physCol: make(map[model.LinkID]int),
		regCol:  make(map[model.LinkID]int),
	}
}

// LatencyVar returns the latency-variable column for a physical link,
// allocating one on first use.
func (b *Builder) LatencyVar(link model.LinkID) int {
	if c, ok := b.physCol[link]; ok {
		return c
	}
	c := len(b.colName)
	b.physCol[link] = c
	b.colName = append(b.colName, fmt.Sprintf("lat(%s#%d)", link.Net, link.Index))
	return c
}

// RegVar returns the register-presence binary column for a physical link,
// allocating one (and its auxiliary lat_var - reg_var >= 0 row) on first
// use.
func (b *Builder) RegVar(link model.LinkID) int {
	if c, ok := b.regCol[link]; ok {
		return c
	}
	c := len(b.colName)
	b.regCol[link] = c
	b.colName = append(b.colName, fmt.Sprintf("reg(%s#%d)", link.Net, link.Index))
	latCol := b.LatencyVar(link)
	b.rows = append(b.rows, builtRow{
		coeffs: map[int]float64{latCol: 1, c: -1},
		op:     OpGE,
		rhs:    0,
	})
	return c
}

// AddSyncConstraint adds the rows for one user synchronization constraint,
// expanding each chain's latency as the sum of its logical links'
// physical-link latency vars plus the chain's fixed internal latencies.
// exists reports whether a logical link is present in the current domain;
// per spec.md §4.7, if any logical link named in the constraint doesn't
// exist here the whole constraint is dropped.
func (b *Builder) AddSyncConstraint(c SyncConstraint, physicalLinksOf func(model.LinkID) []model.LinkID, exists func(model.LinkID) bool) {
	for _, term := range c.Terms {
		for _, l := range term.Chain.Logical {
			if !exists(l) {
				return
			}
		}
	}

	coeffs := make(map[int]float64)
	fixed := 0
	for _, term := range c.Terms {
		sign := float64(term.Sign)
		for _, l := range term.Chain.Logical {
			for _, phys := range physicalLinksOf(l) {
				col := b.LatencyVar(phys)
				coeffs[col] += sign
			}
		}
		for _, internalLat := range term.Chain.Internal {
			fixed += term.Sign * internalLat
		}
	}

	op, rhs := translateSyncOp(c.Op, c.RHS)
	rhs -= float64(fixed)
	b.rows = append(b.rows, builtRow{coeffs: coeffs, op: op, rhs: rhs})
}

// translateSyncOp converts strict < and > into <= and >= by adjusting the
// RHS by ±1 (spec.md §4.7).
func translateSyncOp(op SyncOp, rhs int) (RowOp, float64) {
	switch op {
	case SyncLT:
		return OpLE, float64(rhs - 1)
	case SyncLE:
		return OpLE, float64(rhs)
	case SyncEQ:
		return OpEQ, float64(rhs)
	case SyncGE:
		return OpGE, float64(rhs)
	case SyncGT:
		return OpGE, float64(rhs + 1)
	default:
		return OpLE, float64(rhs)
	}
}

// AddTopoBounds adds the Σ lat_vars_of_realizing_phys >= min_regs row
// (and, if maxRegs is not model.Unbounded, the analogous <= row) for one
// topo link (spec.md §4.7 "Topology constraints").
func (b *Builder) AddTopoBounds(realizing []model.LinkID, minRegs, maxRegs int) {
	coeffs := make(map[int]float64, len(realizing))
	for _, phys := range realizing {
		coeffs[b.LatencyVar(phys)] = 1
	}
	if minRegs > 0 {
		b.rows = append(b.rows, builtRow{coeffs: coeffs, op: OpGE, rhs: float64(minRegs)})
	}
	if maxRegs != model.Unbounded {
		b.rows = append(b.rows, builtRow{coeffs: coeffs, op: OpLE, rhs: float64(maxRegs)})
	}
}

// ForceLatency emits a direct lat_var >= 1 row with no binary variable,
// used when a port's logic depth already meets or exceeds the max
// (spec.md §4.7 "If a port's depth >= D, force that physical link's
// latency >= 1 directly").
func (b *Builder) ForceLatency(link model.LinkID, atLeast int) {
	col := b.LatencyVar(link)
	b.rows = append(b.rows, builtRow{coeffs: map[int]float64{col: 1}, op: OpGE, rhs: float64(atLeast)})
}

// AddSnakeCover emits Σ reg_vars_along_snake >= 1 for one over-weight
// snake found by the reg-graph cover (spec.md §4.7).
func (b *Builder) AddSnakeCover(snake []model.LinkID) {
	coeffs := make(map[int]float64, len(snake))
	for _, link := range snake {
		coeffs[b.RegVar(link)] = 1
	}
	b.rows = append(b.rows, builtRow{coeffs: coeffs, op: OpGE, rhs: 1})
}

// Build produces a Problem with the minimize-Σ(width+1)*lat_var objective
// (spec.md §4.7 "Objective"), given each latency column's link width.
func (b *Builder) Build(solver Solver, widthOf func(model.LinkID) int) *Problem {
	p := NewProblem(len(b.colName), solver)
	for i, name := range b.colName {
		p.SetName(i, name)
	}
	for link, col := range b.physCol {
		p.SetObjectiveTerm(col, float64(widthOf(link)+1))
		p.MarkInteger(col)
	}
	for _, col := range b.regCol {
		p.MarkBinary(col)
	}
	for _, r := range b.rows {
		p.AddConstraint(r.coeffs, r.op, r.rhs)
	}
	return p
}

// LinkOf inverts LatencyVar: given a solved column index, returns the
// physical link id, if this builder allocated that column as a latency
// variable.
func (b *Builder) LinkOf(col int) (model.LinkID, bool) {
	for link, c := range b.physCol {
		if c == col {
			return link, true
		}
	}
	return model.LinkID{}, false
}
