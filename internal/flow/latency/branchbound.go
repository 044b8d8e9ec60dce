package latency

import "math"

// BranchAndBound is a from-scratch MILP Solver: depth-first branch and
// bound on fractional integer columns over the row-repair relaxation that
// relax computes.
//
// No compliant MILP library is available in this build's dependency set,
// so the core's own variables are small (per spec.md §4.7 the columns are
// one latency var and one optional binary var per physical link under
// constraint, typically tens to low hundreds) and a direct branch and
// bound is tractable without an external solver.
type BranchAndBound struct {
	// MaxNodes bounds the branch-and-bound search tree, guarding against
	// pathological inputs. Zero means use DefaultMaxNodes.
	MaxNodes int
}

// DefaultMaxNodes is the branch-and-bound node budget used when
// BranchAndBound.MaxNodes is unset.
const DefaultMaxNodes = 200000

// Solve implements Solver.
func (b BranchAndBound) Solve(p *Problem) (Solution, error) {
	maxNodes := b.MaxNodes
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	lb := make([]float64, p.NumCols)
	ub := make([]float64, p.NumCols)
	for i := range ub {
		ub[i] = math.Inf(1)
		if p.IsBinary(i) {
			ub[i] = 1
		}
	}

	best := Solution{}
	bestObj := math.Inf(1)
	nodes := 0

	var branch func(lb, ub []float64)
	branch = func(lb, ub []float64) {
		nodes++
		if nodes > maxNodes {
			return
		}
		relaxed, obj, feasible := relax(p, lb, ub)
		if !feasible || obj >= bestObj {
			return
		}
		fracCol := -1
		for i := 0; i < p.NumCols; i++ {
			if !p.IsInteger(i) {
				continue
			}
			frac := relaxed[i] - math.Floor(relaxed[i])
			if frac > 1e-6 && frac < 1-1e-6 {
				fracCol = i
				break
			}
		}
		if fracCol == -1 {
			if obj < bestObj {
				bestObj = obj
				best = Solution{Values: append([]float64(nil), relaxed...)}
			}
			return
		}
		floorVal := math.Floor(relaxed[fracCol])
		lb2, ub2 := append([]float64(nil), lb...), append([]float64(nil), ub...)
		ub2[fracCol] = floorVal
		branch(lb2, ub2)

		lb3, ub3 := append([]float64(nil), lb...), append([]float64(nil), ub...)
		lb3[fracCol] = floorVal + 1
		branch(lb3, ub3)
	}
	branch(lb, ub)

	if best.Values == nil {
		// No integral point found (empty problem, no feasible relaxation,
		// or the node budget ran out): return the initial lower bounds,
		// all zero; this point is not checked against the rows.
		best.Values = lb
	}
	return best, nil
}

// relax looks for a feasible point of the box-constrained relaxation by
// iterative row repair, not by an LP solve: starting from the lower bounds
// (clipped to the upper bounds), each pass moves, for every violated row,
// the column with the largest positive coefficient (lowest index on ties)
// by the row's deficit, until a pass changes nothing or the pass limit is
// reached; the point is then checked against every row. It returns the
// point, its objective value, and whether it is feasible. spec.md §4.7's
// rows are all of the simple forms Σ lat_vars ≥ k, Σ lat_vars ≤ k,
// Σ reg_vars ≥ 1, and lat_var - reg_var ≥ 0.
func relax(p *Problem, lb, ub []float64) ([]float64, float64, bool) {
	x := make([]float64, p.NumCols)
	for i := range x {
		if lb[i] > 0 {
			x[i] = lb[i]
		}
		if math.IsInf(ub[i], 1) == false && x[i] > ub[i] {
			x[i] = ub[i]
		}
	}

	changed := true
	for pass := 0; pass < p.NumCols+len(p.rows)+4 && changed; pass++ {
		changed = false
		for _, r := range p.rows {
			sum := 0.0
			for col, coeff := range r.coeffs {
				sum += coeff * x[col]
			}
			deficit := 0.0
			switch r.op {
			case OpGE:
				if sum < r.rhs {
					deficit = r.rhs - sum
				}
			case OpEQ:
				deficit = r.rhs - sum
			case OpLE:
				if sum > r.rhs {
					deficit = r.rhs - sum // negative, will decrease a column
				}
			}
			if deficit == 0 {
				continue
			}
			// Push the increase onto the column with the largest positive
			// coefficient in this row that still has headroom, which keeps
			// the adjustment minimal and respects bounds.
			bestCol, bestCoeff := -1, 0.0
			for col, coeff := range r.coeffs {
				if coeff <= 0 {
					continue
				}
				if !math.IsInf(ub[col], 1) && x[col] >= ub[col] && deficit > 0 {
					continue
				}
				if coeff > bestCoeff || (coeff == bestCoeff && col < bestCol) {
					bestCoeff = coeff
					bestCol = col
				}
			}
			if bestCol == -1 {
				return nil, 0, false
			}
			x[bestCol] += deficit / bestCoeff
			if x[bestCol] < lb[bestCol] {
				x[bestCol] = lb[bestCol]
			}
			if !math.IsInf(ub[bestCol], 1) && x[bestCol] > ub[bestCol] {
				x[bestCol] = ub[bestCol]
			}
			changed = true
		}
	}

	// Final feasibility check.
	for _, r := range p.rows {
		sum := 0.0
		for col, coeff := range r.coeffs {
			sum += coeff * x[col]
		}
		switch r.op {
		case OpGE:
			if sum < r.rhs-1e-6 {
				return nil, 0, false
			}
		case OpEQ:
			if math.Abs(sum-r.rhs) > 1e-6 {
				return nil, 0, false
			}
		case OpLE:
			if sum > r.rhs+1e-6 {
				return nil, 0, false
			}
		}
	}

	obj := 0.0
	for col, coeff := range p.Objective() {
		obj += coeff * x[col]
	}
	return x, obj, true
}
