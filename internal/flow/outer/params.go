// Package outer implements Flow Outer (spec.md §4.5): the per-System
// preamble that resolves parameters, assigns RS domains, creates
// transmissions, builds default topology, routes logical links, and
// dispatches each domain to Flow Inner before HDL elaboration.
package outer

import (
	"github.com/jonathanscottrose/genie/internal/expr"
	"github.com/jonathanscottrose/genie/internal/model"
)

// NodeParams is one Node's raw parameter-expression map, keyed by
// parameter name, plus its resolved integer values once step 1 runs.
type NodeParams struct {
	Exprs    map[string]*expr.Expr
	Resolved map[string]int64
}

// ResolveParameters is step 1: evaluate every parameter-bearing
// expression on every Node using a closure that looks up the Node's own
// parameter map, falling back to the System's parameter map, recursively
// (spec.md §4.5 step 1).
func ResolveParameters(system *NodeParams, nodes map[*model.Object]*NodeParams) error {
	systemEnv := expr.MapEnv{}
	for name, e := range system.Exprs {
		v, err := e.Eval(expr.MapEnv{})
		if err != nil {
			return err
		}
		systemEnv[name] = v
	}
	system.Resolved = systemEnv

	for _, np := range nodes {
		local := expr.MapEnv{}
		env := expr.ChainEnv{Local: local, Parent: systemEnv}
		resolved := make(map[string]int64, len(np.Exprs))
		// Every parameter expression resolves against System parameters
		// and literal constants only (spec.md §9), so resolution order
		// across np.Exprs does not affect the result.
		for name, e := range np.Exprs {
			v, err := e.Eval(env)
			if err != nil {
				return err
			}
			local[name] = v
			resolved[name] = v
		}
		np.Resolved = resolved
	}
	return nil
}
