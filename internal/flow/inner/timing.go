package inner

import "github.com/jonathanscottrose/genie/internal/primitive"

// LogicDepth is a port's annotated logic-depth pair (spec.md §4.6 step
// 10): worst input-to-register and register-to-output LUT counts, drawn
// from the node's primitive database row.
type LogicDepth struct {
	InputToReg int
	RegToOut   int
}

// AnnotateTiming is step 10: query row's timing-node matrix for the given
// terminal pair and record the worst-case depths (spec.md §4.6 step 10,
// §6 "Primitive database").
func AnnotateTiming(row primitive.Row, srcTerminal, sinkTerminal string) LogicDepth {
	return LogicDepth{
		InputToReg: row.TNodeVal(srcTerminal, "reg"),
		RegToOut:   row.TNodeVal("reg", sinkTerminal),
	}
}

// Depth returns the larger of the two annotated depths, the value
// compared against max_logic_depth (spec.md §4.7).
func (l LogicDepth) Depth() int {
	if l.InputToReg > l.RegToOut {
		return l.InputToReg
	}
	return l.RegToOut
}
