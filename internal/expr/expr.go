// Package expr implements GENIE's small parameter-expression language
// (spec.md §4.5, §9): integer constants, parameter references, the four
// integer arithmetic operators, and the clog2 intrinsic used to size
// address and count fields from Module/System parameters.
//
// Expressions compile to CEL programs (github.com/google/cel-go) rather
// than a hand-rolled AST walker, reusing the same evaluation engine the
// teacher wires up for request matching.
package expr

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// Expr is a compiled parameter expression, ready to evaluate against an
// Env.
type Expr struct {
	source string
	prog   cel.Program
}

// clog2Overload implements ceiling(log2(x)) for x >= 1; clog2(1) == 0.
func clog2Overload(val ref.Val) ref.Val {
	i, ok := val.(types.Int)
	if !ok {
		return types.NewErr("clog2: operand must be an int, got %v", val.Type())
	}
	n := int64(i)
	if n < 1 {
		return types.NewErr("clog2: operand must be >= 1, got %d", n)
	}
	bits := 0
	for (int64(1) << uint(bits)) < n {
		bits++
	}
	return types.Int(bits)
}

var baseEnv *cel.Env

func init() {
	env, err := cel.NewEnv(
		cel.Variable("params", cel.MapType(cel.StringType, cel.IntType)),
		cel.Function("clog2",
			cel.Overload("clog2_int", []*cel.Type{cel.IntType}, cel.IntType,
				cel.UnaryBinding(clog2Overload))),
	)
	if err != nil {
		panic(fmt.Sprintf("expr: base CEL environment failed to build: %v", err))
	}
	baseEnv = env
}

// Compile parses and type-checks a parameter expression. Parameter
// references appear as bare identifiers, e.g. "clog2(num_inputs) + 1".
func Compile(source string) (*Expr, error) {
	ast, issues := baseEnv.Compile(rewriteIdents(source))
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("expr: compiling %q: %w", source, issues.Err())
	}
	prog, err := baseEnv.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("expr: programming %q: %w", source, err)
	}
	return &Expr{source: source, prog: prog}, nil
}

// MustCompile is Compile but panics on error, for literal expressions
// built into primitive templates.
func MustCompile(source string) *Expr {
	e, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return e
}

// Source returns the original expression text.
func (e *Expr) Source() string { return e.source }

// Env resolves bare parameter names to integer values. A Node's own
// parameters are consulted first, then its System's (spec.md §4.5 step 1).
type Env interface {
	Param(name string) (int64, bool)
}

// MapEnv is the simplest Env: a flat name -> value map.
type MapEnv map[string]int64

// Param implements Env.
func (m MapEnv) Param(name string) (int64, bool) {
	v, ok := m[name]
	return v, ok
}

// ChainEnv resolves against Local first, falling back to Parent.
type ChainEnv struct {
	Local  Env
	Parent Env
}

// Param implements Env.
func (c ChainEnv) Param(name string) (int64, bool) {
	if c.Local != nil {
		if v, ok := c.Local.Param(name); ok {
			return v, true
		}
	}
	if c.Parent != nil {
		return c.Parent.Param(name)
	}
	return 0, false
}

// Eval resolves every identifier the expression references against env
// and evaluates the result as an int64.
func (e *Expr) Eval(env Env) (int64, error) {
	names, err := identifiers(e.source)
	if err != nil {
		return 0, err
	}
	params := make(map[string]int64, len(names))
	for _, n := range names {
		v, ok := env.Param(n)
		if !ok {
			return 0, fmt.Errorf("expr: %q: unresolved parameter %q", e.source, n)
		}
		params[n] = v
	}
	out, _, err := e.prog.Eval(map[string]any{"params": params})
	if err != nil {
		return 0, fmt.Errorf("expr: evaluating %q: %w", e.source, err)
	}
	i, ok := out.Value().(int64)
	if !ok {
		return 0, fmt.Errorf("expr: %q did not evaluate to an int, got %T", e.source, out.Value())
	}
	return i, nil
}

// Const returns a pre-compiled expression for a literal integer, used by
// primitive templates that do not need parameter resolution.
func Const(v int) *Expr {
	return MustCompile(fmt.Sprintf("%d", v))
}
