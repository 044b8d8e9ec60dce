// Package genie compiles a hierarchical network-on-chip description into
// a latched, protocol-correct physical interconnect and its HDL net list
// (spec.md §1 "Overview").
package genie

import (
	"time"

	"go.uber.org/zap"

	"github.com/jonathanscottrose/genie/internal/flow"
	"github.com/jonathanscottrose/genie/internal/flow/latency"
	"github.com/jonathanscottrose/genie/internal/flow/outer"
	"github.com/jonathanscottrose/genie/internal/hdl"
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/primitive"
)

// Options configures a Compile run: topology/merge-tree overrides, debug
// dumps, and per-system optimizer allow-lists (spec.md §6
// "Configuration").
type Options = flow.Options

// DefaultOptions returns the options a bare CLI invocation starts from.
func DefaultOptions() Options { return flow.DefaultOptions() }

// System is the parsed, in-memory form of one user-authored interconnect
// description: its root Object tree plus the flat indexes Compile needs
// to drive Flow Outer without re-walking the tree (spec.md §4.2).
type System struct {
	Root *model.Object

	SystemParams *outer.NodeParams
	NodeParams   map[*model.Object]*outer.NodeParams

	RSPorts      []*model.Object
	ConduitLinks []*model.Link
	LogicalLinks []*model.Link

	PreexistingTopoLinks []*model.Link
	TopoLinkDomain       func(*model.Link) int

	BitsOf func(model.HDLBinding) (int, error)

	ConduitSubPortsOf func(*model.Object) []*model.Object
	ConduitTagOf      func(*model.Object) string
	ConduitIsInput    func(*model.Object) bool

	// SyncConstraints are user-authored latency equality/inequality
	// constraints between logical links, applied during Flow Inner's
	// latency solve (spec.md §4.7 "User synchronization constraints").
	SyncConstraints []latency.SyncConstraint
}

// Result is one Compile call's output: the elaborated HDL state plus the
// number of RS domains it realized, for callers that want to report or
// assert on it.
type Result struct {
	HDL     *hdl.State
	Domains int
}

// Compile runs the full flow (spec.md §4.1 "Compilation pipeline") over
// sys: Flow Outer steps 1-9 dispatch each RS domain through Flow Inner's
// 16 steps against an isolated snapshot, then step 10 elaborates the
// reassembled physical graph into HDL. db supplies primitive timing/area
// data for the latency solver and realize-latencies stage; a nil db
// falls back to register-chain latency realization throughout.
func Compile(sys *System, opts Options, db *primitive.Database) (*Result, error) {
	log := Log()
	start := time.Now()

	in := outer.Input{
		System:               sys.Root,
		SystemParams:         sys.SystemParams,
		NodeParams:           sys.NodeParams,
		RSPorts:              sys.RSPorts,
		ConduitLinks:         sys.ConduitLinks,
		LogicalLinks:         sys.LogicalLinks,
		PreexistingTopoLinks: sys.PreexistingTopoLinks,
		TopoLinkDomain:       sys.TopoLinkDomain,
		BitsOf:               sys.BitsOf,
		ConduitSubPortsOf:    sys.ConduitSubPortsOf,
		ConduitTagOf:         sys.ConduitTagOf,
		ConduitIsInput:       sys.ConduitIsInput,
		SyncConstraints:      sys.SyncConstraints,
		Options:              opts,
		DB:                   db,
	}

	res, err := outer.Compile(log, in)
	flowMetrics.compileSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		flowMetrics.systemsCompiled.WithLabelValues("error").Inc()
		log.Error("compile failed", zap.Error(err), zap.String("system", sys.Root.HierPath()))
		return nil, err
	}
	flowMetrics.systemsCompiled.WithLabelValues("ok").Inc()
	flowMetrics.domainsRealized.Add(float64(res.Domains))

	return &Result{HDL: res.HDL, Domains: res.Domains}, nil
}
