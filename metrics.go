package genie

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// flowMetrics are the counters and histograms tracked across Compile
// runs.
var flowMetrics = struct {
	systemsCompiled   *prometheus.CounterVec
	domainsRealized   prometheus.Counter
	synthesisErrors   *prometheus.CounterVec
	compileSeconds    prometheus.Histogram
	latencySolveNodes prometheus.Histogram
}{}

func init() {
	const ns = "genie"
	const sub = "flow"
	flowMetrics.systemsCompiled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: sub,
		Name:      "systems_compiled_total",
		Help:      "Count of Systems that completed flow outer, by outcome.",
	}, []string{"outcome"})
	flowMetrics.domainsRealized = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: sub,
		Name:      "domains_realized_total",
		Help:      "Count of RS domains that completed flow inner.",
	})
	flowMetrics.synthesisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Subsystem: sub,
		Name:      "synthesis_errors_total",
		Help:      "Count of synthesis errors raised, by kind.",
	}, []string{"kind"})
	flowMetrics.compileSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns,
		Subsystem: sub,
		Name:      "compile_seconds",
		Help:      "Wall-clock time spent compiling one System.",
		Buckets:   prometheus.DefBuckets,
	})
	flowMetrics.latencySolveNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns,
		Subsystem: sub,
		Name:      "latency_solver_branch_nodes",
		Help:      "Branch-and-bound node count consumed per domain's latency solve.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	})
}
