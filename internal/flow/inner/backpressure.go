package inner

import (
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/synth"
)

// BPStatus is a port's backpressure configurability status (spec.md §4.6
// step 9).
type BPStatus int

const (
	BPUnset BPStatus = iota
	BPDisabled
	BPEnabled
)

// BPPort is one port's backpressure bookkeeping for the propagation walk:
// whether it is user-configurable and its (possibly still unset) status.
type BPPort struct {
	Configurable bool
	Status       BPStatus
}

// PropagateBackpressure is step 9: reverse-topological DFS over the
// physical graph (sink to source). Terminal sinks and non-configurable
// ports keep their status; unset configurable ports default to DISABLED;
// if a downstream port is ENABLED, upstream configurable ports are
// upgraded to ENABLED; non-configurable ports must agree (spec.md §4.6
// step 9).
func PropagateBackpressure(physLinksBySink map[*model.Object][]*model.Link, statusOf map[*model.Object]*BPPort, order []*model.Object) error {
	for _, sinkObj := range order {
		sinkBP, ok := statusOf[sinkObj]
		if !ok {
			continue
		}
		if sinkBP.Configurable && sinkBP.Status == BPUnset {
			sinkBP.Status = BPDisabled
		}
		for _, l := range physLinksBySink[sinkObj] {
			srcObj := l.SrcObject()
			srcBP, ok := statusOf[srcObj]
			if !ok {
				continue
			}
			if srcBP.Configurable {
				if sinkBP.Status == BPEnabled {
					srcBP.Status = BPEnabled
				} else if srcBP.Status == BPUnset {
					srcBP.Status = BPDisabled
				}
				continue
			}
			if sinkBP.Status == BPEnabled && srcBP.Status == BPDisabled {
				return synth.At(synth.KindBackpressureConflict, srcObj.HierPath(),
					"non-configurable source %q is DISABLED but sink %q is ENABLED", srcObj.HierPath(), sinkObj.HierPath())
			}
		}
	}
	return nil
}

// TopologicalSinkOrder returns phys sink objects in reverse-topological
// (sink-first) order given each object's direct upstream neighbors, via a
// DFS post-order reversal, deterministic by following roots in the
// supplied order.
func TopologicalSinkOrder(roots []*model.Object, upstreamOf func(*model.Object) []*model.Object) []*model.Object {
	visited := make(map[*model.Object]bool)
	var post []*model.Object
	var visit func(*model.Object)
	visit = func(o *model.Object) {
		if visited[o] {
			return
		}
		visited[o] = true
		for _, up := range upstreamOf(o) {
			visit(up)
		}
		post = append(post, o)
	}
	for _, r := range roots {
		visit(r)
	}
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}
