package outer

import (
	"fmt"

	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/primitive"
	"github.com/jonathanscottrose/genie/internal/synth"
)

// FanEntry accumulates a logical link's unconnected source (for a
// prospective split) or sink (for a prospective merge) during the
// crossbar gathering pass.
type FanEntry struct {
	Object *model.Object
	Sinks  []*model.Object // distinct sinks reached from this source (split side), first-seen order
	Srcs   []*model.Object // distinct sources reaching this sink (merge side), first-seen order
}

// Crossbar is step 6's gathered state: split and merge fan entries, each
// kept alongside its first-discovery order so later passes stay
// deterministic (spec.md §5).
type Crossbar struct {
	SplitOrder []*model.Object
	SplitFanout map[*model.Object]*FanEntry
	MergeOrder []*model.Object
	MergeFanin map[*model.Object]*FanEntry
}

// GatherCrossbar is step 6's gathering phase: for each logical link, if
// both ends are unconnected in the topo net, record the src in a
// split-fan-out entry and the sink in a merge-fan-in entry (spec.md §4.5
// step 6). connectedInTopo reports whether an Object already has a topo
// endpoint link.
func GatherCrossbar(logicalLinks []*model.Link, connectedInTopo func(*model.Object) bool) (*Crossbar, error) {
	c := &Crossbar{
		SplitFanout: make(map[*model.Object]*FanEntry),
		MergeFanin:  make(map[*model.Object]*FanEntry),
	}

	for _, l := range logicalLinks {
		src, sink := l.SrcObject(), l.SinkObject()
		srcConnected, sinkConnected := connectedInTopo(src), connectedInTopo(sink)
		if srcConnected != sinkConnected {
			return nil, synth.At(synth.KindPartialManualTopo, src.HierPath(),
				"logical link %s -> %s is partially covered by manual topology", src.HierPath(), sink.HierPath())
		}
		if srcConnected {
			continue
		}

		entry, ok := c.SplitFanout[src]
		if !ok {
			entry = &FanEntry{Object: src}
			c.SplitFanout[src] = entry
			c.SplitOrder = append(c.SplitOrder, src)
		}
		if !containsObj(entry.Sinks, sink) {
			entry.Sinks = append(entry.Sinks, sink)
		}

		mentry, ok := c.MergeFanin[sink]
		if !ok {
			mentry = &FanEntry{Object: sink}
			c.MergeFanin[sink] = mentry
			c.MergeOrder = append(c.MergeOrder, sink)
		}
		if !containsObj(mentry.Srcs, src) {
			mentry.Srcs = append(mentry.Srcs, src)
		}
	}
	return c, nil
}

func containsObj(list []*model.Object, o *model.Object) bool {
	for _, x := range list {
		if x == o {
			return true
		}
	}
	return false
}

// BuildCrossbar is step 6's construction phase: create a split node per
// source with more than one distinct sink, a merge node per sink with
// more than one distinct source, and return the "head" ports callers
// should connect the topo graph to (spec.md §4.5 step 6). Nodes are
// created in the gathering pass's first-discovery order, so repeated
// runs over identical input produce identically-named/ordered nodes.
func BuildCrossbar(parent *model.Object, c *Crossbar, descriptiveNames bool) (map[*model.Object]*model.Object, map[*model.Object]*model.Object, error) {
	splitHead := make(map[*model.Object]*model.Object)
	mergeHead := make(map[*model.Object]*model.Object)

	i := 0
	for _, src := range c.SplitOrder {
		entry := c.SplitFanout[src]
		if len(entry.Sinks) <= 1 {
			continue
		}
		name := fmt.Sprintf("spl%d", i)
		if descriptiveNames {
			name = src.Name + "_spl"
		}
		i++
		n, err := primitive.NewSplit(parent, name, len(entry.Sinks))
		if err != nil {
			return nil, nil, err
		}
		splitHead[src] = n
	}

	j := 0
	for _, sink := range c.MergeOrder {
		entry := c.MergeFanin[sink]
		if len(entry.Srcs) <= 1 {
			continue
		}
		name := fmt.Sprintf("mrg%d", j)
		if descriptiveNames {
			name = sink.Name + "_mrg"
		}
		j++
		n, err := primitive.NewMerge(parent, name, len(entry.Srcs), false)
		if err != nil {
			return nil, nil, err
		}
		mergeHead[sink] = n
	}
	return splitHead, mergeHead, nil
}
