package inner

import (
	"fmt"

	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/primitive"
)

// Treeify is step 1: decompose into a balanced tree every Merge in the
// domain whose fan-in exceeds the threshold (unless NoMergeTree is set)
// and, when SplitTree is set, every Split whose fan-out exceeds it,
// re-homing its existing topo-link branches onto the new leaves and
// linking every new tree level with a real topo link (spec.md §4.4, §4.6
// step 1).
func (d *Domain) Treeify(opts Options) error {
	maxOutputs := primitive.DefaultMaxOutputs
	maxInputs := primitive.DefaultMaxInputs

	for _, s := range d.System.Descendants(model.KindSplit) {
		payload := s.Payload.(*primitive.SplitPayload)
		if !opts.SplitTree || payload.NumOutputs <= maxOutputs {
			continue
		}
		branches := s.Endpoint(model.NetTopo, model.DirOut).Links()
		if len(branches) <= maxOutputs {
			continue
		}
		if err := d.treeifySplit(s, branches, maxOutputs); err != nil {
			return fmt.Errorf("domain %d: treeify split %q: %w", d.ID, s.HierPath(), err)
		}
		d.oversizedSplits = append(d.oversizedSplits, s)
	}

	for _, m := range d.System.Descendants(model.KindMerge) {
		payload := m.Payload.(*primitive.MergePayload)
		if opts.NoMergeTree {
			continue
		}
		if payload.NumInputs <= maxInputs {
			continue
		}
		branches := m.Endpoint(model.NetTopo, model.DirIn).Links()
		if len(branches) <= maxInputs {
			continue
		}
		if err := d.treeifyMerge(m, branches, maxInputs, payload.Exclusive); err != nil {
			return fmt.Errorf("domain %d: treeify merge %q: %w", d.ID, m.HierPath(), err)
		}
		d.oversizedMerges = append(d.oversizedMerges, m)
	}
	return nil
}

// logicalOfBranches returns, for each of branches, the one RS logical link
// that owns it (spec.md §3: a logical link is the parent of every topo
// link along its route).
func (d *Domain) logicalOfBranches(branches []*model.Link) func(int) model.LinkID {
	owners := make([]model.LinkID, len(branches))
	for i, b := range branches {
		if parents := d.Relations.Parents(b.ID, model.NetRSLogical, true); len(parents) > 0 {
			owners[i] = parents[0]
		}
	}
	return func(i int) model.LinkID { return owners[i] }
}

func (d *Domain) treeifySplit(s *model.Object, branches []*model.Link, maxOutputs int) error {
	rehomed, internal, err := primitive.Treeify(s.Parent, s.Name, s, branches, maxOutputs,
		d.allocTopoIndex, d.Relations, d.logicalOfBranches(branches))
	if err != nil {
		return err
	}
	d.replaceTopoLinks(branches, rehomed)
	for _, l := range internal {
		d.AddTopoLink(l)
	}
	// s itself now fans out to its new tree children only; its own
	// branch count shrank to however many the balanced split produced.
	s.Payload.(*primitive.SplitPayload).NumOutputs = len(s.Endpoint(model.NetTopo, model.DirOut).Links())
	return nil
}

func (d *Domain) treeifyMerge(m *model.Object, branches []*model.Link, maxInputs int, exclusive bool) error {
	rehomed, internal, err := primitive.TreeifyMerge(m.Parent, m.Name, m, branches, maxInputs, exclusive,
		d.allocTopoIndex, d.Relations, d.logicalOfBranches(branches))
	if err != nil {
		return err
	}
	d.replaceTopoLinks(branches, rehomed)
	for _, l := range internal {
		d.AddTopoLink(l)
	}
	m.Payload.(*primitive.MergePayload).NumInputs = len(m.Endpoint(model.NetTopo, model.DirIn).Links())
	return nil
}

// replaceTopoLinks swaps each re-homed branch's new *model.Link pointer
// into d.TopoLinks in place of its old one (same LinkID, moved endpoint).
func (d *Domain) replaceTopoLinks(old, rehomed []*model.Link) {
	byID := make(map[model.LinkID]*model.Link, len(rehomed))
	for _, l := range rehomed {
		byID[l.ID] = l
	}
	for i, l := range d.TopoLinks {
		if replacement, ok := byID[l.ID]; ok {
			d.TopoLinks[i] = replacement
		}
	}
}
