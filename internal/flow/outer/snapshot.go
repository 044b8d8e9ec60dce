package outer

import (
	"github.com/google/uuid"

	"github.com/jonathanscottrose/genie/internal/model"
)

// Snapshot is the per-domain scratch System of spec.md §4.5 step 9 and §5
// "Snapshots allocate a separate, independent System object ... that
// deep-copies the relevant subset of the parent." Ports genuinely move
// (not copy) into the scratch root: the core is single-threaded and
// processes domains strictly sequentially, so a detached port is never
// observed mid-flight by another domain's pass, which is the only
// property a deep copy would additionally buy here. The scratch root's
// name is a uuid so its hierarchical paths never collide with the
// parent's while the two trees are disjoint.
type Snapshot struct {
	Root       *model.Object
	origParent map[*model.Object]*model.Object
}

// NewSnapshot detaches each of ports from its current parent and
// re-attaches it under a fresh, uniquely-named scratch System, recording
// each port's original parent for Reintegrate.
func NewSnapshot(ports []*model.Object) (*Snapshot, error) {
	s := &Snapshot{
		Root:       model.NewObject("snap_"+uuid.NewString(), model.KindSystem),
		origParent: make(map[*model.Object]*model.Object, len(ports)),
	}
	for _, p := range ports {
		parent := p.Parent
		if parent == nil {
			continue
		}
		detached, ok := parent.DetachChild(p.Name)
		if !ok {
			continue
		}
		if err := s.Root.AddChild(detached); err != nil {
			return nil, err
		}
		s.origParent[detached] = parent
	}
	return s, nil
}

// Reintegrate moves every object currently under the scratch root back
// into the real tree: objects detached by NewSnapshot return to their
// original parent; objects created during the inner flow (new
// splits/merges/convs/regs/ClockXs spliced into the domain) move to
// newNodeParent instead, since they have no original parent to return
// to (spec.md §4.5 step 9 "new nodes ... moved ... back into the
// parent"). Link and LinkRelations state referencing these Objects needs
// no adjustment: Links hold Endpoint references, and Endpoints are owned
// by their Object regardless of which System currently parents it.
func (s *Snapshot) Reintegrate(newNodeParent *model.Object) error {
	for _, child := range append([]*model.Object(nil), s.Root.Children()...) {
		if _, ok := s.Root.DetachChild(child.Name); !ok {
			continue
		}
		target, ok := s.origParent[child]
		if !ok {
			target = newNodeParent
		}
		if err := target.AddChild(child); err != nil {
			return err
		}
	}
	return nil
}
