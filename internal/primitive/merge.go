package primitive

import (
	"fmt"

	"github.com/jonathanscottrose/genie/internal/model"
)

// DefaultMaxInputs is the default tree-ification threshold for Merge
// (spec.md §4.4: "default 4").
const DefaultMaxInputs = 4

// MergePayload is the KindMerge Object.Payload: the number of RS inputs
// and whether every pair of input topo links is mutually exclusive, which
// lets the merge skip its arbiter (spec.md §4.4 "exclusive variant").
type MergePayload struct {
	NumInputs int
	Exclusive bool
}

// NewMerge creates a bare Merge node with numInputs RS inputs
// ("in0".."inN-1") and one RS output ("out"), wired into parent.
func NewMerge(parent *model.Object, name string, numInputs int, exclusive bool) (*model.Object, error) {
	if numInputs < 1 {
		return nil, fmt.Errorf("primitive: merge %q needs at least one input", name)
	}
	n := model.NewObject(name, model.KindMerge)
	n.Payload = &MergePayload{NumInputs: numInputs, Exclusive: exclusive}
	if err := parent.AddChild(n); err != nil {
		return nil, err
	}
	for i := 0; i < numInputs; i++ {
		in := model.NewObject(fmt.Sprintf("in%d", i), model.KindPortRS)
		in.Payload = model.NewPortPayload()
		if err := n.AddChild(in); err != nil {
			return nil, err
		}
	}
	out := model.NewObject("out", model.KindPortRS)
	out.Payload = model.NewPortPayload()
	if err := n.AddChild(out); err != nil {
		return nil, err
	}
	return n, nil
}

// IsExclusive determines whether every logical link on inputLinksA is
// mutually exclusive (same transmission, or an explicit exclusivity
// declaration) with every logical link on inputLinksB, per pair of input
// topo links (spec.md §4.4). exclusiveOf reports whether two logical link
// ids are known to never fire simultaneously.
func IsExclusive(inputGroups [][]model.LinkID, exclusiveOf func(a, b model.LinkID) bool) bool {
	for i := 0; i < len(inputGroups); i++ {
		for j := i + 1; j < len(inputGroups); j++ {
			for _, a := range inputGroups[i] {
				for _, b := range inputGroups[j] {
					if !exclusiveOf(a, b) {
						return false
					}
				}
			}
		}
	}
	return true
}

// TreeifyMerge replaces root's too-wide fan-in with a balanced tree of
// smaller Merges, each with at most maxInputs children (spec.md §4.4: "if
// n > MAX_INPUTS ... tree-ification"). branches are root's existing topo
// links (root is their current Sink object); each is re-homed, keeping its
// LinkID, onto whichever new leaf Merge ends up responsible for it.
// logicalOf(i) names the RS logical link branches[i] realizes (a Merge's
// branches can belong to different logical links, one per fanned-in
// source); every new child->parent edge within the tree, converging up to
// root, is related to every logical link with a branch in its subtree.
//
// It returns the re-homed branches (same order, same LinkIDs, new Link
// pointers) and the newly created internal topo links.
func TreeifyMerge(parent *model.Object, baseName string, root *model.Object, branches []*model.Link, maxInputs int, exclusive bool, nextIndex func() uint64, relations *model.LinkRelations, logicalOf func(int) model.LinkID) (rehomed, internal []*model.Link, err error) {
	if maxInputs < 2 {
		maxInputs = DefaultMaxInputs
	}
	if len(branches) <= maxInputs {
		return branches, nil, nil
	}

	rehomed = append([]*model.Link(nil), branches...)
	counter := 0

	var build func(node *model.Object, idxs []int) error
	build = func(node *model.Object, idxs []int) error {
		if len(idxs) <= maxInputs {
			for _, i := range idxs {
				if rehomed[i], err = rehomeSink(node, rehomed[i]); err != nil {
					return err
				}
			}
			return nil
		}
		for _, g := range balancedGroups(idxs, maxInputs) {
			name := fmt.Sprintf("%s_t%d", baseName, counter)
			counter++
			child, err := NewMerge(parent, name, len(g), exclusive)
			if err != nil {
				return err
			}
			link, err := model.NewLink(model.NetTopo, nextIndex(), child.Endpoint(model.NetTopo, model.DirOut), node.Endpoint(model.NetTopo, model.DirIn))
			if err != nil {
				return err
			}
			for _, lid := range distinctLogical(g, logicalOf) {
				relations.AddRelation(lid, link.ID)
			}
			internal = append(internal, link)
			if err := build(child, g); err != nil {
				return err
			}
		}
		return nil
	}

	idxs := make([]int, len(branches))
	for i := range idxs {
		idxs[i] = i
	}
	if err := build(root, idxs); err != nil {
		return nil, nil, err
	}
	return rehomed, internal, nil
}

// rehomeSink re-creates l with the same LinkID but sink's input endpoint
// as its new destination.
func rehomeSink(sink *model.Object, l *model.Link) (*model.Link, error) {
	src := l.Src
	idx := l.ID.Index
	l.Destroy()
	return model.NewLink(model.NetTopo, idx, src, sink.Endpoint(model.NetTopo, model.DirIn))
}
