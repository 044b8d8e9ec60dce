package primitive

import (
	"fmt"

	"github.com/jonathanscottrose/genie/internal/model"
)

// DefaultMaxOutputs is the default tree-ification threshold for Split
// (spec.md §4.4: "tech-dependent, default 18").
const DefaultMaxOutputs = 18

// SplitPayload is the KindSplit Object.Payload: the number of RS outputs
// and whether the domain's split-rep for it has at most one address bin,
// so no upstream converter is inserted.
type SplitPayload struct {
	NumOutputs  int
	PureUnicast bool // true once the split-rep has a single bin
}

// NewSplit creates a bare Split node with one RS input ("in") and
// numOutputs RS outputs ("out0".."outN-1"), wired into parent.
func NewSplit(parent *model.Object, name string, numOutputs int) (*model.Object, error) {
	if numOutputs < 1 {
		return nil, fmt.Errorf("primitive: split %q needs at least one output", name)
	}
	n := model.NewObject(name, model.KindSplit)
	n.Payload = &SplitPayload{NumOutputs: numOutputs}
	if err := parent.AddChild(n); err != nil {
		return nil, err
	}
	in := model.NewObject("in", model.KindPortRS)
	in.Payload = model.NewPortPayload()
	if err := n.AddChild(in); err != nil {
		return nil, err
	}
	for i := 0; i < numOutputs; i++ {
		out := model.NewObject(fmt.Sprintf("out%d", i), model.KindPortRS)
		out.Payload = model.NewPortPayload()
		if err := n.AddChild(out); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// Treeify replaces root's too-wide fan-out with a balanced tree of smaller
// Splits, each with at most maxOutputs children (spec.md §4.4: "if n >
// MAX_OUTPUTS ... recursively decomposed into a balanced tree"). branches
// are root's existing topo links (root is their current Src object); each
// is re-homed, keeping its LinkID, onto whichever new leaf Split ends up
// responsible for it. logicalOf(i) names the RS logical link branches[i]
// realizes (a Split's branches can belong to different logical links, one
// per fanned-out sink); every new parent->child edge within the tree is
// related to every logical link with a branch in its subtree.
//
// It returns the re-homed branches (same order, same LinkIDs, new Link
// pointers) and the newly created internal topo links, which the caller
// must fold into its own topo-link bookkeeping.
func Treeify(parent *model.Object, baseName string, root *model.Object, branches []*model.Link, maxOutputs int, nextIndex func() uint64, relations *model.LinkRelations, logicalOf func(int) model.LinkID) (rehomed, internal []*model.Link, err error) {
	if maxOutputs < 2 {
		maxOutputs = DefaultMaxOutputs
	}
	if len(branches) <= maxOutputs {
		return branches, nil, nil
	}

	rehomed = append([]*model.Link(nil), branches...)
	counter := 0

	var build func(node *model.Object, idxs []int) error
	build = func(node *model.Object, idxs []int) error {
		if len(idxs) <= maxOutputs {
			for _, i := range idxs {
				if rehomed[i], err = rehomeSrc(node, rehomed[i]); err != nil {
					return err
				}
			}
			return nil
		}
		for _, g := range balancedGroups(idxs, maxOutputs) {
			name := fmt.Sprintf("%s_t%d", baseName, counter)
			counter++
			child, err := NewSplit(parent, name, len(g))
			if err != nil {
				return err
			}
			link, err := model.NewLink(model.NetTopo, nextIndex(), node.Endpoint(model.NetTopo, model.DirOut), child.Endpoint(model.NetTopo, model.DirIn))
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

// distinctLogical returns the distinct logical link ids covering idxs, in
// first-seen order (spec.md §5).
func distinctLogical(idxs []int, logicalOf func(int) model.LinkID) []model.LinkID {
	seen := make(map[model.LinkID]bool, len(idxs))
	var out []model.LinkID
	for _, i := range idxs {
		lid := logicalOf(i)
		if !seen[lid] {
			seen[lid] = true
			out = append(out, lid)
		}
	}
	return out
}

// rehomeSrc re-creates l with the same LinkID (so any LinkRelations edge
// already recorded against it stays valid) but src's output endpoint as
// its new source.
func rehomeSrc(src *model.Object, l *model.Link) (*model.Link, error) {
	sink := l.Sink
	idx := l.ID.Index
	l.Destroy()
	return model.NewLink(model.NetTopo, idx, src.Endpoint(model.NetTopo, model.DirOut), sink)
}

// balancedGroups splits idxs into at most maxGroups contiguous,
// as-equal-as-possible runs, preserving relative order (spec.md §5).
func balancedGroups(idxs []int, maxGroups int) [][]int {
	n := len(idxs)
	base := n / maxGroups
	rem := n % maxGroups
	var groups [][]int
	pos := 0
	for i := 0; i < maxGroups; i++ {
		share := base
		if i < rem {
			share++
		}
		if share == 0 {
			continue
		}
		groups = append(groups, idxs[pos:pos+share])
		pos += share
	}
	return groups
}
