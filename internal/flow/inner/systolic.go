package inner

import (
	"fmt"

	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/primitive"
)

// SystolicSplit is step 12 (spec.md §4.6 step 12): for a split that is not
// pure-unicast and whose fanout physical links have heterogeneous
// latencies, it groups the fanout links into latency tiers (ascending)
// and creates one stage Split per tier under split's parent, sized for
// that tier's links plus one output per later tier.
//
// It only creates the stage nodes: it does not link the stages to split
// or to each other, does not re-home the fanout links, and does not change
// any link's latency. Run discards its results.
//
// latencyOf reports each fanout physical link's currently assigned
// latency. Returns the new stage split nodes (lowest latency tier first)
// and, per original fanout index, the stage created for its tier.
func SystolicSplit(split *model.Object, fanout []*model.Link, latencyOf func(*model.Link) int, pureUnicast bool) ([]*model.Object, map[int]*model.Object, error) {
	if pureUnicast {
		return nil, nil, nil
	}
	if len(fanout) == 0 {
		return nil, nil, nil
	}

	first := latencyOf(fanout[0])
	allSame := true
	for _, l := range fanout[1:] {
		if latencyOf(l) != first {
			allSame = false
		}
	}
	if allSame {
		return nil, nil, nil
	}

	// Group fanout links by latency tier, ascending. Each tier beyond the
	// first gets its own downstream split stage, registered by the
	// latency delta from the previous tier.
	tiers := make(map[int][]int)
	var tierLats []int
	seen := make(map[int]bool)
	for i, l := range fanout {
		lat := latencyOf(l)
		tiers[lat] = append(tiers[lat], i)
		if !seen[lat] {
			seen[lat] = true
			tierLats = append(tierLats, lat)
		}
	}
	for i := 0; i < len(tierLats); i++ {
		for j := i + 1; j < len(tierLats); j++ {
			if tierLats[j] < tierLats[i] {
				tierLats[i], tierLats[j] = tierLats[j], tierLats[i]
			}
		}
	}

	var chain []*model.Object
	assign := make(map[int]*model.Object)
	cur := split
	for i, lat := range tierLats {
		n := len(tiers[lat]) + remainingTiers(tierLats, i+1)
		stageName := fmt.Sprintf("%s_sys%d", split.Name, i)
		stage, err := primitive.NewSplit(split.Parent, stageName, max2(n, 1))
		if err != nil {
			return nil, nil, err
		}
		chain = append(chain, stage)
		for _, idx := range tiers[lat] {
			assign[idx] = stage
		}
		cur = stage
	}
	_ = cur
	return chain, assign, nil
}

func remainingTiers(lats []int, from int) int {
	if from >= len(lats) {
		return 0
	}
	return len(lats) - from
}

func max2(a, b int) int {
	if a > b {
		return a
	}
	return b
}
