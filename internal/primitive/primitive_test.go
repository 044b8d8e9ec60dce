package primitive

import (
	"fmt"
	"testing"

	"github.com/jonathanscottrose/genie/internal/address"
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSplitCreatesOnePortPerOutput(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	split, err := NewSplit(sys, "spl", 3)
	require.NoError(t, err)
	assert.Len(t, split.ChildrenByKind(model.KindPortRS), 4) // 1 in + 3 out
}

// splitWithBranches creates a Split "spl" under sys with n outputs and one
// topo link from it to each of n sink modules.
func splitWithBranches(t *testing.T, sys *model.Object, n int, next func() uint64) (*model.Object, []*model.Link) {
	root, err := NewSplit(sys, "spl", n)
	require.NoError(t, err)
	var branches []*model.Link
	for i := 0; i < n; i++ {
		sink := model.NewObject(fmt.Sprintf("k%d", i), model.KindModule)
		require.NoError(t, sys.AddChild(sink))
		l, err := model.NewLink(model.NetTopo, next(), root.Endpoint(model.NetTopo, model.DirOut), sink.Endpoint(model.NetTopo, model.DirIn))
		require.NoError(t, err)
		branches = append(branches, l)
	}
	return root, branches
}

func TestTreeifySplitStaysFlatUnderThreshold(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	rel := model.NewLinkRelations()
	var idx uint64
	next := func() uint64 { idx++; return idx }
	root, branches := splitWithBranches(t, sys, 5, next)
	logicalOf := func(int) model.LinkID { return model.LinkID{Net: model.NetRSLogical} }
	_, _, err := Treeify(sys, "spl", root, branches, DefaultMaxOutputs, next, rel, logicalOf)
	require.NoError(t, err)
	payload := root.Payload.(*SplitPayload)
	assert.Equal(t, 5, payload.NumOutputs)
}

func TestTreeifySplitDecomposesOverThreshold(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	rel := model.NewLinkRelations()
	var idx uint64
	next := func() uint64 { idx++; return idx }
	logical := model.LinkID{Net: model.NetRSLogical, Index: 0}
	root, branches := splitWithBranches(t, sys, 40, next)
	_, _, err := Treeify(sys, "spl", root, branches, 18, next, rel, func(int) model.LinkID { return logical })
	require.NoError(t, err)
	assert.LessOrEqual(t, len(root.Endpoint(model.NetTopo, model.DirOut).Links()), 18)
	assert.NotEmpty(t, rel.Descendants(logical, model.NetTopo))
}

func TestMergeExclusiveDetection(t *testing.T) {
	a := model.LinkID{Net: model.NetRSLogical, Index: 0}
	b := model.LinkID{Net: model.NetRSLogical, Index: 1}
	c := model.LinkID{Net: model.NetRSLogical, Index: 2}
	groups := [][]model.LinkID{{a}, {b}, {c}}
	exclusive := func(x, y model.LinkID) bool { return true }
	assert.True(t, IsExclusive(groups, exclusive))

	notExclusive := func(x, y model.LinkID) bool { return x != b }
	assert.False(t, IsExclusive(groups, notExclusive))
}

func TestConvBuildsTableFromExemplars(t *testing.T) {
	inRep := address.BuildCanonical(3)
	outRep := address.New()
	outRep.Insert(0, 7)
	outRep.Insert(1, 12)
	outRep.Insert(2, 19)

	sys := model.NewObject("sys", model.KindSystem)
	conv, err := NewConv(sys, "conv0", "domain_xmis", "user_addr", inRep, outRep)
	require.NoError(t, err)
	payload := conv.Payload.(*ConvPayload)
	out0, ok := payload.Lookup(0)
	require.True(t, ok)
	assert.EqualValues(t, 7, out0)
}

func TestSingleBinSkipsConverter(t *testing.T) {
	rep := address.New()
	rep.Insert(0, 0)
	rep.Insert(1, 0)
	assert.True(t, SingleBin(rep))
}

func TestPreferMDelayUsesArchDivisor(t *testing.T) {
	db := NewDatabase()
	db.Table("mdelay").AddRow(32, AreaMetrics{MemALM: 10}, nil)
	prefer, err := PreferMDelay(db, 8, 4) // width*cycles = 32
	require.NoError(t, err)
	// reg chain cost = 8*4=32 regs; memCost(10) < 32/2(16) -> true
	assert.True(t, prefer)
}

func TestNewClockXHasTwoClockPortsAndDefaultLatency(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	cx, err := NewClockX(sys, "cx0", 8)
	require.NoError(t, err)
	assert.Len(t, cx.ChildrenByKind(model.KindPortClock), 2)
	payload := cx.Payload.(*ClockXPayload)
	assert.Equal(t, DefaultClockXLatency, payload.Latency)
}
