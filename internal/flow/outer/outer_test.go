package outer

import (
	"testing"

	"github.com/jonathanscottrose/genie/internal/expr"
	"github.com/jonathanscottrose/genie/internal/graph"
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveParametersChainsNodeToSystem(t *testing.T) {
	sys := &NodeParams{Exprs: map[string]*expr.Expr{"width": expr.MustCompile("8")}}
	node := &NodeParams{Exprs: map[string]*expr.Expr{"bytes": expr.MustCompile("width / 8")}}
	nodes := map[*model.Object]*NodeParams{model.NewObject("n", model.KindModule): node}

	require.NoError(t, ResolveParameters(sys, nodes))
	assert.EqualValues(t, 8, sys.Resolved["width"])
	assert.EqualValues(t, 1, node.Resolved["bytes"])
}

func TestInitUserPortProtocolMapsRoles(t *testing.T) {
	port := model.NewObject("p", model.KindPortRS)
	payload := model.NewPortPayload()
	payload.AddRole(model.RoleAddress, "addr", model.HDLBinding{Width: expr.Const(4)})
	payload.AddRole(model.RoleReady, "", model.HDLBinding{})
	port.Payload = payload

	bp, err := InitUserPortProtocol(port, func(h model.HDLBinding) (int, error) {
		v, err := h.Width.Eval(expr.MapEnv{})
		return int(v), err
	})
	require.NoError(t, err)
	assert.True(t, bp)
}

func TestAssignRSDomainsGroupsConnectedPorts(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	a := model.NewObject("a", model.KindPortRS)
	b := model.NewObject("b", model.KindPortRS)
	c := model.NewObject("c", model.KindPortRS)
	require.NoError(t, sys.AddChild(a))
	require.NoError(t, sys.AddChild(b))
	require.NoError(t, sys.AddChild(c))

	l, err := model.NewLink(model.NetRSLogical, 0, a.Endpoint(model.NetRSLogical, model.DirOut), b.Endpoint(model.NetRSLogical, model.DirIn))
	require.NoError(t, err)

	portDomain, linkDomain := AssignRSDomains([]*model.Object{a, b, c}, []*model.Link{l})
	assert.Equal(t, portDomain[a], portDomain[b])
	assert.NotEqual(t, portDomain[a], portDomain[c])
	assert.Equal(t, portDomain[a], linkDomain[l])
}

func TestCreateTransmissionsBinsBySourceAndAddress(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	a := model.NewObject("a", model.KindPortRS)
	b := model.NewObject("b", model.KindPortRS)
	c := model.NewObject("c", model.KindPortRS)
	require.NoError(t, sys.AddChild(a))
	require.NoError(t, sys.AddChild(b))
	require.NoError(t, sys.AddChild(c))

	l1, err := model.NewLink(model.NetRSLogical, 0, a.Endpoint(model.NetRSLogical, model.DirOut), b.Endpoint(model.NetRSLogical, model.DirIn))
	require.NoError(t, err)
	l2, err := model.NewLink(model.NetRSLogical, 1, a.Endpoint(model.NetRSLogical, model.DirOut), c.Endpoint(model.NetRSLogical, model.DirIn))
	require.NoError(t, err)

	txs := CreateTransmissions([]*model.Link{l1, l2}, func(*model.Link) int { return 0 })
	require.Len(t, txs, 1)
	assert.ElementsMatch(t, []*model.Link{l1, l2}, txs[0].Links)
}

func TestGatherAndBuildCrossbarIsDeterministicAcrossRuns(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	src := model.NewObject("src", model.KindPortRS)
	sinkA := model.NewObject("sinkA", model.KindPortRS)
	sinkB := model.NewObject("sinkB", model.KindPortRS)
	require.NoError(t, sys.AddChild(src))
	require.NoError(t, sys.AddChild(sinkA))
	require.NoError(t, sys.AddChild(sinkB))

	l1, err := model.NewLink(model.NetRSLogical, 0, src.Endpoint(model.NetRSLogical, model.DirOut), sinkA.Endpoint(model.NetRSLogical, model.DirIn))
	require.NoError(t, err)
	l2, err := model.NewLink(model.NetRSLogical, 1, src.Endpoint(model.NetRSLogical, model.DirOut), sinkB.Endpoint(model.NetRSLogical, model.DirIn))
	require.NoError(t, err)

	notConnected := func(*model.Object) bool { return false }

	var firstNames []string
	for i := 0; i < 5; i++ {
		crossbarParent := model.NewObject("top", model.KindSystem)
		c, err := GatherCrossbar([]*model.Link{l1, l2}, notConnected)
		require.NoError(t, err)
		splitHead, _, err := BuildCrossbar(crossbarParent, c, false)
		require.NoError(t, err)
		require.Contains(t, splitHead, src)
		if i == 0 {
			firstNames = append(firstNames, splitHead[src].Name)
		} else {
			assert.Equal(t, firstNames[0], splitHead[src].Name)
		}
	}
}

func TestGatherCrossbarErrorsOnPartialManualTopo(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	src := model.NewObject("src", model.KindPortRS)
	sink := model.NewObject("sink", model.KindPortRS)
	require.NoError(t, sys.AddChild(src))
	require.NoError(t, sys.AddChild(sink))

	l, err := model.NewLink(model.NetRSLogical, 0, src.Endpoint(model.NetRSLogical, model.DirOut), sink.Endpoint(model.NetRSLogical, model.DirIn))
	require.NoError(t, err)

	connected := func(o *model.Object) bool { return o == src }
	_, err = GatherCrossbar([]*model.Link{l}, connected)
	assert.Error(t, err)
}

func TestRouteLogicalLinksRecordsContainmentAlongShortestPath(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	a := model.NewObject("a", model.KindPortRS)
	mid := model.NewObject("mid", model.KindModule)
	b := model.NewObject("b", model.KindPortRS)
	require.NoError(t, sys.AddChild(a))
	require.NoError(t, sys.AddChild(mid))
	require.NoError(t, sys.AddChild(b))

	logical, err := model.NewLink(model.NetRSLogical, 0, a.Endpoint(model.NetRSLogical, model.DirOut), b.Endpoint(model.NetRSLogical, model.DirIn))
	require.NoError(t, err)

	t1, err := model.NewLink(model.NetTopo, 0, a.Endpoint(model.NetTopo, model.DirOut), mid.Endpoint(model.NetTopo, model.DirIn))
	require.NoError(t, err)
	t2, err := model.NewLink(model.NetTopo, 1, mid.Endpoint(model.NetTopo, model.DirOut), b.Endpoint(model.NetTopo, model.DirIn))
	require.NoError(t, err)

	g := graph.New()
	vA, vMid, vB := g.NewVertex(), g.NewVertex(), g.NewVertex()
	e1 := g.NewEdge(vA, vMid)
	e2 := g.NewEdge(vMid, vB)
	vertexOf := map[*model.Object]graph.VertexID{a: vA, mid: vMid, b: vB}
	edgeLink := map[graph.EdgeID]*model.Link{e1: t1, e2: t2}

	relations := model.NewLinkRelations()
	err = RouteLogicalLinks(g,
		func(o *model.Object) (graph.VertexID, bool) { v, ok := vertexOf[o]; return v, ok },
		func(e graph.EdgeID) *model.Link { return edgeLink[e] },
		[]*model.Link{logical}, relations, nil)
	require.NoError(t, err)

	children := relations.Children(logical.ID, model.NetTopo, true)
	assert.ElementsMatch(t, []model.LinkID{t1.ID, t2.ID}, children)
}

func TestConnectConduitLinksMatchesByTagAndWarnsOnMissing(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	src := model.NewObject("src", model.KindPortConduit)
	sink := model.NewObject("sink", model.KindPortConduit)
	require.NoError(t, sys.AddChild(src))
	require.NoError(t, sys.AddChild(sink))

	srcA := model.NewObject("srcA", model.KindPortConduit)
	sinkA := model.NewObject("sinkA", model.KindPortConduit)
	sinkB := model.NewObject("sinkB", model.KindPortConduit)
	require.NoError(t, src.AddChild(srcA))
	require.NoError(t, sink.AddChild(sinkA))
	require.NoError(t, sink.AddChild(sinkB))

	tag := map[*model.Object]string{srcA: "a", sinkA: "a", sinkB: "b"}

	l, err := model.NewLink(model.NetConduit, 0, src.Endpoint(model.NetConduit, model.DirOut), sink.Endpoint(model.NetConduit, model.DirIn))
	require.NoError(t, err)

	idx := uint64(0)
	created, warnings, err := ConnectConduitLinks([]*model.Link{l},
		func(o *model.Object) []*model.Object {
			if o == src {
				return []*model.Object{srcA}
			}
			return []*model.Object{sinkA, sinkB}
		},
		func(o *model.Object) string { return tag[o] },
		func(*model.Object) bool { return false },
		func() uint64 { idx++; return idx - 1 })
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.Len(t, warnings, 1)
	assert.Equal(t, "b", warnings[0].Tag)
}

func TestSnapshotDetachesAndReintegrateRestoresOriginalParent(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	a := model.NewObject("a", model.KindPortRS)
	require.NoError(t, sys.AddChild(a))

	snap, err := NewSnapshot([]*model.Object{a})
	require.NoError(t, err)
	_, stillThere := sys.Child("a")
	assert.False(t, stillThere)
	_, inSnap := snap.Root.Child("a")
	assert.True(t, inSnap)

	newNode := model.NewObject("spl0", model.KindSplit)
	require.NoError(t, snap.Root.AddChild(newNode))

	require.NoError(t, snap.Reintegrate(sys))
	_, backInSys := sys.Child("a")
	assert.True(t, backInSys)
	_, newNodeInSys := sys.Child("spl0")
	assert.True(t, newNodeInSys)
	assert.Empty(t, snap.Root.Children())
}
