package inner

import (
	"testing"

	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAssignClockDomainsDistinguishesSrcAndSinkDrivers(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	clkA := model.NewObject("clkA", model.KindPortClock)
	clkB := model.NewObject("clkB", model.KindPortClock)
	a := model.NewObject("a", model.KindPortRS)
	b := model.NewObject("b", model.KindPortRS)
	require.NoError(t, sys.AddChild(clkA))
	require.NoError(t, sys.AddChild(clkB))
	require.NoError(t, sys.AddChild(a))
	require.NoError(t, sys.AddChild(b))

	_, err := model.NewLink(model.NetClock, 0, clkA.Endpoint(model.NetClock, model.DirOut), a.Endpoint(model.NetClock, model.DirIn))
	require.NoError(t, err)
	_, err = model.NewLink(model.NetClock, 1, clkB.Endpoint(model.NetClock, model.DirOut), b.Endpoint(model.NetClock, model.DirIn))
	require.NoError(t, err)

	phys, err := model.NewLink(model.NetRSPhys, 0, a.Endpoint(model.NetRSPhys, model.DirOut), b.Endpoint(model.NetRSPhys, model.DirIn))
	require.NoError(t, err)

	clockKeyOf := func(obj *model.Object) (bool, any) {
		if obj.HasEndpoint(model.NetClock, model.DirIn) {
			if l := obj.Endpoint(model.NetClock, model.DirIn).Link0(); l != nil {
				return true, l.SrcObject()
			}
		}
		return false, obj
	}
	assignment := AssignClockDomains([]*model.Link{phys}, clockKeyOf)
	require.NotNil(t, assignment)
	_, aKey := clockKeyOf(a)
	_, bKey := clockKeyOf(b)
	assert.NotEqual(t, aKey, bKey)
	assert.Contains(t, assignment, bKey)
}

func TestRunEndToEndSingleDomainSmokeTest(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	clk := model.NewObject("clk", model.KindPortClock)
	require.NoError(t, sys.AddChild(clk))

	a := model.NewObject("a", model.KindPortRS)
	b := model.NewObject("b", model.KindPortRS)
	require.NoError(t, sys.AddChild(a))
	require.NoError(t, sys.AddChild(b))
	a.Payload = model.NewPortPayload()
	b.Payload = model.NewPortPayload()

	_, err := model.NewLink(model.NetClock, 0, clk.Endpoint(model.NetClock, model.DirOut), a.Endpoint(model.NetClock, model.DirIn))
	require.NoError(t, err)
	_, err = model.NewLink(model.NetClock, 1, clk.Endpoint(model.NetClock, model.DirOut), b.Endpoint(model.NetClock, model.DirIn))
	require.NoError(t, err)

	logical, err := model.NewLink(model.NetRSLogical, 0, a.Endpoint(model.NetRSLogical, model.DirOut), b.Endpoint(model.NetRSLogical, model.DirIn))
	require.NoError(t, err)

	relations := model.NewLinkRelations()
	d := NewDomain(0, sys, relations)
	d.Ports = []*model.Object{a, b}
	d.Logical = []*model.Link{logical}

	topo, err := model.NewLink(model.NetTopo, 0, a.Endpoint(model.NetTopo, model.DirOut), b.Endpoint(model.NetTopo, model.DirIn))
	require.NoError(t, err)
	d.AddTopoLink(topo)
	relations.AddRelation(logical.ID, topo.ID)

	txs := []TransmissionInfo{{XmisID: 0}}
	log := zap.NewNop()
	require.NoError(t, d.Run(log, Options{}, nil, txs))

	require.Len(t, d.Phys, 1)
	assert.Equal(t, 0, d.Phys[0].Phys.Latency)
}
