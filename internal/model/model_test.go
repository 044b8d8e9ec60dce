package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChildRejectsDuplicateNames(t *testing.T) {
	sys := NewObject("sys", KindSystem)
	a := NewObject("mod_a", KindModule)
	require.NoError(t, sys.AddChild(a))

	dup := NewObject("mod_a", KindModule)
	err := sys.AddChild(dup)
	assert.Error(t, err)
}

func TestHierPathJoinsAncestorNames(t *testing.T) {
	sys := NewObject("top", KindSystem)
	mod := NewObject("inner", KindModule)
	require.NoError(t, sys.AddChild(mod))
	port := NewObject("p", KindPortRS)
	require.NoError(t, mod.AddChild(port))

	assert.Equal(t, "top.inner.p", port.HierPath())
}

func TestChildrenPreserveInsertionOrder(t *testing.T) {
	sys := NewObject("sys", KindSystem)
	names := []string{"c", "a", "b"}
	for _, n := range names {
		require.NoError(t, sys.AddChild(NewObject(n, KindModule)))
	}
	var got []string
	for _, c := range sys.Children() {
		got = append(got, c.Name)
	}
	assert.Equal(t, names, got)
}

func TestEndpointCreatedLazilyAndCached(t *testing.T) {
	obj := NewObject("n", KindModule)
	assert.False(t, obj.HasEndpoint(NetRSLogical, DirOut))
	ep1 := obj.Endpoint(NetRSLogical, DirOut)
	ep2 := obj.Endpoint(NetRSLogical, DirOut)
	assert.Same(t, ep1, ep2)
	assert.True(t, obj.HasEndpoint(NetRSLogical, DirOut))
}

func TestNewLinkRejectsNetworkMismatch(t *testing.T) {
	a := NewObject("a", KindModule)
	b := NewObject("b", KindModule)
	src := a.Endpoint(NetRSLogical, DirOut)
	sink := b.Endpoint(NetTopo, DirIn)
	_, err := NewLink(NetRSLogical, 0, src, sink)
	assert.Error(t, err)
}

func TestNewLinkRejectsDirectionMismatch(t *testing.T) {
	a := NewObject("a", KindModule)
	b := NewObject("b", KindModule)
	src := a.Endpoint(NetRSLogical, DirIn)
	sink := b.Endpoint(NetRSLogical, DirIn)
	_, err := NewLink(NetRSLogical, 0, src, sink)
	assert.Error(t, err)
}

func TestNewLinkRespectsEndpointCap(t *testing.T) {
	a := NewObject("a", KindModule)
	b := NewObject("b", KindModule)
	c := NewObject("c", KindModule)
	src := a.Endpoint(NetRSPhys, DirOut) // cap 1
	sinkB := b.Endpoint(NetRSPhys, DirIn)
	sinkC := c.Endpoint(NetRSPhys, DirIn)

	_, err := NewLink(NetRSPhys, 0, src, sinkB)
	require.NoError(t, err)
	_, err = NewLink(NetRSPhys, 1, src, sinkC)
	assert.Error(t, err)
}

func TestLinkDestroyDetachesFromBothEndpoints(t *testing.T) {
	a := NewObject("a", KindModule)
	b := NewObject("b", KindModule)
	src := a.Endpoint(NetRSLogical, DirOut)
	sink := b.Endpoint(NetRSLogical, DirIn)
	l, err := NewLink(NetRSLogical, 0, src, sink)
	require.NoError(t, err)
	require.Len(t, src.Links(), 1)

	l.Destroy()
	assert.Empty(t, src.Links())
	assert.Empty(t, sink.Links())
}

func TestRemoveChildDestroysDescendantsAndLinks(t *testing.T) {
	sys := NewObject("sys", KindSystem)
	modA := NewObject("a", KindModule)
	modB := NewObject("b", KindModule)
	require.NoError(t, sys.AddChild(modA))
	require.NoError(t, sys.AddChild(modB))

	src := modA.Endpoint(NetRSLogical, DirOut)
	sink := modB.Endpoint(NetRSLogical, DirIn)
	l, err := NewLink(NetRSLogical, 0, src, sink)
	require.NoError(t, err)

	sys.RemoveChild("a")
	_, ok := sys.Child("a")
	assert.False(t, ok)
	assert.Empty(t, sink.Links())
	_ = l
}

func TestLinkRelationsDescendantsAndAncestors(t *testing.T) {
	r := NewLinkRelations()
	logical := LinkID{Net: NetRSLogical, Index: 0}
	topo1 := LinkID{Net: NetTopo, Index: 0}
	topo2 := LinkID{Net: NetTopo, Index: 1}
	phys1 := LinkID{Net: NetRSPhys, Index: 0}

	r.AddRelation(logical, topo1)
	r.AddRelation(logical, topo2)
	r.AddRelation(topo1, phys1)

	desc := r.Descendants(logical, NetTopo)
	assert.ElementsMatch(t, []LinkID{topo1, topo2}, desc)

	descPhys := r.Descendants(logical, NetRSPhys)
	assert.ElementsMatch(t, []LinkID{phys1}, descPhys)

	anc := r.Ancestors(phys1, NetRSLogical)
	assert.ElementsMatch(t, []LinkID{logical}, anc)
}

func TestLinkRelationsForgetRemovesVertex(t *testing.T) {
	r := NewLinkRelations()
	parent := LinkID{Net: NetRSLogical, Index: 0}
	child := LinkID{Net: NetTopo, Index: 0}
	r.AddRelation(parent, child)
	r.Forget(child)
	assert.Empty(t, r.Descendants(parent, NetTopo))
}

func TestPortPayloadRolesOfPreservesOrder(t *testing.T) {
	p := NewPortPayload()
	p.AddRole(RoleValid, "", HDLBinding{PortName: "valid"})
	p.AddRole(RoleDataBundle, "addr", HDLBinding{PortName: "data"})
	p.AddRole(RoleDataBundle, "payload", HDLBinding{PortName: "data"})

	bundles := p.RolesOf(RoleDataBundle)
	require.Len(t, bundles, 2)
	assert.Equal(t, "addr", bundles[0].Tag)
	assert.Equal(t, "payload", bundles[1].Tag)
}
