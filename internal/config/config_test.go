package config

import (
	"testing"

	"github.com/jonathanscottrose/genie/internal/flow/outer"
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "name": "top",
  "params": {"width": "8"},
  "ports": [
    {"name": "a", "kind": "rs", "roles": [
      {"role": "data", "hdl_port": "a_data", "width": "width"},
      {"role": "ready", "hdl_port": "a_ready"}
    ]},
    {"name": "b", "kind": "rs", "roles": [
      {"role": "data", "hdl_port": "b_data", "width": "width"},
      {"role": "ready", "hdl_port": "b_ready"}
    ]},
    {"name": "c0", "kind": "conduit", "sub_ports": [
      {"name": "x", "roles": [{"role": "out", "hdl_port": "c0_x"}]}
    ]},
    {"name": "c1", "kind": "conduit", "sub_ports": [
      {"name": "x", "roles": [{"role": "in", "hdl_port": "c1_x"}]}
    ]}
  ],
  "logical_links": [{"src": "a", "sink": "b", "src_addr": 1}],
  "conduit_links": [{"src": "c0", "sink": "c1"}]
}`

func TestParseAndBuildRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)
	assert.Equal(t, "top", doc.Name)

	built, err := Build(doc)
	require.NoError(t, err)
	assert.Len(t, built.RSPorts, 2)
	assert.Len(t, built.LogicalLinks, 1)
	assert.Len(t, built.ConduitLinks, 1)
	assert.EqualValues(t, 1, built.LogicalLinks[0].Logical.SrcAddr)
}

func TestBuildConduitSubPortsWiredUnderConduitPort(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)
	built, err := Build(doc)
	require.NoError(t, err)

	found := false
	for obj, subs := range built.ConduitSubPortsOf {
		if obj.Name == "c0" {
			require.Len(t, subs, 1)
			assert.Equal(t, "x", built.ConduitTagOf[subs[0]])
			assert.False(t, built.ConduitIsInput[subs[0]])
			found = true
		}
	}
	assert.True(t, found)
}

func TestBuildUnknownPortReferenceErrors(t *testing.T) {
	doc := &Document{
		Name:         "bad",
		Ports:        []PortDoc{{Name: "a", Kind: "rs"}},
		LogicalLinks: []LogicalLinkDoc{{Src: "a", Sink: "missing"}},
	}
	_, err := Build(doc)
	assert.Error(t, err)
}

func TestBitsOfEvaluatesAgainstSystemParams(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)
	built, err := Build(doc)
	require.NoError(t, err)
	require.NoError(t, outer.ResolveParameters(built.SystemParams, built.NodeParams))

	dataRoles := built.RSPorts[0].Payload.RolesOf(model.RoleData)
	require.Len(t, dataRoles, 1)

	bits, err := built.BitsOf(dataRoles[0].HDL)
	require.NoError(t, err)
	assert.Equal(t, 8, bits)
}
