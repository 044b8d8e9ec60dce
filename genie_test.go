package genie

import (
	"testing"

	"github.com/jonathanscottrose/genie/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoPortSystem = `{
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
    ]}
  ],
  "logical_links": [{"src": "a", "sink": "b"}]
}`

func TestCompileEndToEndSinglePointToPointDomain(t *testing.T) {
	doc, err := config.Parse([]byte(twoPortSystem))
	require.NoError(t, err)
	built, err := config.Build(doc)
	require.NoError(t, err)

	sys := &System{
		Root:         built.Root,
		SystemParams: built.SystemParams,
		NodeParams:   built.NodeParams,
		RSPorts:      built.RSPorts,
		ConduitLinks: built.ConduitLinks,
		LogicalLinks: built.LogicalLinks,
		BitsOf:       built.BitsOf,
	}

	res, err := Compile(sys, DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Domains)
	assert.NotNil(t, res.HDL)
}
