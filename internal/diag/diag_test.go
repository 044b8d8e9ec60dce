package diag

import (
	"testing"

	"github.com/jonathanscottrose/genie/internal/hdl"
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/primitive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDotGroupsByNetworkAndQuotesPaths(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	a := model.NewObject("a", model.KindPortRS)
	b := model.NewObject("b", model.KindPortRS)
	require.NoError(t, sys.AddChild(a))
	require.NoError(t, sys.AddChild(b))

	l, err := model.NewLink(model.NetRSLogical, 0, a.Endpoint(model.NetRSLogical, model.DirOut), b.Endpoint(model.NetRSLogical, model.DirIn))
	require.NoError(t, err)

	out := Dot("top system", []*model.Link{l})
	assert.Contains(t, out, "digraph top_system")
	assert.Contains(t, out, `"sys.a" -> "sys.b";`)
}

func TestAreaFormatsCountsForEveryPortedModule(t *testing.T) {
	m := model.NewObject("m", model.KindModule)
	st := &hdl.State{Ports: map[*model.Object]*hdl.ModulePorts{m: hdl.NewModulePorts()}}

	out := Area(st, func(o *model.Object) (primitive.AreaMetrics, bool) {
		return primitive.AreaMetrics{LUT: 1234, Reg: 10}, true
	})
	assert.Contains(t, out, "m")
	assert.Contains(t, out, "1,234")
}

func TestAreaSkipsModulesWithoutAreaData(t *testing.T) {
	m := model.NewObject("m", model.KindModule)
	st := &hdl.State{Ports: map[*model.Object]*hdl.ModulePorts{m: hdl.NewModulePorts()}}

	out := Area(st, func(o *model.Object) (primitive.AreaMetrics, bool) { return primitive.AreaMetrics{}, false })
	assert.Empty(t, out)
}
