package hdl

import (
	"testing"

	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModulePortsAddPreservesOrderAndOverwritesInPlace(t *testing.T) {
	mp := NewModulePorts()
	mp.Add(Port{Name: "clk", Dir: DirInput})
	mp.Add(Port{Name: "data", Dir: DirInput})
	mp.Add(Port{Name: "clk", Dir: DirInput}) // re-add, same position

	ports := mp.Ports()
	require.Len(t, ports, 2)
	assert.Equal(t, "clk", ports[0].Name)
	assert.Equal(t, "data", ports[1].Name)
}

func dataField(tag string, width int) protocol.Field {
	return protocol.Field{Type: protocol.FieldUserData, Tag: tag, Domain: protocol.NoDomain, Width: width}
}

func TestElaborateRSTiesConstantWhenSinkHasConst(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	src := model.NewObject("a", model.KindPortRS)
	sink := model.NewObject("b", model.KindPortRS)
	require.NoError(t, sys.AddChild(src))
	require.NoError(t, sys.AddChild(sink))

	srcPayload := model.NewPortPayload()
	srcPayload.Protocol = protocol.NewPortProtocol()
	src.Payload = srcPayload

	sinkPayload := model.NewPortPayload()
	sinkProto := protocol.NewPortProtocol()
	f := dataField("d", 8)
	sinkProto.AddTerminalField(f, "data")
	sinkProto.SetConst(f, 42)
	sinkPayload.Protocol = sinkProto
	sink.Payload = sinkPayload

	srcEp := src.Endpoint(model.NetRSPhys, model.DirOut)
	sinkEp := sink.Endpoint(model.NetRSPhys, model.DirIn)
	l, err := model.NewLink(model.NetRSPhys, 0, srcEp, sinkEp)
	require.NoError(t, err)

	st, err := Elaborate(sys, []*model.Link{l})
	require.NoError(t, err)
	found := false
	for _, a := range st.Nets.Assignments() {
		if a.IsConst && a.Constant == 42 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestElaborateRSErrorsWhenSinkFieldUnsuppliable(t *testing.T) {
	sys := model.NewObject("sys", model.KindSystem)
	src := model.NewObject("a", model.KindPortRS)
	sink := model.NewObject("b", model.KindPortRS)
	require.NoError(t, sys.AddChild(src))
	require.NoError(t, sys.AddChild(sink))

	srcPayload := model.NewPortPayload()
	srcPayload.Protocol = protocol.NewPortProtocol()
	src.Payload = srcPayload

	sinkPayload := model.NewPortPayload()
	sinkProto := protocol.NewPortProtocol()
	sinkProto.AddTerminalField(dataField("missing", 8), "data")
	sinkPayload.Protocol = sinkProto
	sink.Payload = sinkPayload

	srcEp := src.Endpoint(model.NetRSPhys, model.DirOut)
	sinkEp := sink.Endpoint(model.NetRSPhys, model.DirIn)
	l, err := model.NewLink(model.NetRSPhys, 0, srcEp, sinkEp)
	require.NoError(t, err)

	_, err = Elaborate(sys, []*model.Link{l})
	assert.Error(t, err)
}
