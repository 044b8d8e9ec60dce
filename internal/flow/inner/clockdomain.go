package inner

import (
	"github.com/jonathanscottrose/genie/internal/graph"
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/primitive"
	"github.com/jonathanscottrose/genie/internal/protocol"
)

// AssignClockDomains is step 7: build a multiway-cut instance over the
// domain's physical RS graph (one vertex per distinct driven clock
// source, these are the terminals; one vertex per distinct undriven
// clock sink; one edge per physical link whose endpoints' clock sinks
// differ, weighted by transmitted bits + 1), run multiway-cut, and return
// each undriven clock sink's assigned clock source (spec.md §4.6 step 7).
func AssignClockDomains(phys []*model.Link, clockSinkOf func(*model.Object) (driven bool, clockVertexKey any)) map[any]any {
	g := graph.New()
	vertOf := make(map[any]graph.VertexID)
	keyOf := make(map[graph.VertexID]any)
	terminals := make(map[any]bool)
	var terminalList []graph.VertexID

	vertex := func(key any, isTerminal bool) graph.VertexID {
		if v, ok := vertOf[key]; ok {
			return v
		}
		v := g.NewVertex()
		vertOf[key] = v
		keyOf[v] = key
		if isTerminal && !terminals[key] {
			terminals[key] = true
			terminalList = append(terminalList, v)
		}
		return v
	}

	weights := make(map[graph.EdgeID]int)
	for _, l := range phys {
		srcDriven, srcKey := clockSinkOf(l.SrcObject())
		sinkDriven, sinkKey := clockSinkOf(l.SinkObject())
		if srcKey == sinkKey {
			continue
		}
		srcV := vertex(srcKey, srcDriven)
		sinkV := vertex(sinkKey, sinkDriven)

		srcPayload, _ := l.SrcObject().Payload.(*model.PortPayload)
		sinkPayload, _ := l.SinkObject().Payload.(*model.PortPayload)
		width := 0
		if srcPayload != nil && sinkPayload != nil && srcPayload.Protocol != nil && sinkPayload.Protocol != nil {
			width = protocol.LinkWidth(srcPayload.Protocol, sinkPayload.Protocol)
		}
		e := g.NewEdge(srcV, sinkV)
		weights[e] = width + 1
	}

	if len(terminalList) == 0 {
		return nil
	}
	assignment := graph.MultiwayCut(g, weights, terminalList)
	result := make(map[any]any, len(assignment))
	for v, terminalVert := range assignment {
		result[keyOf[v]] = keyOf[terminalVert]
	}
	return result
}

// InsertCDC is step 8 (spec.md §4.6 step 8), called for a physical RS link
// whose src and sink clock drivers differ. It creates a ClockX named after
// the link's source, under the source's parent, and returns it. It does
// not splice the ClockX into phys, does not call connectClocks, and sets
// no carrier protocol on it.
func InsertCDC(phys *model.Link, width int, connectClocks func(cx *model.Object, wrclkSrc, rdclkSrc *model.Object) error) (*model.Object, error) {
	cx, err := primitive.NewClockX(phys.SrcObject().Parent, phys.SrcObject().Name+"_cx", width)
	if err != nil {
		return nil, err
	}
	return cx, nil
}
