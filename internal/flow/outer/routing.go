package outer

import (
	"github.com/jonathanscottrose/genie/internal/graph"
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/synth"
)

// RouteLogicalLinks is step 7: for each logical link, run Dijkstra on the
// topo graph (which already includes internal topo edges contributed by
// split/merge/reg nodes) from the source Object's topo vertex to the
// sink's, and record a logical->topo containment edge for every topo edge
// on the path (spec.md §4.5 step 7). vertexOf must resolve every Object
// that can appear as a logical link endpoint to its topo-graph vertex.
func RouteLogicalLinks(topo *graph.Graph, vertexOf func(*model.Object) (graph.VertexID, bool), topoLinkOf func(graph.EdgeID) *model.Link, logicalLinks []*model.Link, relations *model.LinkRelations, dist graph.DistanceFunc) error {
	for _, l := range logicalLinks {
		srcV, ok := vertexOf(l.SrcObject())
		if !ok {
			return synth.At(synth.KindUnreachableRoute, l.SrcObject().HierPath(), "source object has no topology vertex")
		}
		sinkV, ok := vertexOf(l.SinkObject())
		if !ok {
			return synth.At(synth.KindUnreachableRoute, l.SinkObject().HierPath(), "sink object has no topology vertex")
		}

		path, ok := graph.Dijkstra(topo, srcV, sinkV, dist)
		if !ok {
			return synth.At(synth.KindUnreachableRoute, l.SrcObject().HierPath(),
				"no topology path from %s to %s", l.SrcObject().HierPath(), l.SinkObject().HierPath())
		}
		for _, e := range path {
			topoLink := topoLinkOf(e)
			if topoLink == nil {
				continue
			}
			relations.AddRelation(l.ID, topoLink.ID)
		}
	}
	return nil
}
