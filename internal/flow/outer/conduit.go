package outer

import (
	"github.com/jonathanscottrose/genie/internal/model"
)

// ConduitWarning is a non-fatal issue raised while connecting one top-level
// conduit link's sub-ports (spec.md §4.5 step 8).
type ConduitWarning struct {
	ParentLink *model.Link
	Tag        string
	Message    string
}

// ConnectConduitLinks is step 8: for each top-level conduit link, match
// sub-ports by tag, create a LinkRSPhys-style conduit sub-link between
// matched pairs, swap src/sink direction when the source sub-port is an
// input, and collect a warning for every sink sub-port that has no
// matching source (spec.md §4.5 step 8).
func ConnectConduitLinks(conduitLinks []*model.Link, subPortsOf func(*model.Object) []*model.Object, tagOf func(*model.Object) string, isInput func(*model.Object) bool, nextIndex func() uint64) ([]*model.Link, []ConduitWarning, error) {
	var created []*model.Link
	var warnings []ConduitWarning

	for _, l := range conduitLinks {
		srcSubs := subPortsOf(l.SrcObject())
		sinkSubs := subPortsOf(l.SinkObject())

		sinkByTag := make(map[string]*model.Object, len(sinkSubs))
		for _, sp := range sinkSubs {
			sinkByTag[tagOf(sp)] = sp
		}

		matchedSink := make(map[*model.Object]bool, len(sinkSubs))
		for _, srcSub := range srcSubs {
			tag := tagOf(srcSub)
			sinkSub, ok := sinkByTag[tag]
			if !ok {
				continue
			}
			matchedSink[sinkSub] = true

			from, to := srcSub, sinkSub
			if isInput(srcSub) {
				from, to = to, from
			}
			fromEp := from.Endpoint(model.NetConduitSub, model.DirOut)
			toEp := to.Endpoint(model.NetConduitSub, model.DirIn)
			sub, err := model.NewLink(model.NetConduitSub, nextIndex(), fromEp, toEp)
			if err != nil {
				return created, warnings, err
			}
			created = append(created, sub)
		}

		for _, sinkSub := range sinkSubs {
			if !matchedSink[sinkSub] {
				warnings = append(warnings, ConduitWarning{
					ParentLink: l,
					Tag:        tagOf(sinkSub),
					Message:    "no source sub-port for conduit tag " + tagOf(sinkSub),
				})
			}
		}
	}
	return created, warnings, nil
}
