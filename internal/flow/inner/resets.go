package inner

import (
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/synth"
)

// ConnectResets is step 14: for every unconnected reset sink, connect it
// to an existing system reset source (any one); error if the system has
// none (spec.md §4.6 step 14).
func ConnectResets(unconnectedSinks []*model.Endpoint, sources []*model.Endpoint, nextIndex func() uint64) error {
	if len(sources) == 0 {
		if len(unconnectedSinks) == 0 {
			return nil
		}
		return synth.At(synth.KindNoResetSource, unconnectedSinks[0].Owner.HierPath(),
			"no reset source exists in this system")
	}
	source := sources[0]
	for _, sink := range unconnectedSinks {
		if _, err := model.NewLink(model.NetReset, nextIndex(), source, sink); err != nil {
			return err
		}
	}
	return nil
}
