package inner

import (
	"fmt"

	"github.com/jonathanscottrose/genie/internal/model"
)

// RealizeTopoLinks is step 3: for each topo link, create a LinkRSPhys
// between the appropriate RS sub-port of the source and the next unused
// RS sub-port of the sink, and record the topo -> phys containment
// (spec.md §4.6 step 3). create_ports is the caller-supplied hook that
// expands a split/merge's port count to match its topo fan-out/fan-in
// before wiring (spec.md: "call create_ports() on any attached
// split/merge").
func (d *Domain) RealizeTopoLinks(createPorts func(node *model.Object) error, nextSinkSubPort func(sink *model.Object) (*model.Endpoint, error), srcSubPort func(src *model.Object) (*model.Endpoint, error)) error {
	for _, topoLink := range d.TopoLinks {
		srcObj := topoLink.SrcObject()
		sinkObj := topoLink.SinkObject()

		if createPorts != nil {
			if err := createPorts(srcObj); err != nil {
				return fmt.Errorf("realize topo link: create_ports on %q: %w", srcObj.HierPath(), err)
			}
			if err := createPorts(sinkObj); err != nil {
				return fmt.Errorf("realize topo link: create_ports on %q: %w", sinkObj.HierPath(), err)
			}
		}

		srcEp, err := srcSubPort(srcObj)
		if err != nil {
			return err
		}
		sinkEp, err := nextSinkSubPort(sinkObj)
		if err != nil {
			return err
		}

		idx := d.allocPhysIndex()
		phys, err := model.NewLink(model.NetRSPhys, idx, srcEp, sinkEp)
		if err != nil {
			return fmt.Errorf("realize topo link %v: %w", topoLink.ID, err)
		}
		d.Phys = append(d.Phys, phys)
		d.Relations.AddRelation(topoLink.ID, phys.ID)
	}
	return nil
}
