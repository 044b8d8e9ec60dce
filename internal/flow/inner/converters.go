package inner

import (
	"fmt"

	"github.com/jonathanscottrose/genie/internal/address"
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/primitive"
	"github.com/jonathanscottrose/genie/internal/protocol"
	"github.com/jonathanscottrose/genie/internal/synth"
)

// UserAddrField is the terminal field type Flow Outer binds a user port's
// ADDRESS role to (spec.md §4.5 step 2).
const UserAddrField = protocol.FieldUserAddr

// InsertUserSideConverter is step 4 for one user RS port: if its protocol
// carries a USERADDR field, compute the user's address rep from
// userAddrOf and either tie USERADDR to a constant (single bin), error
// (a bin is still the "any address" sentinel), or splice a Conv (spec.md
// §4.6 step 4).
func (d *Domain) InsertUserSideConverter(port *model.Object, userAddrOf func(xmis uint) uint, transmissions []uint, spliceConv func(port *model.Object, conv *model.Object) error) error {
	payload := port.Payload.(*model.PortPayload)
	f, ok := findField(payload.Protocol, UserAddrField)
	if !ok {
		return nil
	}

	userRep := address.BuildUserRep(transmissions, userAddrOf)
	switch {
	case userRep.NumAddrBins() == 1:
		bin := userRep.AddrBins()[0]
		payload.Protocol.SetConst(f, uint64(bin))
		return nil
	case hasAnyBin(userRep):
		return synth.At(synth.KindUnboundAddress, port.HierPath(),
			"not all transmissions at this port are bound to a user address")
	default:
		name := fmt.Sprintf("%s_conv", port.Name)
		conv, err := primitive.NewConv(port.Parent, name, "xmis_id", "user_addr", d.Rep, userRep)
		if err != nil {
			return err
		}
		if spliceConv != nil {
			return spliceConv(port, conv)
		}
		return nil
	}
}

// InsertSplitConverter is step 5 for one split node: compute its split-
// rep from transmissionsPerOutput; if it has at most one bin, mark the
// split pure-unicast (no SPLITMASK field is tied to a constant); else
// splice a Conv translating domain-rep XMIS_ID to split-rep SPLITMASK
// (spec.md §4.6 step 5).
func (d *Domain) InsertSplitConverter(split *model.Object, numOutputs int, transmissionsPerOutput func(output int) []uint, spliceConv func(split *model.Object, conv *model.Object) error) error {
	payload := split.Payload.(*primitive.SplitPayload)
	splitRep := address.BuildSplitRep(numOutputs, transmissionsPerOutput)

	if splitRep.NumAddrBins() <= 1 {
		payload.PureUnicast = true
		return nil
	}
	conv, err := primitive.NewConv(split.Parent, split.Name+"_conv", "xmis_id", "splitmask", d.Rep, splitRep)
	if err != nil {
		return err
	}
	if spliceConv != nil {
		return spliceConv(split, conv)
	}
	return nil
}

func findField(p *protocol.PortProtocol, t protocol.FieldType) (protocol.Field, bool) {
	if p == nil {
		return protocol.Field{}, false
	}
	for _, f := range p.TerminalFields().Contents() {
		if f.Type == t {
			return f, true
		}
	}
	return protocol.Field{}, false
}

func hasAnyBin(rep *address.Rep) bool {
	return rep.Exists(address.Any)
}
