package inner

import "github.com/jonathanscottrose/genie/internal/address"

// BuildDomainAddressRep is step 2: the per-domain canonical rep, one
// sequential id per transmission in the domain (spec.md §4.3, §4.6 step 2).
func (d *Domain) BuildDomainAddressRep(numTransmissions int) {
	d.Rep = address.BuildCanonical(numTransmissions)
}
