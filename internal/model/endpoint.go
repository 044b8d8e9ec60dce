package model

import "fmt"

// Endpoint is a per-Object, per-(network, direction) slot holding zero or
// more Links, with a max-links cap inherited from the network's default,
// overridable per endpoint (spec.md §3).
type Endpoint struct {
	Owner    *Object
	Net      NetworkType
	Dir      Direction
	MaxLinks int
	links    []*Link // insertion order
}

func newEndpoint(owner *Object, net NetworkType, dir Direction) *Endpoint {
	return &Endpoint{Owner: owner, Net: net, Dir: dir, MaxLinks: net.DefaultMaxLinks()}
}

// SetMaxLinks overrides this endpoint's cap (spec.md §3 "overridable per
// endpoint").
func (e *Endpoint) SetMaxLinks(n int) { e.MaxLinks = n }

// Links returns the endpoint's links in insertion order. Callers must not
// mutate the slice.
func (e *Endpoint) Links() []*Link { return e.links }

// Link0 returns the first (and, for capped endpoints, only) link, or nil.
func (e *Endpoint) Link0() *Link {
	if len(e.links) == 0 {
		return nil
	}
	return e.links[0]
}

func (e *Endpoint) addLink(l *Link) error {
	if e.MaxLinks != Unbounded && len(e.links) >= e.MaxLinks {
		return fmt.Errorf("endpoint %s/%s on %q at link cap %d", e.Net, e.Dir, e.Owner.HierPath(), e.MaxLinks)
	}
	e.links = append(e.links, l)
	return nil
}

func (e *Endpoint) removeLink(l *Link) {
	out := e.links[:0:0]
	for _, existing := range e.links {
		if existing != l {
			out = append(out, existing)
		}
	}
	e.links = out
}

func errNetworkMismatch(net, a, b NetworkType) error {
	return fmt.Errorf("link network %s does not match endpoint networks %s/%s", net, a, b)
}

func errDirectionMismatch() error {
	return fmt.Errorf("link source endpoint must be OUT and sink endpoint must be IN")
}
