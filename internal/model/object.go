package model

import (
	"fmt"
	"strings"
)

// Kind is the variant tag an Object carries (spec.md §9 "tagged variants
// plus small per-variant capability traits," replacing the C++ source's
// virtual-inheritance hierarchy).
type Kind int

const (
	KindSystem Kind = iota
	KindModule
	KindSplit
	KindMerge
	KindConv
	KindReg
	KindMDelay
	KindClockX
	KindPortClock
	KindPortReset
	KindPortConduit
	KindPortConduitSub
	KindPortRS
)

func (k Kind) String() string {
	names := [...]string{
		"System", "Module", "Split", "Merge", "Conv", "Reg", "MDelay", "ClockX",
		"PortClock", "PortReset", "PortConduit", "PortConduitSub", "PortRS",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

type epKey struct {
	net NetworkType
	dir Direction
}

// Object is the single hierarchical node type every entity in the graph
// is represented with (spec.md §3): a name, a parent, a name-keyed set of
// children, and zero or more per-(network,direction) Endpoints. An Object
// exclusively owns its children and endpoints: RemoveChild destroys them.
//
// Payload holds the Kind-specific state (Split's output count, Module's
// parameter map, PortRS's protocol, ...). Code that needs it type-asserts
// on Kind, matching the "explicit match on the variant tag" design note
// that replaces the source's dynamic_cast-based traversal.
type Object struct {
	Name   string
	Parent *Object
	Kind   Kind

	childOrder []string
	children   map[string]*Object

	endpointOrder []epKey
	endpoints     map[epKey]*Endpoint

	Payload any
}

// NewObject constructs a detached Object. Callers attach it to a parent
// with AddChild.
func NewObject(name string, kind Kind) *Object {
	return &Object{
		Name:      name,
		Kind:      kind,
		children:  make(map[string]*Object),
		endpoints: make(map[epKey]*Endpoint),
	}
}

// AddChild attaches child under this Object keyed by child.Name. The key
// must be unique among current children.
func (o *Object) AddChild(child *Object) error {
	if _, exists := o.children[child.Name]; exists {
		return fmt.Errorf("object %q already has a child named %q", o.HierPath(), child.Name)
	}
	child.Parent = o
	o.children[child.Name] = child
	o.childOrder = append(o.childOrder, child.Name)
	return nil
}

// RemoveChild detaches and destroys the named child: its endpoints (and
// their links) and its own children are destroyed recursively (spec.md §3
// "Ownership: ... removal destroys them").
func (o *Object) RemoveChild(name string) {
	child, ok := o.children[name]
	if !ok {
		return
	}
	for _, grandchild := range append([]string(nil), child.childOrder...) {
		child.RemoveChild(grandchild)
	}
	for _, key := range child.endpointOrder {
		ep := child.endpoints[key]
		for _, l := range append([]*Link(nil), ep.Links()...) {
			l.Destroy()
		}
	}
	delete(o.children, name)
	out := o.childOrder[:0:0]
	for _, n := range o.childOrder {
		if n != name {
			out = append(out, n)
		}
	}
	o.childOrder = out
}

// DetachChild removes the named child from this Object without
// destroying it, for move semantics (spec.md §5 "Reintegration ... new
// objects and links are moved, not copied"). The returned Object's
// Parent is left pointing here until the caller re-attaches it elsewhere
// with AddChild.
func (o *Object) DetachChild(name string) (*Object, bool) {
	child, ok := o.children[name]
	if !ok {
		return nil, false
	}
	delete(o.children, name)
	out := o.childOrder[:0:0]
	for _, n := range o.childOrder {
		if n != name {
			out = append(out, n)
		}
	}
	o.childOrder = out
	return child, true
}

// Child looks up an immediate child by name.
func (o *Object) Child(name string) (*Object, bool) {
	c, ok := o.children[name]
	return c, ok
}

// Children returns immediate children in insertion order (spec.md §5).
func (o *Object) Children() []*Object {
	out := make([]*Object, 0, len(o.childOrder))
	for _, n := range o.childOrder {
		out = append(out, o.children[n])
	}
	return out
}

// ChildrenByKind returns immediate children with the given Kind, in
// insertion order.
func (o *Object) ChildrenByKind(k Kind) []*Object {
	var out []*Object
	for _, n := range o.childOrder {
		c := o.children[n]
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns every descendant Object (pre-order, insertion order)
// with the given Kind.
func (o *Object) Descendants(k Kind) []*Object {
	var out []*Object
	var walk func(*Object)
	walk = func(cur *Object) {
		for _, n := range cur.childOrder {
			c := cur.children[n]
			if c.Kind == k {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(o)
	return out
}

// HierPath returns the dot-joined hierarchical path from the root (spec.md
// §3 "Names may be hierarchical paths dot-joined from the root").
func (o *Object) HierPath() string {
	var parts []string
	for cur := o; cur != nil; cur = cur.Parent {
		if cur.Name == "" {
			continue
		}
		parts = append([]string{cur.Name}, parts...)
	}
	return strings.Join(parts, ".")
}

// Endpoint returns the Endpoint for (net, dir) on this Object, creating it
// on first access (every Object may own zero or more Endpoints, one per
// network type and direction, spec.md §3).
func (o *Object) Endpoint(net NetworkType, dir Direction) *Endpoint {
	key := epKey{net, dir}
	if ep, ok := o.endpoints[key]; ok {
		return ep
	}
	ep := newEndpoint(o, net, dir)
	o.endpoints[key] = ep
	o.endpointOrder = append(o.endpointOrder, key)
	return ep
}

// HasEndpoint reports whether (net, dir) has been created on this Object
// without creating it as a side effect.
func (o *Object) HasEndpoint(net NetworkType, dir Direction) bool {
	_, ok := o.endpoints[epKey{net, dir}]
	return ok
}

// Endpoints returns every endpoint this Object owns, in creation order.
func (o *Object) Endpoints() []*Endpoint {
	out := make([]*Endpoint, 0, len(o.endpointOrder))
	for _, key := range o.endpointOrder {
		out = append(out, o.endpoints[key])
	}
	return out
}
