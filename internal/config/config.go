// Package config loads a JSON-described GENIE System (spec.md §4.2) into
// the in-memory genie.System Compile needs, the way caddy's
// caddyconfig.JSON glue turns a JSON document into a *caddy.Config
// (teacher: caddyconfig/httpcaddyfile and cmd/commandfuncs.go's config
// loading path).
package config

import (
	"encoding/json"
	"fmt"

	"github.com/jonathanscottrose/genie/internal/expr"
	"github.com/jonathanscottrose/genie/internal/flow/outer"
	"github.com/jonathanscottrose/genie/internal/model"
)

// RoleDoc is one JSON role binding on a port.
type RoleDoc struct {
	Role    string `json:"role"`
	Tag     string `json:"tag,omitempty"`
	HDLPort string `json:"hdl_port,omitempty"`
	Width   string `json:"width,omitempty"`
}

// NodeDoc is one JSON parameterized node: a Module carrying its own
// parameter expressions, chained to the System's (spec.md §4.5 step 1).
type NodeDoc struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
}

// PortDoc is one JSON port: its kind (clock/reset/rs/conduit), the node it
// belongs to (empty for a System-level port), and its role bindings.
type PortDoc struct {
	Name  string    `json:"name"`
	Node  string    `json:"node,omitempty"`
	Kind  string    `json:"kind"`
	Roles []RoleDoc `json:"roles,omitempty"`

	// SubPorts is only meaningful for kind "conduit": its own nested
	// conduit sub-ports, matched by Tag across a conduit link's two ends
	// (spec.md §4.5 step 8).
	SubPorts []PortDoc `json:"sub_ports,omitempty"`
}

// LogicalLinkDoc is one JSON RS logical link.
type LogicalLinkDoc struct {
	Src     string `json:"src"`
	Sink    string `json:"sink"`
	SrcAddr uint   `json:"src_addr,omitempty"`
}

// ConduitLinkDoc is one JSON top-level conduit link.
type ConduitLinkDoc struct {
	Src  string `json:"src"`
	Sink string `json:"sink"`
}

// ClockLinkDoc wires a clock or reset source port to a sink port directly
// (Document uses it for both ClockLinks and ResetLinks; these networks
// carry no split/merge/routing stage).
type ClockLinkDoc struct {
	Src  string `json:"src"`
	Sink string `json:"sink"`
}

// Document is the top-level JSON System description.
type Document struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`

	Nodes []NodeDoc `json:"nodes,omitempty"`
	Ports []PortDoc `json:"ports"`

	ClockLinks   []ClockLinkDoc   `json:"clock_links,omitempty"`
	ResetLinks   []ClockLinkDoc   `json:"reset_links,omitempty"`
	LogicalLinks []LogicalLinkDoc `json:"logical_links,omitempty"`
	ConduitLinks []ConduitLinkDoc `json:"conduit_links,omitempty"`
}

// Parse decodes a JSON System document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse system document: %w", err)
	}
	return &doc, nil
}

func roleType(s string) (model.RoleType, error) {
	switch s {
	case "clock":
		return model.RoleClock, nil
	case "reset":
		return model.RoleReset, nil
	case "fwd":
		return model.RoleFwd, nil
	case "rev":
		return model.RoleRev, nil
	case "in":
		return model.RoleIn, nil
	case "out":
		return model.RoleOut, nil
	case "inout":
		return model.RoleInOut, nil
	case "valid":
		return model.RoleValid, nil
	case "ready":
		return model.RoleReady, nil
	case "data":
		return model.RoleData, nil
	case "databundle":
		return model.RoleDataBundle, nil
	case "eop":
		return model.RoleEOP, nil
	case "address":
		return model.RoleAddress, nil
	default:
		return "", fmt.Errorf("unrecognized role %q", s)
	}
}

func portKind(s string) (model.Kind, error) {
	switch s {
	case "clock":
		return model.KindPortClock, nil
	case "reset":
		return model.KindPortReset, nil
	case "rs":
		return model.KindPortRS, nil
	case "conduit":
		return model.KindPortConduit, nil
	case "conduit_sub":
		return model.KindPortConduitSub, nil
	default:
		return 0, fmt.Errorf("unrecognized port kind %q", s)
	}
}

// Built is what Build returns: the root Object, the flat port/link slices
// Compile needs, and the NodeParams maps step 1 resolves.
type Built struct {
	Root *model.Object

	SystemParams *outer.NodeParams
	NodeParams   map[*model.Object]*outer.NodeParams

	RSPorts      []*model.Object
	ConduitLinks []*model.Link
	LogicalLinks []*model.Link

	ConduitSubPortsOf map[*model.Object][]*model.Object
	ConduitTagOf      map[*model.Object]string
	ConduitIsInput    map[*model.Object]bool
}

// Build turns a parsed Document into a genie.System-shaped set of
// Objects: one System Object per document, one child Object per node
// (plain KindModule placeholders, since the JSON schema carries no
// sub-module hierarchy of its own), and one Object per port parented
// under its node (or the System, if node is empty).
func Build(doc *Document) (*Built, error) {
	root := model.NewObject(doc.Name, model.KindSystem)

	sysParams := &outer.NodeParams{Exprs: make(map[string]*expr.Expr, len(doc.Params))}
	for name, src := range doc.Params {
		e, err := expr.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("system param %q: %w", name, err)
		}
		sysParams.Exprs[name] = e
	}

	nodeParams := make(map[*model.Object]*outer.NodeParams, len(doc.Nodes))
	nodeObj := make(map[string]*model.Object, len(doc.Nodes))
	for _, nd := range doc.Nodes {
		obj := model.NewObject(nd.Name, model.KindModule)
		if err := root.AddChild(obj); err != nil {
			return nil, fmt.Errorf("node %q: %w", nd.Name, err)
		}
		nodeObj[nd.Name] = obj

		np := &outer.NodeParams{Exprs: make(map[string]*expr.Expr, len(nd.Params))}
		for name, src := range nd.Params {
			e, err := expr.Compile(src)
			if err != nil {
				return nil, fmt.Errorf("node %q param %q: %w", nd.Name, name, err)
			}
			np.Exprs[name] = e
		}
		nodeParams[obj] = np
	}

	b := &Built{
		Root:              root,
		SystemParams:      sysParams,
		NodeParams:        nodeParams,
		ConduitSubPortsOf: make(map[*model.Object][]*model.Object),
		ConduitTagOf:      make(map[*model.Object]string),
		ConduitIsInput:    make(map[*model.Object]bool),
	}

	portObj := make(map[string]*model.Object, len(doc.Ports))
	for _, pd := range doc.Ports {
		parent := root
		if pd.Node != "" {
			n, ok := nodeObj[pd.Node]
			if !ok {
				return nil, fmt.Errorf("port %q: unknown node %q", pd.Name, pd.Node)
			}
			parent = n
		}
		obj, err := buildPort(b, parent, pd)
		if err != nil {
			return nil, err
		}
		portObj[pd.Name] = obj
	}

	for i, cl := range doc.ClockLinks {
		src, sink, err := resolveEndpoints(portObj, cl.Src, cl.Sink)
		if err != nil {
			return nil, fmt.Errorf("clock link %d: %w", i, err)
		}
		if _, err := model.NewLink(model.NetClock, uint64(i), src.Endpoint(model.NetClock, model.DirOut), sink.Endpoint(model.NetClock, model.DirIn)); err != nil {
			return nil, fmt.Errorf("clock link %d: %w", i, err)
		}
	}
	for i, rl := range doc.ResetLinks {
		src, sink, err := resolveEndpoints(portObj, rl.Src, rl.Sink)
		if err != nil {
			return nil, fmt.Errorf("reset link %d: %w", i, err)
		}
		if _, err := model.NewLink(model.NetReset, uint64(i), src.Endpoint(model.NetReset, model.DirOut), sink.Endpoint(model.NetReset, model.DirIn)); err != nil {
			return nil, fmt.Errorf("reset link %d: %w", i, err)
		}
	}
	for i, ll := range doc.LogicalLinks {
		src, sink, err := resolveEndpoints(portObj, ll.Src, ll.Sink)
		if err != nil {
			return nil, fmt.Errorf("logical link %d: %w", i, err)
		}
		l, err := model.NewLink(model.NetRSLogical, uint64(i), src.Endpoint(model.NetRSLogical, model.DirOut), sink.Endpoint(model.NetRSLogical, model.DirIn))
		if err != nil {
			return nil, fmt.Errorf("logical link %d: %w", i, err)
		}
		l.Logical.SrcAddr = ll.SrcAddr
		b.LogicalLinks = append(b.LogicalLinks, l)
	}
	for i, cl := range doc.ConduitLinks {
		src, sink, err := resolveEndpoints(portObj, cl.Src, cl.Sink)
		if err != nil {
			return nil, fmt.Errorf("conduit link %d: %w", i, err)
		}
		l, err := model.NewLink(model.NetConduit, uint64(i), src.Endpoint(model.NetConduit, model.DirOut), sink.Endpoint(model.NetConduit, model.DirIn))
		if err != nil {
			return nil, fmt.Errorf("conduit link %d: %w", i, err)
		}
		b.ConduitLinks = append(b.ConduitLinks, l)
	}

	return b, nil
}

func resolveEndpoints(portObj map[string]*model.Object, srcName, sinkName string) (*model.Object, *model.Object, error) {
	src, ok := portObj[srcName]
	if !ok {
		return nil, nil, fmt.Errorf("unknown port %q", srcName)
	}
	sink, ok := portObj[sinkName]
	if !ok {
		return nil, nil, fmt.Errorf("unknown port %q", sinkName)
	}
	return src, sink, nil
}

func buildPort(b *Built, parent *model.Object, pd PortDoc) (*model.Object, error) {
	kind, err := portKind(pd.Kind)
	if err != nil {
		return nil, fmt.Errorf("port %q: %w", pd.Name, err)
	}

	obj := model.NewObject(pd.Name, kind)
	if err := parent.AddChild(obj); err != nil {
		return nil, fmt.Errorf("port %q: %w", pd.Name, err)
	}

	if kind == model.KindPortRS || kind == model.KindPortConduit || kind == model.KindPortConduitSub {
		payload := model.NewPortPayload()
		for _, rd := range pd.Roles {
			role, err := roleType(rd.Role)
			if err != nil {
				return nil, fmt.Errorf("port %q: %w", pd.Name, err)
			}
			var width *expr.Expr
			if rd.Width != "" {
				width, err = expr.Compile(rd.Width)
				if err != nil {
					return nil, fmt.Errorf("port %q role %q width: %w", pd.Name, rd.Role, err)
				}
			}
			payload.AddRole(role, rd.Tag, model.HDLBinding{PortName: rd.HDLPort, Width: width})
		}
		obj.Payload = payload
		if kind == model.KindPortRS {
			b.RSPorts = append(b.RSPorts, obj)
		}
	}

	if kind == model.KindPortConduit {
		var subs []*model.Object
		for _, sd := range pd.SubPorts {
			sub, err := buildPort(b, obj, PortDoc{Name: sd.Name, Kind: "conduit_sub", Roles: sd.Roles})
			if err != nil {
				return nil, fmt.Errorf("conduit port %q sub-port %q: %w", pd.Name, sd.Name, err)
			}
			subs = append(subs, sub)
			b.ConduitTagOf[sub] = sd.Name
			b.ConduitIsInput[sub] = hasRole(sd.Roles, "in")
		}
		b.ConduitSubPortsOf[obj] = subs
	}

	return obj, nil
}

// BitsOf resolves an HDLBinding's width expression against the System's
// resolved parameters (step 1 must already have run). Node-local
// parameter scoping for a user RS port's own width expression is a
// simplification the JSON schema doesn't need: ports are declared at
// System or node scope, and in practice their width bindings reference
// System-level parameters directly.
func (b *Built) BitsOf(h model.HDLBinding) (int, error) {
	if h.Width == nil {
		return 0, nil
	}
	v, err := h.Width.Eval(expr.MapEnv(b.SystemParams.Resolved))
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func hasRole(roles []RoleDoc, role string) bool {
	for _, r := range roles {
		if r.Role == role {
			return true
		}
	}
	return false
}
