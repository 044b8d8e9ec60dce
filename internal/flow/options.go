// Package flow holds the configuration surface shared by the outer,
// inner, and latency flow stages (spec.md §6 "Configuration").
package flow

// Options is the flow configuration struct, JSON-decodable the way a
// Caddy app config is, with one field per spec.md §6 recognized option.
type Options struct {
	ForceFullMerge bool `json:"force_full_merge,omitempty"`
	NoMergeTree    bool `json:"no_merge_tree,omitempty"`
	SplitTree      bool `json:"split_tree,omitempty"`
	NoMDelay       bool `json:"no_mdelay,omitempty"`
	MaxLogicDepth  int  `json:"max_logic_depth,omitempty"`
	NoTopoOpt      bool `json:"no_topo_opt,omitempty"`
	DumpDot        bool `json:"dump_dot,omitempty"`
	DumpRegGraph   bool `json:"dump_reggraph,omitempty"`
	DumpArea       bool `json:"dump_area,omitempty"`
	DescSPMG       bool `json:"desc_spmg,omitempty"`

	// NoTopoOptSystems is the per-system allow-list complement of
	// NoTopoOpt: when non-empty, only these system hierarchical paths
	// skip the post-routing topo optimizer even if NoTopoOpt is false for
	// the rest (spec.md §6: "no_topo_opt (global + per-system allow-list)").
	NoTopoOptSystems []string `json:"no_topo_opt_systems,omitempty"`
}

// DefaultOptions returns the options the CLI harness starts from.
func DefaultOptions() Options {
	return Options{MaxLogicDepth: 5}
}

// SkipsTopoOpt reports whether the post-routing topo optimizer should be
// skipped for the named system.
func (o Options) SkipsTopoOpt(systemPath string) bool {
	if o.NoTopoOpt {
		return true
	}
	for _, p := range o.NoTopoOptSystems {
		if p == systemPath {
			return true
		}
	}
	return false
}
