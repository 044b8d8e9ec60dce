// Package cli wires genie's flow.Options onto a cobra command tree, the
// harness cmd/geniec runs (teacher: cmd/commandfuncs.go + cmd/main.go's
// cobra.Command tree wrapping caddy's core API).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	genie "github.com/jonathanscottrose/genie"
	"github.com/jonathanscottrose/genie/internal/config"
	"github.com/jonathanscottrose/genie/internal/diag"
	"github.com/jonathanscottrose/genie/internal/flow"
	"github.com/jonathanscottrose/genie/internal/model"
)

// NewRootCommand builds the geniec command tree: a single root action that
// loads a JSON-described System and runs it through genie.Compile.
func NewRootCommand() *cobra.Command {
	opts := flow.DefaultOptions()
	var systemPath string

	root := &cobra.Command{
		Use:   "geniec",
		Short: "Compile a GENIE system description into HDL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, systemPath, opts)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&systemPath, "system", "s", "", "path to the JSON system description (required)")
	flags.BoolVar(&opts.ForceFullMerge, "force-full-merge", opts.ForceFullMerge, "use the general arbiter on every merge (no exclusivity check)")
	flags.BoolVar(&opts.NoMergeTree, "no-merge-tree", opts.NoMergeTree, "never decompose oversized merges into trees")
	flags.BoolVar(&opts.SplitTree, "split-tree", opts.SplitTree, "decompose splits whose fan-out exceeds the threshold into trees")
	flags.BoolVar(&opts.NoMDelay, "no-mdelay", opts.NoMDelay, "never use MDelay memories for long latency chains")
	flags.IntVar(&opts.MaxLogicDepth, "max-logic-depth", opts.MaxLogicDepth, "maximum combinational logic depth before inserting a register")
	flags.BoolVar(&opts.NoTopoOpt, "no-topo-opt", opts.NoTopoOpt, "skip the post-routing topology optimizer")
	flags.BoolVar(&opts.DumpDot, "dump-dot", false, "print a Graphviz dump of the logical links")
	flags.BoolVar(&opts.DumpRegGraph, "dump-reggraph", false, "set the dump_reggraph option (geniec itself prints no register graph)")
	flags.BoolVar(&opts.DumpArea, "dump-area", false, "set the dump_area option (geniec itself prints no area report)")
	flags.BoolVar(&opts.DescSPMG, "desc-spmg", opts.DescSPMG, "name split/merge nodes after the port driving them instead of spl<N>/mrg<N>")

	return root
}

func runCompile(cmd *cobra.Command, systemPath string, opts flow.Options) error {
	if systemPath == "" {
		return fmt.Errorf("--system is required")
	}
	data, err := os.ReadFile(systemPath)
	if err != nil {
		return fmt.Errorf("read system file: %w", err)
	}
	doc, err := config.Parse(data)
	if err != nil {
		return err
	}
	built, err := config.Build(doc)
	if err != nil {
		return fmt.Errorf("build system: %w", err)
	}

	sys := &genie.System{
		Root:         built.Root,
		SystemParams: built.SystemParams,
		NodeParams:   built.NodeParams,
		RSPorts:      built.RSPorts,
		ConduitLinks: built.ConduitLinks,
		LogicalLinks: built.LogicalLinks,
		BitsOf:       built.BitsOf,
		ConduitSubPortsOf: func(o *model.Object) []*model.Object {
			return built.ConduitSubPortsOf[o]
		},
		ConduitTagOf: func(o *model.Object) string {
			return built.ConduitTagOf[o]
		},
		ConduitIsInput: func(o *model.Object) bool {
			return built.ConduitIsInput[o]
		},
	}

	res, err := genie.Compile(sys, opts, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "compiled %q: %d RS domain(s)\n", built.Root.HierPath(), res.Domains)

	if opts.DumpDot {
		fmt.Fprintln(cmd.OutOrStdout(), diag.Dot(built.Root.Name, built.LogicalLinks))
	}
	return nil
}
