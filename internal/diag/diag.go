// Package diag implements GENIE's debug-dump diagnostics (spec.md §6
// "dump_dot (topology graph)", "dump_reggraph (register graph)",
// "dump_area (human-readable area/timing report)"): text artifacts a
// caller can write alongside the compiled HDL output.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jonathanscottrose/genie/internal/hdl"
	"github.com/jonathanscottrose/genie/internal/model"
	"github.com/jonathanscottrose/genie/internal/primitive"
)

// Dot renders links as a Graphviz digraph, one edge per link, grouped
// under a comment naming the network (spec.md §6 "dump_dot").
func Dot(title string, links []*model.Link) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", quoteIdent(title))

	byNet := make(map[model.NetworkType][]*model.Link)
	for _, l := range links {
		byNet[l.Net] = append(byNet[l.Net], l)
	}
	nets := make([]model.NetworkType, 0, len(byNet))
	for n := range byNet {
		nets = append(nets, n)
	}
	sort.Slice(nets, func(i, j int) bool { return nets[i] < nets[j] })

	for _, n := range nets {
		fmt.Fprintf(&b, "  // %s\n", n)
		for _, l := range byNet[n] {
			fmt.Fprintf(&b, "  %q -> %q;\n", l.SrcObject().HierPath(), l.SinkObject().HierPath())
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// RegGraph is Dot restricted to the physical RS graph, the register
// placement view dump_reggraph reports (spec.md §6).
func RegGraph(phys []*model.Link) string {
	return Dot("reggraph", phys)
}

// Area renders one human-readable area report line per Module Object that
// has HDL ports, using humanize to keep large LUT/register counts
// readable (spec.md §6 "dump_area"; teacher dep: go.mod's
// dustin/go-humanize, same library caddy uses for human-readable byte
// counts).
func Area(st *hdl.State, areaOf func(*model.Object) (primitive.AreaMetrics, bool)) string {
	var owners []*model.Object
	for owner := range st.Ports {
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i].HierPath() < owners[j].HierPath() })

	var b strings.Builder
	for _, owner := range owners {
		area, ok := areaOf(owner)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%-40s lut=%-8s reg=%-8s comb=%-8s mem_alm=%-8s dist_ram=%-8s\n",
			owner.HierPath(),
			humanize.Comma(int64(area.LUT)),
			humanize.Comma(int64(area.Reg)),
			humanize.Comma(int64(area.Comb)),
			humanize.Comma(int64(area.MemALM)),
			humanize.Comma(int64(area.DistRAM)),
		)
	}
	return b.String()
}

func quoteIdent(s string) string {
	if s == "" {
		return "genie"
	}
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '.' {
			return '_'
		}
		return r
	}, s)
}
