// Package primitive implements GENIE's node primitives (spec.md §4.4):
// Split, Merge, Conv, Reg, MDelay, and ClockX. Each exposes typed RS/clock/
// reset ports, an HDL template, and an area/timing query against the
// primitive database (spec.md §6 "Primitive database").
package primitive

import (
	"fmt"
	"sort"
)

// AreaMetrics is the per-row area cell of a primitive database table
// (spec.md §6): LUT count, combinational cell count, register count,
// memory ALM count, and distributed-RAM bit count.
type AreaMetrics struct {
	LUT     int
	Comb    int
	Reg     int
	MemALM  int
	DistRAM int
}

// TimingNodes is a per-row (source-terminal, sink-terminal) LUT-depth
// matrix.
type TimingNodes map[string]map[string]int

// Row is an opaque handle into one cell of a primitive table, returned by
// Table.Row.
type Row struct {
	area    AreaMetrics
	tnodes  TimingNodes
	distCol int // the value of the table's distinguishing column, for interpolation
}

// AreaMetrics returns the row's area cell.
func (r Row) AreaMetrics() AreaMetrics { return r.area }

// TNodes returns the row's timing-node matrix.
func (r Row) TNodes() TimingNodes { return r.tnodes }

// TNodeVal looks up one (src, sink) LUT-depth entry, returning 0 if absent.
func (r Row) TNodeVal(src, sink string) int {
	if m, ok := r.tnodes[src]; ok {
		return m[sink]
	}
	return 0
}

// Table is a primitive database table indexed by one distinguishing
// integer column (e.g. width, or delay cycles), with linear interpolation
// between present rows for values not present (spec.md §6: "Interpolation
// between rows ... is linear in the distinguishing column and performed
// by the caller").
type Table struct {
	name string
	rows map[int]Row
	keys []int // sorted
}

// NewTable returns an empty table named for diagnostics.
func NewTable(name string) *Table {
	return &Table{name: name, rows: make(map[int]Row)}
}

// AddRow inserts or overwrites the row at distinguishing column value col.
func (t *Table) AddRow(col int, area AreaMetrics, tnodes TimingNodes) {
	if _, exists := t.rows[col]; !exists {
		t.keys = append(t.keys, col)
		sort.Ints(t.keys)
	}
	t.rows[col] = Row{area: area, tnodes: tnodes, distCol: col}
}

// Row returns the exact row at col if present, else linearly interpolates
// between the nearest bracketing rows. Returns an error if col falls
// outside the table's range and no exact row exists.
func (t *Table) Row(col int) (Row, error) {
	if r, ok := t.rows[col]; ok {
		return r, nil
	}
	if len(t.keys) == 0 {
		return Row{}, fmt.Errorf("primitive: table %q is empty", t.name)
	}
	lo, hi := -1, -1
	for _, k := range t.keys {
		if k <= col {
			lo = k
		}
		if k >= col && hi == -1 {
			hi = k
		}
	}
	if lo == -1 {
		lo = t.keys[0]
	}
	if hi == -1 {
		hi = t.keys[len(t.keys)-1]
	}
	if lo == hi {
		return t.rows[lo], nil
	}
	return interpolate(t.rows[lo], t.rows[hi], col), nil
}

func interpolate(a, b Row, col int) Row {
	frac := float64(col-a.distCol) / float64(b.distCol-a.distCol)
	lerp := func(x, y int) int { return x + int(frac*float64(y-x)) }
	area := AreaMetrics{
		LUT:     lerp(a.area.LUT, b.area.LUT),
		Comb:    lerp(a.area.Comb, b.area.Comb),
		Reg:     lerp(a.area.Reg, b.area.Reg),
		MemALM:  lerp(a.area.MemALM, b.area.MemALM),
		DistRAM: lerp(a.area.DistRAM, b.area.DistRAM),
	}
	tnodes := make(TimingNodes)
	for src, sinks := range a.tnodes {
		tnodes[src] = make(map[string]int)
		for sink, v := range sinks {
			bv := b.tnodes[src][sink]
			tnodes[src][sink] = lerp(v, bv)
		}
	}
	return Row{area: area, tnodes: tnodes, distCol: col}
}

// Database groups the per-primitive-kind tables the flow stages consult
// for area estimates (MDelay-vs-Regs, spec.md §4.4) and timing annotation
// (spec.md §4.7).
type Database struct {
	tables map[string]*Table
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return &Database{tables: make(map[string]*Table)}
}

// Table returns the named table, creating it empty if absent.
func (d *Database) Table(name string) *Table {
	t, ok := d.tables[name]
	if !ok {
		t = NewTable(name)
		d.tables[name] = t
	}
	return t
}
