package latency

import "github.com/jonathanscottrose/genie/internal/model"

// DefaultMaxLogicDepth is the per-system max_logic_depth D used when the
// flow.Options value is unset (spec.md §4.7 "default 5").
const DefaultMaxLogicDepth = 5

// RegGraph is the auxiliary graph used to place registers for
// max-logic-depth compliance (spec.md §4.7, §9 GLOSSARY): vertices are
// physical-link ids plus extra terminal vertices representing the
// registered cores of modules, edges carry combinational-depth weights.
type RegGraph struct {
	adj   map[model.LinkID][]regEdge
	order []model.LinkID // distinct "from" vertices, first-added order
}

type regEdge struct {
	to     model.LinkID
	weight int
}

// NewRegGraph returns an empty reg graph.
func NewRegGraph() *RegGraph {
	return &RegGraph{adj: make(map[model.LinkID][]regEdge)}
}

// AddEdge records a combinational-depth-weighted edge from one physical
// link (or terminal vertex) to the next along a potential snake.
func (g *RegGraph) AddEdge(from, to model.LinkID, weight int) {
	if _, ok := g.adj[from]; !ok {
		g.order = append(g.order, from)
	}
	g.adj[from] = append(g.adj[from], regEdge{to: to, weight: weight})
}

// roots returns every vertex that appears as a "from", in the order each
// was first added — snakes are enumerated starting from each one in that
// order for determinism.
func (g *RegGraph) roots() []model.LinkID {
	return append([]model.LinkID(nil), g.order...)
}

// Cover enumerates maximal snakes (directed paths) whose accumulated
// weight exceeds maxDepth, advancing the head and trailing the tail so
// the window's weight stays just over maxDepth, per spec.md §4.7.
// visited vertices are not counted again by a later snake. It returns one
// slice of physical-link ids per over-weight snake found.
func (g *RegGraph) Cover(maxDepth int) [][]model.LinkID {
	visited := make(map[model.LinkID]bool)
	var snakes [][]model.LinkID

	var walk func(start model.LinkID)
	walk = func(start model.LinkID) {
		var path []model.LinkID
		var weights []int
		cur := start
		for {
			if visited[cur] {
				break
			}
			visited[cur] = true
			path = append(path, cur)
			edges := g.adj[cur]
			if len(edges) == 0 {
				break
			}
			// Deterministic branch order: always take edges in recorded
			// order; branches beyond the first spawn their own walk.
			for i := 1; i < len(edges); i++ {
				if !visited[edges[i].to] {
					walk(edges[i].to)
				}
			}
			next := edges[0]
			weights = append(weights, next.weight)
			total := sumTail(weights, len(weights))
			for total > maxDepth && len(path) > 1 {
				snakes = append(snakes, append([]model.LinkID(nil), path...))
				path = path[1:]
				weights = weights[1:]
				total = sumTail(weights, len(weights))
			}
			cur = next.to
		}
		if total := sumWeights(weights); total > maxDepth && len(path) > 1 {
			snakes = append(snakes, path)
		}
	}

	for _, root := range g.roots() {
		if !visited[root] {
			walk(root)
		}
	}
	return snakes
}

func sumWeights(w []int) int {
	s := 0
	for _, v := range w {
		s += v
	}
	return s
}

func sumTail(w []int, n int) int {
	s := 0
	for i := 0; i < n; i++ {
		s += w[i]
	}
	return s
}
