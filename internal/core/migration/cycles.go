package migration

import (
	"sort"
	"strings"

	"github.com/jeanremacle/PodShift/internal/core/depgraph"
)

// =============================================================================
// Cycle Detection
// =============================================================================

// DefaultCyclePathLimit bounds how many path extensions one enumeration run
// may explore. Dense graphs can hold exponentially many simple cycles;
// hitting the cap truncates enumeration instead of hanging.
const DefaultCyclePathLimit = 10000

// EnumerateCycles finds simple cycles over the ordering-significant edges
// of the graph. Sharing edges never participate. The graph is not mutated.
//
// The traversal is a depth-first walk from every node in ascending name
// order, tracking the active path; reaching a node already on the path
// yields the cycle formed by the path slice from that node onward. Each
// cycle is canonicalized by rotating the smallest name to the front, so
// rotations of one cycle report once.
//
// Returns the cycles found plus whether enumeration was truncated by limit
// (<= 0 selects DefaultCyclePathLimit). Truncation is a documented
// approximation: cycles already found remain valid.
func EnumerateCycles(g *depgraph.Graph, limit int) ([]Cycle, bool) {
	if limit <= 0 {
		limit = DefaultCyclePathLimit
	}

	adj := orderingAdjacency(g)

	var (
		cycles    []Cycle
		seen      = make(map[string]struct{})
		path      []string
		onPath    = make(map[string]int)
		steps     int
		truncated bool
	)

	var walk func(node string)
	walk = func(node string) {
		if truncated {
			return
		}
		for _, next := range adj[node] {
			steps++
			if steps > limit {
				truncated = true
				return
			}
			if pos, active := onPath[next]; active {
				c := canonicalize(path[pos:])
				key := strings.Join(c, "\x00")
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					cycles = append(cycles, c)
				}
				continue
			}
			onPath[next] = len(path)
			path = append(path, next)
			walk(next)
			path = path[:len(path)-1]
			delete(onPath, next)
		}
	}

	for _, start := range g.Nodes {
		if truncated {
			break
		}
		onPath[start] = 0
		path = append(path[:0], start)
		walk(start)
		delete(onPath, start)
	}

	sort.Slice(cycles, func(i, j int) bool { return lessCycle(cycles[i], cycles[j]) })
	return cycles, truncated
}

// orderingAdjacency builds sorted adjacency lists over ordering edges only.
func orderingAdjacency(g *depgraph.Graph) map[string][]string {
	adj := make(map[string][]string)
	dup := make(map[string]map[string]struct{})
	for _, e := range g.OrderingEdges() {
		if dup[e.From] == nil {
			dup[e.From] = make(map[string]struct{})
		}
		if _, ok := dup[e.From][e.To]; ok {
			continue
		}
		dup[e.From][e.To] = struct{}{}
		adj[e.From] = append(adj[e.From], e.To)
	}
	for from := range adj {
		sort.Strings(adj[from])
	}
	return adj
}

// canonicalize rotates a cycle so its lexicographically smallest member
// comes first.
func canonicalize(cycle []string) Cycle {
	if len(cycle) == 0 {
		return nil
	}
	min := 0
	for i, name := range cycle {
		if name < cycle[min] {
			min = i
		}
	}
	out := make(Cycle, 0, len(cycle))
	out = append(out, cycle[min:]...)
	out = append(out, cycle[:min]...)
	return out
}

func lessCycle(a, b Cycle) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
