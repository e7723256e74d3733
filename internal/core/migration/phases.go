package migration

import (
	"fmt"
	"sort"

	"github.com/jeanremacle/PodShift/internal/core/depgraph"
)

// =============================================================================
// Condensation
// =============================================================================

// unit is one schedulable item: a plain container or a contracted cyclic
// cluster. The id of a cluster is its smallest member name, which keeps
// tie-breaking deterministic.
type unit struct {
	id      string
	members []string
	cyclic  bool
}

// condense contracts every strongly connected cyclic component into one
// cluster unit. Cluster edges are the union of member edges minus
// self-loops, so the resulting unit graph is guaranteed acyclic.
func condense(g *depgraph.Graph) (units map[string]*unit, unitOf map[string]string) {
	components := stronglyConnected(g)

	units = make(map[string]*unit, len(components))
	unitOf = make(map[string]string, len(g.Nodes))
	for _, members := range components {
		sort.Strings(members)
		u := &unit{
			id:      members[0],
			members: members,
			cyclic:  len(members) > 1,
		}
		units[u.id] = u
		for _, m := range members {
			unitOf[m] = u.id
		}
	}
	return units, unitOf
}

// stronglyConnected runs Tarjan's algorithm over the ordering edges.
// Iteration is by ascending node name so component discovery order is
// reproducible.
func stronglyConnected(g *depgraph.Graph) [][]string {
	adj := orderingAdjacency(g)

	var (
		index    int
		indexOf  = make(map[string]int, len(g.Nodes))
		lowlink  = make(map[string]int, len(g.Nodes))
		onStack  = make(map[string]bool, len(g.Nodes))
		stack    []string
		sccs     [][]string
		strongly func(v string)
	)

	strongly = func(v string) {
		indexOf[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if _, visited := indexOf[w]; !visited {
				strongly(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indexOf[w] < lowlink[v] {
					lowlink[v] = indexOf[w]
				}
			}
		}

		if lowlink[v] == indexOf[v] {
			var comp []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, comp)
		}
	}

	for _, v := range g.Nodes {
		if _, visited := indexOf[v]; !visited {
			strongly(v)
		}
	}
	return sccs
}

// =============================================================================
// Phase Scheduling
// =============================================================================

// Schedule partitions every container into ordered phases using layered
// topological ordering over the condensation graph.
//
// Layer 0 holds the units with no remaining dependency; layer k holds units
// whose every ordering dependency sits in a layer below k, so for any
// ordering edge outside a cyclic cluster the dependency's phase precedes
// the dependent's. Ties within a layer break by ascending name.
//
// Each cyclic cluster occupies exactly one phase of its own, flagged for
// manual review and never parallel-safe internally; it can still run
// alongside unrelated phases. Plain-node layers become parallel-safe
// phases, since by construction no ordering edge connects two members of
// one layer.
func Schedule(g *depgraph.Graph) []Phase {
	units, unitOf := condense(g)

	// Dependency sets between units, self-loops removed by contraction.
	deps := make(map[string]map[string]struct{}, len(units))
	dependents := make(map[string]map[string]struct{}, len(units))
	for id := range units {
		deps[id] = make(map[string]struct{})
		dependents[id] = make(map[string]struct{})
	}
	for _, e := range g.OrderingEdges() {
		from, to := unitOf[e.From], unitOf[e.To]
		if from == to {
			continue
		}
		deps[from][to] = struct{}{}
		dependents[to][from] = struct{}{}
	}

	remaining := make(map[string]int, len(units))
	var ready []string
	for id, d := range deps {
		remaining[id] = len(d)
		if len(d) == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	var phases []Phase
	appendPhase := func(containers []string, cyclic bool, level int) {
		p := Phase{
			Index:      len(phases),
			Name:       fmt.Sprintf("Phase %d", len(phases)+1),
			Containers: containers,
			Parallel:   !cyclic,
			Cyclic:     cyclic,
		}
		if cyclic {
			p.Description = "Containers with circular dependencies - migrate as one unit, manual review required"
		} else {
			p.Description = fmt.Sprintf("Migrate containers with dependency level %d", level)
		}
		phases = append(phases, p)
	}

	for level := 0; len(ready) > 0; level++ {
		layer := ready
		ready = nil

		var plain []string
		var clusters []*unit
		for _, id := range layer {
			u := units[id]
			if u.cyclic {
				clusters = append(clusters, u)
			} else {
				plain = append(plain, u.id)
			}
		}

		// Cycle resolution first within the layer, then the parallel group.
		for _, u := range clusters {
			appendPhase(u.members, true, level)
		}
		if len(plain) > 0 {
			sort.Strings(plain)
			appendPhase(plain, false, level)
		}

		for _, id := range layer {
			next := make([]string, 0, len(dependents[id]))
			for dep := range dependents[id] {
				remaining[dep]--
				if remaining[dep] == 0 {
					next = append(next, dep)
				}
			}
			sort.Strings(next)
			ready = append(ready, next...)
		}
		sort.Strings(ready)
	}

	return phases
}

// StartupOrder flattens phases into the order containers should come up in.
func StartupOrder(phases []Phase) []string {
	var order []string
	for _, p := range phases {
		order = append(order, p.Containers...)
	}
	return order
}
