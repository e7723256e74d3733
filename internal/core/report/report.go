// Package report assembles the serializable analysis output consumed by the
// report renderer. The field grouping here - containers, dependency_graph,
// migration_sequence - is the compatibility contract; any encoding must
// preserve it.
package report

import (
	"sort"
	"time"

	"github.com/jeanremacle/PodShift/internal/core/depgraph"
	"github.com/jeanremacle/PodShift/internal/core/migration"
	"github.com/jeanremacle/PodShift/internal/core/snapshot"
)

// =============================================================================
// Output Contract
// =============================================================================

// Report is the complete result of one analysis run.
type Report struct {
	AnalysisID  string    `json:"analysis_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Containers        map[string]ContainerSummary `json:"containers"`
	DependencyGraph   GraphSection                `json:"dependency_graph"`
	MigrationSequence SequenceSection             `json:"migration_sequence"`
	Diagnostics       []depgraph.Diagnostic       `json:"diagnostics,omitempty"`
}

// ContainerSummary is the per-container view, keyed by name.
type ContainerSummary struct {
	ID         string   `json:"id"`
	Image      string   `json:"image,omitempty"`
	Status     string   `json:"status,omitempty"`
	DependsOn  []string `json:"depends_on"`
	DependedBy []string `json:"depended_by"`
}

// GraphSection mirrors the dependency graph.
type GraphSection struct {
	Nodes        []string          `json:"nodes"`
	Edges        []EdgeSummary     `json:"edges"`
	Cycles       []migration.Cycle `json:"cycles"`
	StartupOrder []string          `json:"startup_order"`
}

// EdgeSummary is one edge in wire form.
type EdgeSummary struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// SequenceSection mirrors the migration plan.
type SequenceSection struct {
	Phases            []PhaseSummary     `json:"phases"`
	TotalPhases       int                `json:"total_phases"`
	EstimatedDuration migration.Estimate `json:"estimated_duration"`
}

// PhaseSummary is one phase in wire form.
type PhaseSummary struct {
	Name        string   `json:"name"`
	Containers  []string `json:"containers"`
	Parallel    bool     `json:"parallel"`
	Description string   `json:"description"`
}

// Meta carries caller-supplied run identity. Kept out of the resolver's
// computation so resolving the same snapshot stays byte-identical.
type Meta struct {
	AnalysisID  string
	GeneratedAt time.Time
}

// =============================================================================
// Assembly
// =============================================================================

// Build assembles the report from the resolved graph and sequence.
func Build(snap *snapshot.Snapshot, g *depgraph.Graph, seq *migration.Sequence, diags []depgraph.Diagnostic, meta Meta) *Report {
	r := &Report{
		AnalysisID:  meta.AnalysisID,
		GeneratedAt: meta.GeneratedAt,
		Containers:  make(map[string]ContainerSummary, len(snap.Containers)),
		Diagnostics: diags,
	}

	dependsOn := make(map[string][]string)
	dependedBy := make(map[string][]string)
	for _, e := range g.OrderingEdges() {
		dependsOn[e.From] = append(dependsOn[e.From], e.To)
		dependedBy[e.To] = append(dependedBy[e.To], e.From)
	}

	for _, c := range snap.Containers {
		if !g.HasNode(c.Name) {
			continue
		}
		r.Containers[c.Name] = ContainerSummary{
			ID:         c.ID,
			Image:      c.Image,
			Status:     c.Status,
			DependsOn:  sortedUnique(dependsOn[c.Name]),
			DependedBy: sortedUnique(dependedBy[c.Name]),
		}
	}

	edges := make([]EdgeSummary, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, EdgeSummary{From: e.From, To: e.To, Type: string(e.Kind)})
	}

	cycles := seq.Cycles
	if cycles == nil {
		cycles = []migration.Cycle{}
	}

	r.DependencyGraph = GraphSection{
		Nodes:        g.Nodes,
		Edges:        edges,
		Cycles:       cycles,
		StartupOrder: seq.StartupOrder,
	}

	phases := make([]PhaseSummary, 0, len(seq.Phases))
	for _, p := range seq.Phases {
		phases = append(phases, PhaseSummary{
			Name:        p.Name,
			Containers:  p.Containers,
			Parallel:    p.Parallel,
			Description: p.Description,
		})
	}
	r.MigrationSequence = SequenceSection{
		Phases:            phases,
		TotalPhases:       len(phases),
		EstimatedDuration: seq.Estimate,
	}

	return r
}

func sortedUnique(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	sort.Strings(in)
	out := in[:1]
	for _, s := range in[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
