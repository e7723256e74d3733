// Package resolver runs the full dependency resolution pipeline over one
// snapshot: extraction, graph building, cycle detection, phase scheduling
// and duration estimation. The pipeline is synchronous from the caller's
// view and deterministic: the same snapshot and config always produce the
// same result.
package resolver

import (
	"fmt"

	"github.com/jeanremacle/PodShift/internal/core/depgraph"
	"github.com/jeanremacle/PodShift/internal/core/migration"
	"github.com/jeanremacle/PodShift/internal/core/report"
	"github.com/jeanremacle/PodShift/internal/core/snapshot"
)

// =============================================================================
// Configuration
// =============================================================================

// Config tunes one resolution run. The zero value selects all extractors
// and the default estimation parameters.
type Config struct {
	// PerContainerMinutes is the flat migration estimate per container.
	PerContainerMinutes float64

	// ComplexityMultiplier scales estimates for containers with volume or
	// env-reference ordering edges.
	ComplexityMultiplier float64

	// CyclePathLimit caps cycle enumeration; <= 0 uses the default.
	CyclePathLimit int

	// Extractors restricts relationship categories. Empty enables all.
	Extractors []depgraph.EdgeKind

	// Meta is caller-supplied run identity, echoed into the report.
	Meta report.Meta
}

// Result bundles everything one run produces.
type Result struct {
	Report      *report.Report
	Graph       *depgraph.Graph
	Sequence    *migration.Sequence
	Diagnostics []depgraph.Diagnostic
}

// =============================================================================
// Pipeline
// =============================================================================

// Resolve analyzes the snapshot end-to-end and returns the migration plan
// with accumulated diagnostics. A structurally unusable snapshot (no
// containers) is the only fatal condition; every recoverable issue is
// recorded as a diagnostic instead.
func Resolve(snap *snapshot.Snapshot, cfg Config) (*Result, error) {
	graph, diags, err := depgraph.Build(snap, depgraph.BuildOptions{Kinds: cfg.Extractors})
	if err != nil {
		return nil, fmt.Errorf("building dependency graph: %w", err)
	}

	cycles, truncated := migration.EnumerateCycles(graph, cfg.CyclePathLimit)
	if truncated {
		diags = append(diags, depgraph.Diagnostic{
			Severity: depgraph.SeverityWarning,
			Code:     depgraph.DiagCycleTruncated,
			Message:  "cycle enumeration truncated at the configured path limit; cycles found so far remain valid",
		})
	}

	phases := migration.Schedule(graph)
	seq := &migration.Sequence{
		Phases:       phases,
		StartupOrder: migration.StartupOrder(phases),
		Cycles:       cycles,
		Truncated:    truncated,
		Estimate:     migration.EstimateDuration(graph, phases, cfg.PerContainerMinutes, cfg.ComplexityMultiplier),
	}

	return &Result{
		Report:      report.Build(snap, graph, seq, diags, cfg.Meta),
		Graph:       graph,
		Sequence:    seq,
		Diagnostics: diags,
	}, nil
}
