// Package render turns an analysis report into human-readable text for
// terminal output. The JSON report is the machine contract; this is the
// operator-facing summary printed alongside it.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jeanremacle/PodShift/internal/core/report"
	"github.com/jeanremacle/PodShift/internal/core/snapshot"
)

// Text renders a terminal summary of the analysis report.
func Text(r *report.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dependency analysis completed\n\n")
	fmt.Fprintf(&b, "Summary:\n")
	fmt.Fprintf(&b, "  Containers analyzed:   %d\n", len(r.Containers))
	fmt.Fprintf(&b, "  Dependencies found:    %d\n", len(r.DependencyGraph.Edges))
	fmt.Fprintf(&b, "  Circular dependencies: %d\n", len(r.DependencyGraph.Cycles))
	fmt.Fprintf(&b, "  Migration phases:      %d\n", len(r.MigrationSequence.Phases))

	if len(r.MigrationSequence.Phases) > 0 {
		fmt.Fprintf(&b, "\nMigration sequence:\n")
		for _, phase := range r.MigrationSequence.Phases {
			mode := "sequential"
			if phase.Parallel {
				mode = "parallel"
			}
			fmt.Fprintf(&b, "  %s (%s): %s\n", phase.Name, mode, strings.Join(phase.Containers, ", "))
		}
	}

	est := r.MigrationSequence.EstimatedDuration
	if est.TotalContainers > 0 {
		fmt.Fprintf(&b, "\nEstimated migration time: %.1f hours\n", est.ParallelHours)
		fmt.Fprintf(&b, "Time savings vs sequential: %.1f%%\n", est.TimeSavingsPercent)
	}

	if len(r.DependencyGraph.Cycles) > 0 {
		fmt.Fprintf(&b, "\nCircular dependencies (migrate together, review manually):\n")
		for _, cycle := range r.DependencyGraph.Cycles {
			fmt.Fprintf(&b, "  %s\n", strings.Join(cycle, " -> "))
		}
	}

	if len(r.Diagnostics) > 0 {
		fmt.Fprintf(&b, "\nDiagnostics:\n")
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&b, "  [%s] %s", d.Severity, d.Message)
			if d.Node != "" {
				fmt.Fprintf(&b, " (container: %s)", d.Node)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// ContainersOnly renders just the container inventory, for runs that
// skip dependency analysis.
func ContainersOnly(snap *snapshot.Snapshot) string {
	var b strings.Builder

	containers := make([]snapshot.ContainerNode, len(snap.Containers))
	copy(containers, snap.Containers)
	sort.Slice(containers, func(i, j int) bool {
		return containers[i].Name < containers[j].Name
	})

	fmt.Fprintf(&b, "Containers (%d):\n", len(containers))
	for _, c := range containers {
		fmt.Fprintf(&b, "  %-24s %-32s %s\n", c.Name, c.Image, c.Status)
	}
	return b.String()
}
