// Package migration turns a dependency graph into an ordered migration
// plan: it enumerates circular dependencies, partitions containers into
// phases that respect every ordering edge, and estimates durations.
// Part of the Functional Core - pure in-memory computation.
package migration

// =============================================================================
// Plan Types
// =============================================================================

// Cycle is a canonicalized simple cycle: a non-empty node sequence where
// consecutive members (including wraparound) are connected by ordering
// edges, rotated so the lexicographically smallest name comes first.
type Cycle []string

// Phase is one group of containers sharing a position in the migration
// order.
type Phase struct {
	Index      int      `json:"index"`
	Name       string   `json:"name"`
	Containers []string `json:"containers"`

	// Parallel reports whether the members can migrate concurrently.
	// Always false for a cyclic cluster, which must move as one atomic
	// unit under manual review.
	Parallel bool `json:"parallel"`

	// Cyclic marks a phase holding one contracted cyclic cluster.
	Cyclic bool `json:"cyclic,omitempty"`

	Description string `json:"description"`
}

// Sequence is the complete migration plan. Computed once, immutable and
// consumed by the report layer.
type Sequence struct {
	Phases       []Phase  `json:"phases"`
	StartupOrder []string `json:"startup_order"`
	Cycles       []Cycle  `json:"cycles"`

	// Truncated reports that cycle enumeration hit its exploration cap.
	// Cycles already found remain valid.
	Truncated bool `json:"cycle_enumeration_truncated,omitempty"`

	Estimate Estimate `json:"estimated_duration"`
}
