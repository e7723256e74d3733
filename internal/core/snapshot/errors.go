package snapshot

import "errors"

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrNilSnapshot is returned when no snapshot was provided at all.
	ErrNilSnapshot = errors.New("snapshot is nil")

	// ErrEmptySnapshot is returned when the snapshot holds zero containers.
	// No meaningful graph can be produced from it.
	ErrEmptySnapshot = errors.New("snapshot contains no containers")
)

// Validate checks that the snapshot is structurally usable.
// Per-node problems are not validation failures; extractors tolerate
// those individually and record diagnostics.
func (s *Snapshot) Validate() error {
	if s == nil {
		return ErrNilSnapshot
	}
	if len(s.Containers) == 0 {
		return ErrEmptySnapshot
	}
	return nil
}
