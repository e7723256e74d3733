package docker

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	ErrConnectionFailed = errors.New("docker connection failed")
	ErrListFailed       = errors.New("listing docker resources failed")
)

// CollectError wraps errors with the operation and entity that failed.
type CollectError struct {
	Op      string // Operation that failed
	Entity  string // Entity type (container, network, volume)
	ID      string // Entity ID if applicable
	Message string
	Err     error
}

func (e *CollectError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %s", e.Op, e.Entity, e.ID, e.Message)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Entity, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *CollectError) Unwrap() error {
	return e.Err
}

// NewCollectError creates a new CollectError.
func NewCollectError(op, entity, id, message string, err error) *CollectError {
	return &CollectError{
		Op:      op,
		Entity:  entity,
		ID:      id,
		Message: message,
		Err:     err,
	}
}
