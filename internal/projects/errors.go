package projects

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the project does not exist.
	ErrNotFound = errors.New("project not found")

	// ErrStaleState indicates a conditional write lost to a concurrent
	// transition of the same project.
	ErrStaleState = errors.New("project state changed concurrently")
)

// InvalidTransitionError names an illegal state change. The project is
// left untouched.
type InvalidTransitionError struct {
	From State
	To   State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}
