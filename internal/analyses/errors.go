package analyses

import "errors"

var (
	// ErrNotFound indicates an analysis was not found.
	ErrNotFound = errors.New("analysis not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
)
