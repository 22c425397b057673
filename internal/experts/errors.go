package experts

import "errors"

var (
	// ErrNotFound indicates an expert was not found.
	ErrNotFound = errors.New("expert not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
)
