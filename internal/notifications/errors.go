package notifications

import "errors"

var (
	// ErrNotFound indicates a notification was not found.
	ErrNotFound = errors.New("notification not found")

	// ErrAlreadyResponded indicates the notification was already
	// accepted or rejected; the first response wins.
	ErrAlreadyResponded = errors.New("notification already responded")
)
