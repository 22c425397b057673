package assistant

import (
	"errors"
	"fmt"
)

// RequestError is a non-retriable upstream rejection (4xx). The
// request is the caller's fault; retrying the same payload cannot help.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("assistant: request rejected: status %d: %s", e.Status, e.Body)
}

// TransientError is returned after bounded retries of 5xx or network
// failures are exhausted.
type TransientError struct {
	Attempts int
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("assistant: transient failure after %d attempts: %v", e.Attempts, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// MalformedResponseError indicates the assistant returned output that
// could not be parsed as JSON. Never retried: the same request would
// produce the same garbage.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("assistant: malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsRetriable reports whether err may succeed on a later identical call.
func IsRetriable(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
