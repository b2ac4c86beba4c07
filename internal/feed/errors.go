package feed

import (
	"errors"
	"fmt"
)

// ErrNoCredential is returned when no valid credential is available. It is
// raised before any network call; the retained set and cursor are untouched.
var ErrNoCredential = errors.New("no valid credential")

// TransportError covers an unreachable server, a timeout, or a non-2xx
// response. On Refresh and LoadMore the previously retained data survives it.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseParseError means the response envelope itself could not be
// decoded. Distinct from per-record extras rejection, but handled like a
// transport failure.
type ResponseParseError struct {
	Err error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *ResponseParseError) Unwrap() error { return e.Err }
