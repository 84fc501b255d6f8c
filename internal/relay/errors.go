package relay

import (
	"errors"
	"fmt"
	"net/http"
)

// UpstreamRejectedError reports an upstream that answered with a non-success status.
type UpstreamRejectedError struct {
	// Action completes the sentence "Failed to <Action>", e.g. "fetch PDB file".
	Action     string
	Status     int
	StatusText string
}

func (e *UpstreamRejectedError) Error() string {
	return fmt.Sprintf("Failed to %s: %s", e.Action, e.StatusText)
}

// TransportError reports an outbound call that could not complete: network,
// DNS or response decoding failures.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "upstream transport failure"
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusFor maps a relay error to the status code returned to the caller.
func StatusFor(err error) int {
	var rejected *UpstreamRejectedError
	if errors.As(err, &rejected) && rejected.Status > 0 {
		return rejected.Status
	}
	return http.StatusInternalServerError
}
