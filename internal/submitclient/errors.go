package submitclient

import (
	"errors"
	"fmt"
)

// ErrIncomplete is returned when the local pre-check fails and no request is sent.
var ErrIncomplete = errors.New("submitclient: required fields missing")

// TransportError means the request never produced an HTTP response. It is the
// only failure the client retries.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("submitclient: transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RejectedError is a response from the server that signals failure. Message
// carries the server's "error" field when one was returned.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("submitclient: rejected (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("submitclient: server error: %d", e.Status)
}

// IsTransport reports whether err is (or wraps) a *TransportError.
func IsTransport(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr)
}
