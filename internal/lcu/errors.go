package lcu

import (
	"errors"
	"fmt"
)

var (
	// ErrClientNotFound is returned when no running client process exists.
	ErrClientNotFound = errors.New("league client not found")

	// ErrCredentialExtraction is returned when the client process exists but
	// its port or auth token could not be read from the command line.
	ErrCredentialExtraction = errors.New("failed to extract client credentials")
)

// DiscoveryError wraps one of ErrClientNotFound or ErrCredentialExtraction
// with the detail that caused it.
type DiscoveryError struct {
	Kind   error
	Detail string
}

func (e *DiscoveryError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
}

func (e *DiscoveryError) Unwrap() error { return e.Kind }

// TransportError is a request-level network failure.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseError is a non-2xx reply from a command endpoint.
type ResponseError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Body)
}

// ChannelError reports that the event stream closed or broke. It ends the
// read loop; reconnecting is left to the caller.
type ChannelError struct {
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("event channel closed: %v", e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }
