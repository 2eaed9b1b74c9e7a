package apiclient

import (
	"errors"
	"fmt"
)

// TransportError means no response was received: DNS, connect, timeout, or
// an open circuit breaker.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: transport: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a non-2xx answer. Message is what the backend put in the
// body's "message" (or "error") field, possibly empty.
type ServerError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

// ProtocolError is a 2xx answer whose body does not have the expected shape.
type ProtocolError struct {
	Op     string
	Field  string
	Reason string
}

func (e *ProtocolError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: invalid response: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s: invalid response: missing %q", e.Op, e.Field)
}

// Message turns any adapter error into the single string a slice stores:
// the server's own message when it sent one, fallback otherwise.
func Message(err error, fallback string) string {
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
