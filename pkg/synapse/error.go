package synapse

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownMessage is returned for a message no handler is registered for
	ErrUnknownMessage = errors.New("synapse: unknown message")

	// ErrBadPayload is returned when a payload does not fit the handler's parameters
	ErrBadPayload = errors.New("synapse: bad payload")
)

// NotImplementedError is the panic value of a server stub that was not
// overridden. It is not an ordinary failure: a Mux recovers it and reports it
// to the caller, any other panic keeps unwinding.
type NotImplementedError struct {
	Message string
}

// NotImplemented returns the panic value for the message name
func NotImplemented(name string) *NotImplementedError {
	return &NotImplementedError{Message: name}
}

func (e *NotImplementedError) Error() string {
	return "not implemented " + e.Message
}

// RemoteError is a failure reported by the other side. Its message is the
// remote error's message, unchanged.
type RemoteError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`

	cause error
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Unwrap returns the original error when the remote side ran in process
func (e *RemoteError) Unwrap() error {
	return e.cause
}

func unknownMessage(name string) error {
	return fmt.Errorf("%w %q", ErrUnknownMessage, name)
}

func badPayload(name string, err error) error {
	return fmt.Errorf("%w for %q: %v", ErrBadPayload, name, err)
}
