package core

import (
	"errors"
	"fmt"
)

// ErrNoNodes is returned when a cluster is constructed without any node URLs.
var ErrNoNodes = errors.New("no cluster nodes provided")

// ServerError is a structured error reported by the SQL endpoint of the
// cluster. Two server errors are considered equal when their message and
// code match.
type ServerError struct {
	Message string
	Code    string
}

func NewServerError(message string, code string) *ServerError {
	return &ServerError{
		Message: message,
		Code:    code,
	}
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Error [Code %s]: %s", e.Code, e.Message)
}

// Is matches server errors by (message, code) so that errors.Is can be
// used with an expected error value.
func (e *ServerError) Is(target error) bool {
	var t *ServerError
	if !errors.As(target, &t) {
		return false
	}
	return e.Message == t.Message && e.Code == t.Code
}

// BackendError is a failure below the protocol layer - the transport
// itself, local I/O or an invalid request (e.g. a missing URL).
type BackendError struct {
	Description string

	// underlying cause, if any
	Err error
}

func NewBackendError(description string) *BackendError {
	return &BackendError{Description: description}
}

// NewTransportError wraps a failure of the underlying transport.
func NewTransportError(err error) *BackendError {
	return &BackendError{
		Description: fmt.Sprintf("Error on Transport: %v", err),
		Err:         err,
	}
}

// NewIOError wraps a local I/O failure (reading a response body or a blob
// source).
func NewIOError(err error) *BackendError {
	return &BackendError{
		Description: fmt.Sprintf("Error on I/O: %v", err),
		Err:         err,
	}
}

func (e *BackendError) Error() string {
	return e.Description
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// BlobError wraps failures of blob operations. Exactly one of Action or
// Transport is set: Action when the server answered with a non-ok status,
// Transport when the request never produced a usable response.
type BlobError struct {
	Action    *ServerError
	Transport *BackendError
}

func (e *BlobError) Error() string {
	if e.Action != nil {
		return e.Action.Error()
	}
	if e.Transport != nil {
		return e.Transport.Error()
	}
	return "blob error"
}

func (e *BlobError) Unwrap() error {
	if e.Action != nil {
		return e.Action
	}
	if e.Transport != nil {
		return e.Transport
	}
	return nil
}
