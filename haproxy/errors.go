package haproxy

import (
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
)

// Sentinel errors for the admin socket protocol.
var (
	// ErrParseFailure indicates a malformed or unexpected response.
	ErrParseFailure = errors.New("failed to parse response")

	// ErrUnknownID indicates HAProxy does not know the referenced ACL id.
	ErrUnknownID = errors.New("unknown ACL identifier")

	// ErrMissingParameters indicates HAProxy rejected a command for missing
	// required parameters.
	ErrMissingParameters = errors.New("missing command parameters")

	// ErrConnUsed indicates a command was issued on a connection that has
	// already carried one. Connections are single use.
	ErrConnUsed = errors.New("connection already used")

	// ErrSocketNotFound indicates no admin socket was found.
	ErrSocketNotFound = errors.New("no admin socket found")
)

// ParseError represents a failure decoding a response or command line.
type ParseError struct {
	Kind  ParseErrorKind
	Value string // The offending text, when available
}

// ParseErrorKind categorizes parse errors.
type ParseErrorKind int

const (
	// ErrKindParseFailure indicates text that could not be decoded.
	ErrKindParseFailure ParseErrorKind = iota
	// ErrKindUnknownID indicates HAProxy reported an unknown ACL id.
	ErrKindUnknownID
	// ErrKindMissingParameters indicates HAProxy reported missing parameters.
	ErrKindMissingParameters
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrKindUnknownID:
		return fmt.Sprintf("unknown ACL identifier: %s", e.Value)
	case ErrKindMissingParameters:
		return fmt.Sprintf("missing parameters: %s", e.Value)
	default:
		if e.Value == "" {
			return "parse failure"
		}
		return fmt.Sprintf("parse failure: %q", e.Value)
	}
}

// Is reports whether target is the sentinel matching this error's kind.
func (e *ParseError) Is(target error) bool {
	switch e.Kind {
	case ErrKindUnknownID:
		return target == ErrUnknownID
	case ErrKindMissingParameters:
		return target == ErrMissingParameters
	default:
		return target == ErrParseFailure
	}
}

func newParseFailure(value string) error {
	return &ParseError{Kind: ErrKindParseFailure, Value: value}
}

func newUnknownIDError(value string) error {
	return &ParseError{Kind: ErrKindUnknownID, Value: value}
}

func newMissingParametersError(value string) error {
	return &ParseError{Kind: ErrKindMissingParameters, Value: value}
}

// IOError wraps a transport failure. It is never retried.
type IOError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *IOError) Unwrap() error {
	return e.Err
}

func newIOError(op string, err error) error {
	return &IOError{Op: op, Err: err}
}

// IsExpectedClose reports whether err is a normal connection termination:
// EOF, closed connection, broken pipe, or connection reset.
func IsExpectedClose(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE || errno == syscall.ECONNRESET
	}
	return false
}
