package routeros

import (
	"context"
	"errors"
	"fmt"

	"github.com/pior/routeros/wire"
	"github.com/sony/gobreaker/v2"
)

// ErrNoData is returned when the read timeout elapses before any byte of the
// reply arrived.
var ErrNoData = errors.New("routeros: no data received")

// ErrReplyTooLarge is wrapped in a *ConnectionError when a reply exceeds
// Config.MaxReplySize.
var ErrReplyTooLarge = errors.New("routeros: reply too large")

// ErrSessionClosed is returned by operations on a closed session.
var ErrSessionClosed = errors.New("routeros: session closed")

// ConnectionError wraps socket-level failures.
//
// Connection handling: the connection is broken, CLOSE it.
type ConnectionError struct {
	Op  string // Operation that failed (dial, read, write)
	Err error  // Underlying error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("routeros: connection error during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns true - connection errors mean connection is broken
func (e *ConnectionError) ShouldCloseConnection() bool {
	return true
}

// LoginError is returned when the router rejects the login sentence or the
// login exchange never completes.
type LoginError struct {
	Message string // Router message, when the router sent one
	Err     error  // Underlying error, if any
}

func (e *LoginError) Error() string {
	msg := "routeros: login failed"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *LoginError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns true - an unauthenticated connection is useless
func (e *LoginError) ShouldCloseConnection() bool {
	return true
}

// WriteError is returned when no word of a sentence was written, typically
// because the session is not logged in.
type WriteError struct {
	Message string
}

func (e *WriteError) Error() string {
	return "routeros: nothing written: " + e.Message
}

// ShouldCloseConnection returns false - nothing reached the wire
func (e *WriteError) ShouldCloseConnection() bool {
	return false
}

// TrapError is returned when the router answers a command with !trap or
// !fatal.
type TrapError struct {
	Tag      string // !trap or !fatal
	Category string // Error category, empty when absent
	Message  string
}

func (e *TrapError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("routeros: %s (category %s): %s", e.Tag, e.Category, e.Message)
	}
	return fmt.Sprintf("routeros: %s: %s", e.Tag, e.Message)
}

// ShouldCloseConnection returns true - a trailing !done may still be in flight
func (e *TrapError) ShouldCloseConnection() bool {
	return true
}

func newTrapError(reply wire.Reply) *TrapError {
	category, _ := reply.Attr(wire.AttrCategory)
	return &TrapError{Tag: reply.Tag, Category: category, Message: reply.Message()}
}

// ErrorWithConnectionState is an interface for errors that indicate
// whether the connection should be closed.
type ErrorWithConnectionState interface {
	error
	ShouldCloseConnection() bool
}

// ShouldCloseConnection reports whether err leaves the connection unusable.
// Unknown errors close the connection.
func ShouldCloseConnection(err error) bool {
	if err == nil {
		return false
	}

	var e ErrorWithConnectionState
	if errors.As(err, &e) {
		return e.ShouldCloseConnection()
	}

	return true
}

// ErrorKind classifies errors for the result envelope.
type ErrorKind string

const (
	KindConnection  ErrorKind = "connection"
	KindLogin       ErrorKind = "login"
	KindWrite       ErrorKind = "write"
	KindTimeout     ErrorKind = "timeout"
	KindCanceled    ErrorKind = "canceled"
	KindDecode      ErrorKind = "decode"
	KindTrap        ErrorKind = "trap"
	KindUnavailable ErrorKind = "unavailable"
	KindInternal    ErrorKind = "internal"
)

// KindOf classifies err. Login errors win over their causes. KindCanceled
// means the caller gave up, not that the router failed.
func KindOf(err error) ErrorKind {
	var (
		loginErr *LoginError
		writeErr *WriteError
		trapErr  *TrapError
		decErr   *wire.DecodeError
		connErr  *ConnectionError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &loginErr):
		return KindLogin
	case errors.Is(err, ErrNoData), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &writeErr):
		return KindWrite
	case errors.As(err, &trapErr):
		return KindTrap
	case errors.As(err, &decErr):
		return KindDecode
	case errors.As(err, &connErr), errors.Is(err, ErrSessionClosed):
		return KindConnection
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return KindUnavailable
	default:
		return KindInternal
	}
}
