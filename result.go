package routeros

import (
	"context"
	"encoding/json"
	"errors"
)

// Shape selects the form of a successful Execute payload.
type Shape int

const (
	// ShapeWords returns the raw decoded reply words.
	ShapeWords Shape = iota

	// ShapeRecords returns one record per !re row.
	ShapeRecords
)

// Result is the success/failure envelope handed to outer layers.
// It marshals to {"success":true,"data":...} or
// {"success":false,"error":{"kind":...,"message":...,"detail":...}}.
type Result struct {
	Success bool
	Data    any          // []string or []wire.Record
	Error   *ResultError // Set when Success is false
}

// ResultError describes a failed exchange.
type ResultError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"` // Underlying error, when there is one
}

// NewResult wraps a successful payload.
func NewResult(data any) Result {
	return Result{Success: true, Data: data}
}

// NewErrorResult wraps err.
func NewErrorResult(err error) Result {
	re := &ResultError{
		Kind:    KindOf(err),
		Message: err.Error(),
	}
	if cause := errors.Unwrap(err); cause != nil {
		re.Detail = cause.Error()
	}
	return Result{Error: re}
}

// MarshalJSON keeps "data" on success, even when empty, and omits it on
// failure.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Success {
		return json.Marshal(struct {
			Success bool `json:"success"`
			Data    any  `json:"data"`
		}{true, r.Data})
	}
	return json.Marshal(struct {
		Success bool         `json:"success"`
		Error   *ResultError `json:"error"`
	}{false, r.Error})
}

// Execute runs one command and returns the envelope. It never returns a Go
// error: every failure is reported inside the Result.
func (s *Session) Execute(ctx context.Context, words []string, shape Shape) Result {
	if shape == ShapeRecords {
		records, err := s.TalkRecords(ctx, words)
		if err != nil {
			return NewErrorResult(err)
		}
		return NewResult(records)
	}

	reply, err := s.Talk(ctx, words)
	if err != nil {
		return NewErrorResult(err)
	}
	return NewResult(reply)
}
