package wire

import "fmt"

// DecodeError is returned when a buffer or stream does not hold a valid
// sequence of words: a reserved length marker, or a prefix or word cut short.
//
// Connection handling: the byte stream is out of sync, CLOSE the connection.
type DecodeError struct {
	Message string
	Offset  int   // Byte offset where decoding failed, -1 for streams
	Err     error // Underlying error, if any
}

func (e *DecodeError) Error() string {
	msg := "decode error: " + e.Message
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ShouldCloseConnection returns true - the stream position is unknown
func (e *DecodeError) ShouldCloseConnection() bool {
	return true
}
