package routeros

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/pior/routeros/wire"
)

// readChunkSize is the size of a single Read from the socket.
const readChunkSize = 4096

// Connection is a single API connection to a router.
type Connection struct {
	addr     string
	conn     net.Conn
	maxReply int
	mu       sync.Mutex
	closed   bool
}

// NewConnection wraps an established net.Conn. Replies are limited to
// DefaultMaxReplySize bytes.
func NewConnection(conn net.Conn) *Connection {
	return &Connection{
		addr:     conn.RemoteAddr().String(),
		conn:     conn,
		maxReply: DefaultMaxReplySize,
	}
}

// WriteSentence writes words as one sentence and returns the number of words
// written. The write is bounded by timeout, if positive, and by ctx.
func (c *Connection) WriteSentence(ctx context.Context, timeout time.Duration, words []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, ErrSessionClosed
	}

	if deadline, ok := ioDeadline(ctx, timeout); ok {
		if err := c.conn.SetWriteDeadline(deadline); err != nil {
			return 0, &ConnectionError{Op: "write", Err: err}
		}
		defer c.conn.SetWriteDeadline(time.Time{})
	}

	// unblock the pending Write when the caller gives up
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetWriteDeadline(time.Now())
	})
	defer stop()

	n, err := wire.WriteSentence(c.conn, words)
	if err != nil {
		// part of the sentence may be on the wire, the connection is unusable
		if ctxErr := ctx.Err(); ctxErr != nil && isTimeout(err) {
			err = ctxErr
		}
		return 0, &ConnectionError{Op: "write", Err: err}
	}
	return n, nil
}

// ioDeadline returns the earlier of now+timeout and the ctx deadline.
// ok is false when neither bounds the operation.
func ioDeadline(ctx context.Context, timeout time.Duration) (deadline time.Time, ok bool) {
	if timeout > 0 {
		deadline, ok = time.Now().Add(timeout), true
	}
	if d, has := ctx.Deadline(); has && (!ok || d.Before(deadline)) {
		deadline, ok = d, true
	}
	return deadline, ok
}

// ReadReply accumulates reply bytes until done reports a complete reply, the
// timeout elapses, or the context deadline passes, whichever comes first.
//
// When the wait ends without done firing, the bytes received so far are the
// reply. With nothing received it returns ErrNoData on timeout, or a
// *ConnectionError when the connection failed or the reply outgrew the size
// limit. A nil done always waits for the full timeout.
func (c *Connection) ReadReply(ctx context.Context, timeout time.Duration, done CompletionFunc) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrSessionClosed
	}

	deadline, _ := ioDeadline(ctx, timeout)
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, &ConnectionError{Op: "read", Err: err}
	}
	defer c.conn.SetReadDeadline(time.Time{})

	// unblock the pending Read when the caller gives up
	stop := context.AfterFunc(ctx, func() {
		c.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	var buf []byte
	chunk := make([]byte, readChunkSize)
	for {
		n, err := c.conn.Read(chunk)
		if n > 0 {
			if c.maxReply > 0 && len(buf)+n > c.maxReply {
				return nil, &ConnectionError{Op: "read", Err: ErrReplyTooLarge}
			}
			buf = append(buf, chunk[:n]...)
			if done != nil && done(buf) {
				return buf, nil
			}
		}
		if err == nil {
			continue
		}

		if ctxErr := ctx.Err(); ctxErr != nil && isTimeout(err) {
			return nil, ctxErr
		}
		if len(buf) > 0 && (isTimeout(err) || errors.Is(err, io.EOF)) {
			return buf, nil
		}
		if isTimeout(err) {
			return nil, ErrNoData
		}
		return nil, &ConnectionError{Op: "read", Err: err}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Addr returns the remote address
func (c *Connection) Addr() string {
	return c.addr
}

// IsClosed returns whether the connection is closed
func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close closes the connection. Closing twice is a no-op.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	return c.conn.Close()
}
