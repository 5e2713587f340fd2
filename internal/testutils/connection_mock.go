package testutils

import (
	"bytes"
	"net"
	"os"
	"sync"
	"time"

	"github.com/pior/routeros/wire"
)

// ConnectionMock is a mock implementation of net.Conn for testing.
//
// Reads are served from scripted chunks, one chunk per Read call. Once the
// chunks run out, Read fails with a deadline error, the way a silent router
// behaves under a read deadline.
type ConnectionMock struct {
	mu       sync.Mutex
	chunks   [][]byte
	writeBuf bytes.Buffer
	writes   int
	readErr  error
	closed   bool
}

// NewConnectionMock creates a mock connection that serves each chunk on its
// own Read call.
func NewConnectionMock(chunks ...[]byte) *ConnectionMock {
	return &ConnectionMock{chunks: chunks}
}

// NewSentenceMock creates a mock connection whose single chunk is the wire
// form of the given sentences.
func NewSentenceMock(sentences ...[]string) *ConnectionMock {
	var buf []byte
	for _, words := range sentences {
		buf = wire.AppendSentence(buf, words)
	}
	return NewConnectionMock(buf)
}

// FailReadsWith makes Read return err once the chunks are exhausted.
func (m *ConnectionMock) FailReadsWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

func (m *ConnectionMock) Read(b []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, net.ErrClosed
	}
	if len(m.chunks) == 0 {
		if m.readErr != nil {
			return 0, m.readErr
		}
		return 0, os.ErrDeadlineExceeded
	}

	n = copy(b, m.chunks[0])
	if n < len(m.chunks[0]) {
		m.chunks[0] = m.chunks[0][n:]
	} else {
		m.chunks = m.chunks[1:]
	}
	return n, nil
}

func (m *ConnectionMock) Write(b []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, net.ErrClosed
	}
	m.writes++
	return m.writeBuf.Write(b)
}

func (m *ConnectionMock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// IsClosed reports whether Close was called
func (m *ConnectionMock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *ConnectionMock) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (m *ConnectionMock) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8728}
}

func (m *ConnectionMock) SetDeadline(t time.Time) error      { return nil }
func (m *ConnectionMock) SetReadDeadline(t time.Time) error  { return nil }
func (m *ConnectionMock) SetWriteDeadline(t time.Time) error { return nil }

// Written returns the raw bytes written to the mock connection
func (m *ConnectionMock) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bytes.Clone(m.writeBuf.Bytes())
}

// WriteCalls returns the number of Write calls received
func (m *ConnectionMock) WriteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
