package testutils

import (
	"bufio"
	"net"
	"slices"
	"sync"
	"testing"

	"github.com/pior/routeros/wire"
)

// RouterHandler answers one received sentence with zero or more reply
// sentences.
type RouterHandler func(sentence []string) [][]string

// FakeRouter is a TCP server speaking the RouterOS API wire format.
// It records every sentence it receives.
type FakeRouter struct {
	listener net.Listener
	handler  RouterHandler

	mu        sync.Mutex
	sentences [][]string
	conns     int
	active    map[net.Conn]struct{}
	closed    bool
	wg        sync.WaitGroup
}

// NewFakeRouter starts a router on a random local port. It is stopped when
// the test ends.
func NewFakeRouter(t testing.TB, handler RouterHandler) *FakeRouter {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to start fake router: %v", err)
	}

	r := &FakeRouter{
		listener: listener,
		handler:  handler,
		active:   make(map[net.Conn]struct{}),
	}
	r.wg.Add(1)
	go r.serve()

	t.Cleanup(r.Close)
	return r
}

// Addr returns the listening address
func (r *FakeRouter) Addr() string {
	return r.listener.Addr().String()
}

// Sentences returns a copy of all sentences received so far
func (r *FakeRouter) Sentences() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.sentences...)
}

// Connections returns the number of accepted connections
func (r *FakeRouter) Connections() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conns
}

// Close stops the router, drops open connections and waits for its
// goroutines to finish. Closing twice is a no-op.
func (r *FakeRouter) Close() {
	r.listener.Close()

	r.mu.Lock()
	r.closed = true
	for conn := range r.active {
		conn.Close()
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *FakeRouter) serve() {
	defer r.wg.Done()
	for {
		conn, err := r.listener.Accept()
		if err != nil {
			return
		}

		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			conn.Close()
			return
		}
		r.conns++
		r.active[conn] = struct{}{}
		r.mu.Unlock()

		r.wg.Add(1)
		go r.handle(conn)
	}
}

func (r *FakeRouter) handle(conn net.Conn) {
	defer r.wg.Done()
	defer func() {
		conn.Close()
		r.mu.Lock()
		delete(r.active, conn)
		r.mu.Unlock()
	}()

	reader := bufio.NewReader(conn)
	for {
		sentence, err := wire.ReadSentence(reader)
		if err != nil {
			return
		}

		r.mu.Lock()
		r.sentences = append(r.sentences, sentence)
		r.mu.Unlock()

		var reply []byte
		for _, words := range r.handler(sentence) {
			reply = wire.AppendSentence(reply, words)
		}
		if len(reply) == 0 {
			continue
		}
		if _, err := conn.Write(reply); err != nil {
			return
		}
	}
}

// LoginHandler accepts the given credentials, rejects others with !trap and
// answers every other sentence with rows followed by !done.
func LoginHandler(username, password string, rows ...[]string) RouterHandler {
	return func(sentence []string) [][]string {
		if sentence[0] == wire.CmdLogin {
			if slices.Contains(sentence, wire.Attribute("name", username)) && slices.Contains(sentence, wire.Attribute("password", password)) {
				return [][]string{{wire.TagDone}}
			}
			return [][]string{
				{wire.TagTrap, "=message=invalid user name or password (6)"},
				{wire.TagDone},
			}
		}

		reply := make([][]string, 0, len(rows)+1)
		for _, row := range rows {
			reply = append(reply, append([]string{wire.TagRe}, row...))
		}
		return append(reply, []string{wire.TagDone})
	}
}
