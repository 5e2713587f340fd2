package routeros

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pior/routeros/wire"
)

// State is the lifecycle state of a Session.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateLoggedIn
	StateSending
	StateAwaitingReply
	StateIdle
	StateClosed
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateLoggedIn:
		return "logged-in"
	case StateSending:
		return "sending"
	case StateAwaitingReply:
		return "awaiting-reply"
	case StateIdle:
		return "idle"
	case StateClosed:
		return "closed"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Session talks to one router over one connection at a time.
//
// Exchanges on a session are serialized: a second Talk waits for the first
// to finish. The connection is opened lazily by Login.
type Session struct {
	config   Config
	complete CompletionFunc
	breaker  CircuitBreaker
	logger   *slog.Logger

	mu   sync.Mutex
	conn *Connection

	loggedIn atomic.Bool
	state    atomic.Int32

	stats sessionStatsCollector
}

// NewSession creates a session for the router described by config.
// No connection is opened until the first Login or Talk.
func NewSession(config Config) *Session {
	config = config.withDefaults()

	s := &Session{
		config:   config,
		complete: config.Completion.predicate(),
		logger:   config.Logger.With("addr", config.Address),
	}
	if config.NewCircuitBreaker != nil {
		s.breaker = config.NewCircuitBreaker(config.Address)
	}
	return s
}

// Addr returns the router address
func (s *Session) Addr() string {
	return s.config.Address
}

// State returns the current lifecycle state
func (s *Session) State() State {
	return State(s.state.Load())
}

// LoggedIn reports whether the current connection is authenticated
func (s *Session) LoggedIn() bool {
	return s.loggedIn.Load()
}

// CircuitBreakerState returns the state of the breaker guarding the session.
func (s *Session) CircuitBreakerState() CircuitBreakerState {
	if s.breaker == nil {
		return CircuitBreakerState{}
	}
	return CircuitBreakerState{Enabled: true, State: s.breaker.State()}
}

func (s *Session) setState(state State) {
	s.state.Store(int32(state))
}

// Login opens the connection if needed and authenticates with the configured
// credentials. A rejected login leaves the session logged out with its
// connection released.
func (s *Session) Login(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.login(ctx)
}

// Talk sends one command sentence and returns the decoded reply words,
// sentence terminators included. Under ReauthEveryCommand it logs in first
// and closes the connection afterwards.
//
// A reply carrying !trap or !fatal is not returned as words: Talk fails with
// a *TrapError holding the router's message and category.
func (s *Session) Talk(ctx context.Context, words []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.breaker == nil {
		return s.talk(ctx, words)
	}
	return s.breaker.Execute(func() ([]string, error) {
		return s.talk(ctx, words)
	})
}

// TalkRecords is Talk with the reply converted to one Record per !re row.
func (s *Session) TalkRecords(ctx context.Context, words []string) ([]wire.Record, error) {
	reply, err := s.Talk(ctx, words)
	if err != nil {
		return nil, err
	}
	return wire.ToRecords(reply), nil
}

// WriteSentence writes words on the open connection. Unless the session is
// logged in, only a /login sentence is written; anything else writes nothing
// and returns a *WriteError.
func (s *Session) WriteSentence(ctx context.Context, words []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeSentence(ctx, words)
}

// ReadReply reads and decodes one reply from the open connection.
func (s *Session) ReadReply(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, ErrSessionClosed
	}
	return s.readReply(ctx)
}

// Close releases the connection and resets the session. It is safe to call
// on a closed or never opened session, and the session may be used again.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeConn()
}

// Stats returns a snapshot of session statistics.
func (s *Session) Stats() SessionStats {
	return s.stats.snapshot()
}

func (s *Session) connect(ctx context.Context) error {
	if s.conn != nil {
		return nil
	}

	s.setState(StateConnecting)
	netConn, err := s.config.dial(ctx, "tcp", s.config.Address)
	if err != nil {
		return s.fail(&ConnectionError{Op: "dial", Err: err})
	}

	s.conn = NewConnection(netConn)
	s.conn.maxReply = s.config.MaxReplySize
	s.logger.Debug("routeros: connected")
	return nil
}

func (s *Session) login(ctx context.Context) error {
	if err := s.connect(ctx); err != nil {
		return err
	}

	s.stats.recordLogin()
	s.loggedIn.Store(false)

	sentence := []string{
		wire.CmdLogin,
		wire.Attribute("name", s.config.Username),
		wire.Attribute("password", s.config.Password),
	}
	if _, err := s.writeSentence(ctx, sentence); err != nil {
		return s.failLogin(&LoginError{Err: err})
	}

	words, err := s.readReply(ctx)
	if err != nil {
		return s.failLogin(&LoginError{Err: err})
	}

	reply := wire.ParseReply(words)
	if reply.IsTrap() {
		return s.failLogin(&LoginError{Message: reply.Message()})
	}

	s.loggedIn.Store(true)
	s.setState(StateLoggedIn)
	s.logger.Debug("routeros: logged in", "user", s.config.Username)
	return nil
}

func (s *Session) talk(ctx context.Context, words []string) ([]string, error) {
	if len(words) == 0 {
		return nil, s.fail(&WriteError{Message: "empty sentence"})
	}

	if s.config.Reauth == ReauthEveryCommand || !s.loggedIn.Load() {
		if err := s.login(ctx); err != nil {
			return nil, err
		}
		if err := s.settle(ctx); err != nil {
			return nil, s.fail(err)
		}
	}

	s.stats.recordCommand()

	if _, err := s.writeSentence(ctx, words); err != nil {
		return nil, s.fail(err)
	}

	reply, err := s.readReply(ctx)
	if err != nil {
		return nil, s.fail(err)
	}

	if trap, ok := wire.FindTrap(reply); ok {
		return nil, s.fail(newTrapError(trap))
	}

	if s.config.Reauth == ReauthEveryCommand {
		s.closeConn()
		return reply, nil
	}

	s.setState(StateIdle)
	return reply, nil
}

// settle waits SettleDelay so the login exchange is over before the command
// is sent.
func (s *Session) settle(ctx context.Context) error {
	if s.config.SettleDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.config.SettleDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) writeSentence(ctx context.Context, words []string) (int, error) {
	if len(words) == 0 {
		return 0, &WriteError{Message: "empty sentence"}
	}
	if !s.loggedIn.Load() && words[0] != wire.CmdLogin {
		return 0, &WriteError{Message: "not logged in"}
	}
	if s.conn == nil {
		return 0, &WriteError{Message: "not connected"}
	}

	s.setState(StateSending)
	n, err := s.conn.WriteSentence(ctx, s.config.WriteTimeout, words)
	if err != nil {
		return 0, err
	}
	s.stats.recordWrite(wire.SentenceSize(words))
	return n, nil
}

func (s *Session) readReply(ctx context.Context) ([]string, error) {
	s.setState(StateAwaitingReply)

	buf, err := s.conn.ReadReply(ctx, s.config.ReadTimeout, s.complete)
	if err != nil {
		return nil, err
	}
	s.stats.recordRead(len(buf))

	return wire.DecodeWords(buf)
}

// fail records err, tears the connection down when err requires it and
// returns err.
func (s *Session) fail(err error) error {
	s.stats.recordError()

	if ShouldCloseConnection(err) {
		s.closeConn()
	}
	s.setState(StateError)

	s.logger.Warn("routeros: exchange failed", "kind", KindOf(err), "error", err)
	return err
}

func (s *Session) failLogin(err *LoginError) error {
	s.stats.recordLoginError()
	return s.fail(err)
}

func (s *Session) closeConn() error {
	s.loggedIn.Store(false)
	s.setState(StateClosed)

	if s.conn == nil {
		return nil
	}

	err := s.conn.Close()
	s.conn = nil
	return err
}
