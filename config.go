package routeros

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/pior/routeros/wire"
)

// Default connection settings of a factory-configured router.
const (
	DefaultAddress      = "192.168.88.1:8728"
	DefaultUsername     = "admin"
	DefaultReadTimeout  = 3 * time.Second
	DefaultWriteTimeout = 3 * time.Second
	DefaultDialTimeout  = 5 * time.Second
	DefaultSettleDelay  = 500 * time.Millisecond
	DefaultMaxReplySize = 16 << 20
)

// ReauthPolicy decides when a session logs in.
type ReauthPolicy int

const (
	// ReauthEveryCommand logs in before every command on a fresh connection
	// and closes the connection once the command completes.
	ReauthEveryCommand ReauthPolicy = iota

	// ReauthOnce logs in on first use and keeps the authenticated connection
	// for later commands, until an error or Close.
	ReauthOnce
)

func (p ReauthPolicy) String() string {
	switch p {
	case ReauthEveryCommand:
		return "every-command"
	case ReauthOnce:
		return "once"
	default:
		return "unknown"
	}
}

// Completion decides when a reply has finished arriving.
type Completion int

const (
	// CompletionFinalReply stops reading as soon as a !done, !trap or !fatal
	// sentence has been received. ReadTimeout only bounds the wait.
	CompletionFinalReply Completion = iota

	// CompletionTimeout always reads for the full ReadTimeout and treats
	// whatever arrived as the reply.
	CompletionTimeout
)

func (c Completion) String() string {
	switch c {
	case CompletionFinalReply:
		return "final-reply"
	case CompletionTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// CompletionFunc reports whether buf holds a complete reply.
type CompletionFunc func(buf []byte) bool

func (c Completion) predicate() CompletionFunc {
	if c == CompletionTimeout {
		return nil
	}
	return wire.FinalReplyReceived
}

// Config holds the settings of a Session.
type Config struct {
	// Address is the router API endpoint as host:port.
	Address string

	// Username and Password are sent in the /login sentence.
	Username string
	Password string

	// ReadTimeout bounds how long a reply is awaited.
	ReadTimeout time.Duration

	// WriteTimeout bounds how long writing one sentence may block.
	WriteTimeout time.Duration

	// MaxReplySize caps the bytes buffered for one reply. Larger replies fail
	// with ErrReplyTooLarge and close the connection.
	MaxReplySize int

	// DialTimeout bounds connection establishment. Ignored when Dialer is set.
	DialTimeout time.Duration

	// SettleDelay is waited between a successful login and the command.
	// Zero disables the delay.
	SettleDelay time.Duration

	// Completion selects how the end of a reply is detected.
	Completion Completion

	// Reauth selects when the session logs in.
	Reauth ReauthPolicy

	// Dialer is the net.Dialer used to open connections.
	// If nil, a dialer with DialTimeout is used.
	Dialer *net.Dialer

	// NewCircuitBreaker creates the circuit breaker guarding exchanges with
	// the router. Called once when the session is created.
	// If nil, no circuit breaker is used.
	NewCircuitBreaker func(addr string) CircuitBreaker

	// Logger receives session events. If nil, slog.Default() is used.
	Logger *slog.Logger

	// for testing purposes only
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// DefaultConfig returns the settings of a factory-configured router.
func DefaultConfig() Config {
	return Config{
		Address:      DefaultAddress,
		Username:     DefaultUsername,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		MaxReplySize: DefaultMaxReplySize,
		DialTimeout:  DefaultDialTimeout,
		SettleDelay:  DefaultSettleDelay,
		Completion:   CompletionFinalReply,
		Reauth:       ReauthEveryCommand,
	}
}

// withDefaults fills zero values that have no meaningful zero.
func (c Config) withDefaults() Config {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.Username == "" {
		c.Username = DefaultUsername
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.MaxReplySize <= 0 {
		c.MaxReplySize = DefaultMaxReplySize
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.dial == nil {
		dialer := c.Dialer
		if dialer == nil {
			dialer = &net.Dialer{Timeout: c.DialTimeout}
		}
		c.dial = dialer.DialContext
	}
	return c
}
