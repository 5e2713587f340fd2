package routeros

import (
	"sync/atomic"

	"github.com/sony/gobreaker/v2"
)

// SessionStats contains statistics about a session.
// All fields are safe for concurrent access.
//
// For Prometheus integration, expose these as counters.
type SessionStats struct {
	Logins       uint64 // Login attempts
	LoginErrors  uint64 // Rejected or failed logins
	Commands     uint64 // Command sentences sent after a successful login
	Errors       uint64 // Failed steps across all operations
	BytesWritten uint64 // Sentence bytes written
	BytesRead    uint64 // Reply bytes read
}

// CircuitBreakerState reports the breaker guarding a session.
type CircuitBreakerState struct {
	Enabled bool
	State   gobreaker.State
}

// sessionStatsCollector provides internal methods for updating session stats.
// Not exported - the session updates its own stats.
type sessionStatsCollector struct {
	stats SessionStats
}

func (c *sessionStatsCollector) recordLogin() {
	atomic.AddUint64(&c.stats.Logins, 1)
}

func (c *sessionStatsCollector) recordLoginError() {
	atomic.AddUint64(&c.stats.LoginErrors, 1)
}

func (c *sessionStatsCollector) recordCommand() {
	atomic.AddUint64(&c.stats.Commands, 1)
}

func (c *sessionStatsCollector) recordError() {
	atomic.AddUint64(&c.stats.Errors, 1)
}

func (c *sessionStatsCollector) recordWrite(n int) {
	atomic.AddUint64(&c.stats.BytesWritten, uint64(n))
}

func (c *sessionStatsCollector) recordRead(n int) {
	atomic.AddUint64(&c.stats.BytesRead, uint64(n))
}

func (c *sessionStatsCollector) snapshot() SessionStats {
	return SessionStats{
		Logins:       atomic.LoadUint64(&c.stats.Logins),
		LoginErrors:  atomic.LoadUint64(&c.stats.LoginErrors),
		Commands:     atomic.LoadUint64(&c.stats.Commands),
		Errors:       atomic.LoadUint64(&c.stats.Errors),
		BytesWritten: atomic.LoadUint64(&c.stats.BytesWritten),
		BytesRead:    atomic.LoadUint64(&c.stats.BytesRead),
	}
}
