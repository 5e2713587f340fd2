package promexporter

import (
	"github.com/pior/routeros"
	"github.com/prometheus/client_golang/prometheus"
)

// StatsSource is what the collector reads on every scrape.
// *routeros.Session implements it.
type StatsSource interface {
	Addr() string
	Stats() routeros.SessionStats
	CircuitBreakerState() routeros.CircuitBreakerState
}

var _ StatsSource = (*routeros.Session)(nil)

// SessionMetrics is a prometheus.Collector over a session's statistics.
// Values are read from the session at scrape time, nothing is cached.
type SessionMetrics struct {
	source StatsSource

	logins       *prometheus.Desc
	loginErrors  *prometheus.Desc
	commands     *prometheus.Desc
	errors       *prometheus.Desc
	bytesWritten *prometheus.Desc
	bytesRead    *prometheus.Desc
	circuitState *prometheus.Desc
}

// NewSessionMetrics creates the collector and registers it
func NewSessionMetrics(registry prometheus.Registerer, source StatsSource) *SessionMetrics {
	labels := prometheus.Labels{"router": source.Addr()}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(name, help, nil, labels)
	}

	m := &SessionMetrics{
		source:       source,
		logins:       desc("routeros_session_logins_total", "Total login attempts"),
		loginErrors:  desc("routeros_session_login_errors_total", "Total rejected or failed logins"),
		commands:     desc("routeros_session_commands_total", "Total commands sent after a successful login"),
		errors:       desc("routeros_session_errors_total", "Total failed session steps"),
		bytesWritten: desc("routeros_session_written_bytes_total", "Total sentence bytes written"),
		bytesRead:    desc("routeros_session_read_bytes_total", "Total reply bytes read"),
		circuitState: desc("routeros_circuit_breaker_state", "Circuit breaker state (0=closed, 1=half-open, 2=open)"),
	}

	registry.MustRegister(m)
	return m
}

// Describe implements prometheus.Collector.
func (m *SessionMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.logins
	ch <- m.loginErrors
	ch <- m.commands
	ch <- m.errors
	ch <- m.bytesWritten
	ch <- m.bytesRead
	ch <- m.circuitState
}

// Collect implements prometheus.Collector.
func (m *SessionMetrics) Collect(ch chan<- prometheus.Metric) {
	stats := m.source.Stats()

	counter := func(desc *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v))
	}
	counter(m.logins, stats.Logins)
	counter(m.loginErrors, stats.LoginErrors)
	counter(m.commands, stats.Commands)
	counter(m.errors, stats.Errors)
	counter(m.bytesWritten, stats.BytesWritten)
	counter(m.bytesRead, stats.BytesRead)

	// no breaker, no gauge
	if cb := m.source.CircuitBreakerState(); cb.Enabled {
		ch <- prometheus.MustNewConstMetric(m.circuitState, prometheus.GaugeValue, float64(cb.State))
	}
}
