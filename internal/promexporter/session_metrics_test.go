package promexporter

import (
	"testing"

	"github.com/pior/routeros"
	dto "github.com/prometheus/client_model/go"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsSourceMock struct {
	stats   routeros.SessionStats
	breaker routeros.CircuitBreakerState
}

func (m *statsSourceMock) Addr() string                                      { return "10.0.0.1:8728" }
func (m *statsSourceMock) Stats() routeros.SessionStats                      { return m.stats }
func (m *statsSourceMock) CircuitBreakerState() routeros.CircuitBreakerState { return m.breaker }

func gather(t *testing.T, e *Exporter) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := e.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	return byName
}

func TestSessionMetrics(t *testing.T) {
	source := &statsSourceMock{stats: routeros.SessionStats{
		Logins:       3,
		LoginErrors:  1,
		Commands:     2,
		Errors:       1,
		BytesWritten: 120,
		BytesRead:    480,
	}}

	families := gather(t, NewExporter(source))

	expected := map[string]float64{
		"routeros_session_logins_total":        3,
		"routeros_session_login_errors_total":  1,
		"routeros_session_commands_total":      2,
		"routeros_session_errors_total":        1,
		"routeros_session_written_bytes_total": 120,
		"routeros_session_read_bytes_total":    480,
	}
	for name, value := range expected {
		mf, ok := families[name]
		require.True(t, ok, "missing %s", name)
		require.Len(t, mf.GetMetric(), 1)

		metric := mf.GetMetric()[0]
		assert.Equal(t, value, metric.GetCounter().GetValue(), name)
		require.Len(t, metric.GetLabel(), 1)
		assert.Equal(t, "router", metric.GetLabel()[0].GetName())
		assert.Equal(t, "10.0.0.1:8728", metric.GetLabel()[0].GetValue())
	}

	assert.NotContains(t, families, "routeros_circuit_breaker_state")
}

func TestSessionMetricsReadAtScrape(t *testing.T) {
	source := &statsSourceMock{}
	exporter := NewExporter(source)

	source.stats.Commands = 7
	families := gather(t, exporter)
	assert.Equal(t, float64(7), families["routeros_session_commands_total"].GetMetric()[0].GetCounter().GetValue())
}

func TestSessionMetricsCircuitBreaker(t *testing.T) {
	source := &statsSourceMock{breaker: routeros.CircuitBreakerState{Enabled: true, State: gobreaker.StateOpen}}

	families := gather(t, NewExporter(source))

	mf, ok := families["routeros_circuit_breaker_state"]
	require.True(t, ok)
	assert.Equal(t, float64(2), mf.GetMetric()[0].GetGauge().GetValue())
}
