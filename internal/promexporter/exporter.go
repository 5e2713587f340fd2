// Package promexporter exports session statistics as Prometheus metrics.
package promexporter

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Exporter manages Prometheus metrics export
type Exporter struct {
	registry *prometheus.Registry
}

// NewExporter creates an exporter for the session behind source.
func NewExporter(source StatsSource) *Exporter {
	registry := prometheus.NewRegistry()
	NewSessionMetrics(registry, source)

	return &Exporter{registry: registry}
}

// Gather implements prometheus.Gatherer.
func (e *Exporter) Gather() ([]*dto.MetricFamily, error) {
	return e.registry.Gather()
}
