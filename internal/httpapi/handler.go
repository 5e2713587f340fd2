// Package httpapi exposes router commands over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/pior/routeros"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// HotspotUsersCommand lists the hotspot users of the router.
var HotspotUsersCommand = []string{"/ip/hotspot/user/print"}

// Executor runs one router command. *routeros.Session implements it.
type Executor interface {
	Execute(ctx context.Context, words []string, shape routeros.Shape) routeros.Result
}

var _ Executor = (*routeros.Session)(nil)

// Handler serves the HTTP API.
type Handler struct {
	exec     Executor
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	metrics  *metrics.Set
}

// NewHandler creates a handler running commands through exec. Metrics from
// gatherer, if not nil, are served next to the HTTP metrics.
func NewHandler(exec Executor, gatherer prometheus.Gatherer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		exec:     exec,
		gatherer: gatherer,
		logger:   logger,
		metrics:  metrics.NewSet(),
	}
}

// Routes returns the HTTP routes:
//
//	GET /               plain text index
//	GET /api/v1/users   hotspot users as a result envelope
//	GET /metrics        Prometheus metrics
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /api/v1/users", h.instrument("/api/v1/users", h.handleUsers))
	mux.HandleFunc("GET /metrics", h.handleMetrics)
	return mux
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "RouterOS API gateway\n\nGET /api/v1/users  hotspot users\nGET /metrics        metrics\n")
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) bool {
	result := h.exec.Execute(r.Context(), HotspotUsersCommand, routeros.ShapeRecords)
	if !result.Success {
		h.logger.Warn("httpapi: command failed", "path", r.URL.Path, "kind", result.Error.Kind, "error", result.Error.Message)
	}
	h.writeResult(w, result)
	return result.Success
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	h.metrics.WritePrometheus(w)

	if h.gatherer == nil {
		return
	}

	// Gather returns what it could collect along with the error
	families, err := h.gatherer.Gather()
	if err != nil {
		h.logger.Warn("httpapi: failed to gather metrics", "error", err)
	}

	enc := expfmt.NewEncoder(w, format)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			h.logger.Warn("httpapi: failed to encode metrics", "error", err)
			return
		}
	}
}

// writeResult writes the envelope. Failures are reported as 502: the
// gateway could not get an answer out of the router.
func (h *Handler) writeResult(w http.ResponseWriter, result routeros.Result) {
	body, err := json.Marshal(result)
	if err != nil {
		h.logger.Error("httpapi: failed to encode result", "error", err)
		http.Error(w, "failed to encode result", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !result.Success {
		w.WriteHeader(http.StatusBadGateway)
	}
	w.Write(body)
}

// instrument counts requests by outcome and records their duration.
func (h *Handler) instrument(path string, fn func(http.ResponseWriter, *http.Request) bool) http.HandlerFunc {
	ok := h.metrics.NewCounter(fmt.Sprintf(`routeros_http_requests_total{path=%q,result="ok"}`, path))
	failed := h.metrics.NewCounter(fmt.Sprintf(`routeros_http_requests_total{path=%q,result="error"}`, path))
	duration := h.metrics.NewHistogram(fmt.Sprintf(`routeros_http_request_duration_seconds{path=%q}`, path))

	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if fn(w, r) {
			ok.Inc()
		} else {
			failed.Inc()
		}
		duration.Update(time.Since(start).Seconds())
	}
}
