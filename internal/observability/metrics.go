package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram
	exports        *prometheus.CounterVec
	exportDuration prometheus.Histogram
	parses         *prometheus.CounterVec
	requests       *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resume_builder",
			Name:      "renders_total",
			Help:      "Template renders by outcome.",
		}, []string{"outcome"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "resume_builder",
			Name:      "render_duration_seconds",
			Help:      "Time to render a template into HTML.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resume_builder",
			Name:      "exports_total",
			Help:      "PDF exports by outcome.",
		}, []string{"outcome"}),
		exportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "resume_builder",
			Name:      "export_duration_seconds",
			Help:      "Time to export a document to PDF, including browser startup.",
			Buckets:   []float64{.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resume_builder",
			Name:      "parses_total",
			Help:      "AI resume parses by outcome.",
		}, []string{"outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "resume_builder",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.renders, m.renderDuration,
		m.exports, m.exportDuration,
		m.parses, m.requests,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRender records one render that started at start.
func (m *Metrics) ObserveRender(start time.Time, err error) {
	m.renders.WithLabelValues(outcome(err)).Inc()
	m.renderDuration.Observe(time.Since(start).Seconds())
}

// ObserveExport records one PDF export that started at start.
func (m *Metrics) ObserveExport(start time.Time, err error) {
	m.exports.WithLabelValues(outcome(err)).Inc()
	m.exportDuration.Observe(time.Since(start).Seconds())
}

// ObserveParse records one AI parse.
func (m *Metrics) ObserveParse(err error) {
	m.parses.WithLabelValues(outcome(err)).Inc()
}

// ObserveRequest records one HTTP request. route should be the matched
// pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
