// Package metrics exposes report pipeline counters on a dedicated
// Prometheus registry.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyeh/casereport/internal/model"
	"github.com/gyeh/casereport/internal/report"
)

const namespace = "casereport"

// Metrics holds the collectors for one process.
type Metrics struct {
	Registry *prometheus.Registry

	Reports  *prometheus.CounterVec
	Failures *prometheus.CounterVec
	Tables   *prometheus.CounterVec
	Rows     *prometheus.CounterVec
	Duration prometheus.Histogram
}

// New registers every collector, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Reports rendered, by output format.",
		}, []string{"format"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_failures_total",
			Help:      "Failed pipeline runs, by phase.",
		}, []string{"phase"}),
		Tables: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tables_total",
			Help:      "Source tables classified, by role.",
		}, []string{"role"}),
		Rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_rows_total",
			Help:      "Source data rows aggregated, by role.",
		}, []string{"role"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Time spent classifying, aggregating and flattening.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Reports, m.Failures, m.Tables, m.Rows, m.Duration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveRun records a successful pipeline run.
func (m *Metrics) ObserveRun(res *report.Result) {
	m.Duration.Observe(res.Duration.Seconds())
	for _, role := range model.RolePriority {
		t := res.Roles.Table(role)
		m.Tables.WithLabelValues(role.String()).Inc()
		m.Rows.WithLabelValues(role.String()).Add(float64(t.NumRows()))
	}
}

// ObserveReport records a rendered report.
func (m *Metrics) ObserveReport(format string) {
	m.Reports.WithLabelValues(format).Inc()
}

// ObserveError records a failure under its pipeline phase, or "other".
func (m *Metrics) ObserveError(err error) {
	phase := "other"
	var pe *report.PipelineError
	if errors.As(err, &pe) {
		phase = pe.Phase
	}
	m.Failures.WithLabelValues(phase).Inc()
}
