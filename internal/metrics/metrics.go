// Package metrics provides Prometheus metrics for the render cycle
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes of a render cycle
const (
	OutcomeRendered = "rendered"
	OutcomeWarning  = "warning"
	OutcomeError    = "error"
)

var (
	// Render metrics
	RendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataviz_renders_total",
			Help: "Total number of plot requests by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataviz_render_duration_seconds",
			Help:    "Time taken to load, validate and draw a plot",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"kind"},
	)

	ValidationWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataviz_validation_warnings_total",
			Help: "Total number of plot requests rejected by validation",
		},
		[]string{"field"},
	)

	// Table metrics
	TableLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataviz_table_loads_total",
			Help: "Total number of table loads by status",
		},
		[]string{"status"},
	)

	TableRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dataviz_table_rows",
			Help:    "Rows per loaded table",
			Buckets: prometheus.ExponentialBuckets(10, 10, 6),
		},
	)

	// Catalog metrics
	CatalogFiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataviz_catalog_files",
			Help: "Eligible files found by the last listing",
		},
	)

	CatalogChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dataviz_catalog_changes_total",
			Help: "Total number of data directory change notifications",
		},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataviz_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)
)

// RecordRender records the outcome and duration of one render cycle
func RecordRender(kind, outcome string, duration time.Duration) {
	RendersTotal.WithLabelValues(kind, outcome).Inc()
	RenderDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordWarning records a validation warning on field
func RecordWarning(field string) {
	ValidationWarnings.WithLabelValues(field).Inc()
}

// RecordTableLoad records a load attempt; rows is ignored on failure
func RecordTableLoad(err error, rows int) {
	if err != nil {
		TableLoadsTotal.WithLabelValues("error").Inc()
		return
	}
	TableLoadsTotal.WithLabelValues("ok").Inc()
	TableRows.Observe(float64(rows))
}

// RecordListing records the size of a catalog listing
func RecordListing(files int) {
	CatalogFiles.Set(float64(files))
}
