// Package metrics exposes Prometheus counters for ingestion, source fetches and
// the HTTP API. A nil *Collector is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cardiodash/domain/dataset"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Ingestion metrics
	IngestRows  *prometheus.CounterVec
	IngestFails *prometheus.CounterVec

	// Source metrics
	SourceFetches *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec

	// Store metrics
	StaleLoads     prometheus.Counter
	DatasetRecords prometheus.Gauge
}

// NewCollector creates a collector with its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		IngestRows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_rows_total",
				Help:      "Rows seen by ingestion, by outcome and reject reason",
			},
			[]string{"outcome", "reason"},
		),
		IngestFails: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_failures_total",
				Help:      "Inputs that produced no dataset",
			},
			[]string{"reason"},
		),
		SourceFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "source_fetches_total",
				Help:      "Named source fetches",
			},
			[]string{"source", "status"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "source_fetch_duration_seconds",
				Help:      "Named source fetch duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		StaleLoads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stale_loads_total",
				Help:      "Loads discarded because a newer load was issued",
			},
		),
		DatasetRecords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_records",
				Help:      "Records in the working dataset",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.IngestRows,
		c.IngestFails,
		c.SourceFetches,
		c.FetchDuration,
		c.StaleLoads,
		c.DatasetRecords,
	)
	return c
}

// ObserveIngest records the outcome of every row of one ingest
func (c *Collector) ObserveIngest(report dataset.IngestReport) {
	if c == nil {
		return
	}
	c.IngestRows.WithLabelValues("accepted", "").Add(float64(report.Accepted))
	for reason, n := range report.RejectedByReason {
		c.IngestRows.WithLabelValues("rejected", string(reason)).Add(float64(n))
	}
}

// IngestFailed counts an input that produced no dataset
func (c *Collector) IngestFailed(reason string) {
	if c == nil {
		return
	}
	c.IngestFails.WithLabelValues(reason).Inc()
}

// ObserveFetch records one source fetch
func (c *Collector) ObserveFetch(source string, err error, duration time.Duration) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.SourceFetches.WithLabelValues(source, status).Inc()
	c.FetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// StaleLoad counts a discarded load
func (c *Collector) StaleLoad() {
	if c == nil {
		return
	}
	c.StaleLoads.Inc()
}

// SetDatasetSize tracks the working dataset length
func (c *Collector) SetDatasetSize(n int) {
	if c == nil {
		return
	}
	c.DatasetRecords.Set(float64(n))
}

// ObserveRequest records one HTTP request
func (c *Collector) ObserveRequest(method, route, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
