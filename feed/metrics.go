package feed

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for feed fetching and caching.
type Metrics struct {
	Registry      *prometheus.Registry
	FetchesTotal  prometheus.Counter
	FetchDuration prometheus.Histogram
	ErrorsTotal   *prometheus.CounterVec
	RetriesTotal  prometheus.Counter
	CacheTotal    *prometheus.CounterVec
	CatalogRows   prometheus.Gauge
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_fetches_total",
			Help: "Total fetch attempts against the feed URL.",
		},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Latency of feed fetch attempts.",
			Buckets: prometheus.DefBuckets,
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetch_errors_total",
			Help: "Total feed fetch errors by type.",
		},
		[]string{"error_type"},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_fetch_retries_total",
			Help: "Total retry attempts after failed fetches.",
		},
	)
	cacheTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_total",
			Help: "Catalog cache lookups by result.",
		},
		[]string{"result"},
	)
	catalogRows := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_rows",
			Help: "Rows in the most recently loaded catalog.",
		},
	)

	registry.MustRegister(fetches, fetchDuration, errorsTotal, retries, cacheTotal, catalogRows)

	return &Metrics{
		Registry:      registry,
		FetchesTotal:  fetches,
		FetchDuration: fetchDuration,
		ErrorsTotal:   errorsTotal,
		RetriesTotal:  retries,
		CacheTotal:    cacheTotal,
		CatalogRows:   catalogRows,
	}
}

// IncFetch increments the fetch attempts counter.
func (m *Metrics) IncFetch() {
	if m == nil {
		return
	}
	m.FetchesTotal.Inc()
}

// ObserveDuration records a fetch attempt duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// IncError increments the fetch errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncRetries increments the retries counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// IncCache increments the cache lookups counter for a result label.
func (m *Metrics) IncCache(result string) {
	if m == nil {
		return
	}
	m.CacheTotal.WithLabelValues(result).Inc()
}

// SetCatalogRows records the size of the last loaded catalog.
func (m *Metrics) SetCatalogRows(n int) {
	if m == nil {
		return
	}
	m.CatalogRows.Set(float64(n))
}
