// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Lookup metrics
	LookupsTotal    *prometheus.CounterVec
	LookupDuration  prometheus.Histogram
	LookupsInFlight prometheus.Gauge

	// Staker log metrics
	LogCompressedBytes   prometheus.Gauge
	LogDecompressedBytes prometheus.Gauge
	LogEventsSkipped     prometheus.Counter
	SnapshotDivergence   prometheus.Counter

	// Dataset metrics
	DatasetFetches *prometheus.CounterVec
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter

	// Notify metrics
	WSClients         prometheus.Gauge
	ManifestRefreshes prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "staking_lens"
	}

	return &Metrics{
		LookupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lookup",
			Name:      "requests_total",
			Help:      "Total number of wallet lookups by result",
		}, []string{"result"}),
		LookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "lookup",
			Name:      "duration_seconds",
			Help:      "Wallet lookup duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		LookupsInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "lookup",
			Name:      "in_flight",
			Help:      "Number of wallet lookups currently in flight",
		}),

		LogCompressedBytes: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stakerlog",
			Name:      "compressed_bytes",
			Help:      "Compressed size of the last loaded staker log",
		}),
		LogDecompressedBytes: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stakerlog",
			Name:      "decompressed_bytes",
			Help:      "Decompressed size of the last loaded staker log",
		}),
		LogEventsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stakerlog",
			Name:      "events_skipped_total",
			Help:      "Total number of malformed event tuples skipped during decode",
		}),
		SnapshotDivergence: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stakerlog",
			Name:      "snapshot_divergence_total",
			Help:      "Total number of lookups whose replayed totals diverged from the index snapshot",
		}),

		DatasetFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datasets",
			Name:      "fetches_total",
			Help:      "Total number of dataset fetches by dataset and status",
		}, []string{"dataset", "status"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datasets",
			Name:      "cache_hits_total",
			Help:      "Total number of dataset cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datasets",
			Name:      "cache_misses_total",
			Help:      "Total number of dataset cache misses",
		}),

		WSClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "ws_clients",
			Help:      "Number of connected websocket subscribers",
		}),
		ManifestRefreshes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "manifest_refreshes_total",
			Help:      "Total number of manifest changes detected",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordLookup records a completed wallet lookup.
func RecordLookup(result string, seconds float64) {
	DefaultMetrics.LookupsTotal.WithLabelValues(result).Inc()
	DefaultMetrics.LookupDuration.Observe(seconds)
}

// RecordLogLoad records sizes and data quality of a staker log load.
func RecordLogLoad(compressedBytes, decompressedBytes, skipped int) {
	DefaultMetrics.LogCompressedBytes.Set(float64(compressedBytes))
	DefaultMetrics.LogDecompressedBytes.Set(float64(decompressedBytes))
	if skipped > 0 {
		DefaultMetrics.LogEventsSkipped.Add(float64(skipped))
	}
}

// RecordSnapshotDivergence records a replay/index snapshot mismatch.
func RecordSnapshotDivergence() {
	DefaultMetrics.SnapshotDivergence.Inc()
}

// RecordDatasetFetch records a dataset fetch outcome.
func RecordDatasetFetch(dataset, status string) {
	DefaultMetrics.DatasetFetches.WithLabelValues(dataset, status).Inc()
}

// RecordCacheHit records a dataset cache hit.
func RecordCacheHit() { DefaultMetrics.CacheHits.Inc() }

// RecordCacheMiss records a dataset cache miss.
func RecordCacheMiss() { DefaultMetrics.CacheMisses.Inc() }

// RecordManifestRefresh records a detected manifest change.
func RecordManifestRefresh() { DefaultMetrics.ManifestRefreshes.Inc() }

// SetWSClients updates the websocket subscriber gauge.
func SetWSClients(n int) { DefaultMetrics.WSClients.Set(float64(n)) }

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
