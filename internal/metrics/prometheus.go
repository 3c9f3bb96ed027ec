package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the backfill and metrics services

var (
	// Upstream fetch metrics
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funba_fetches_total",
			Help: "Total number of NBA stats API requests",
		},
		[]string{"endpoint", "status"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "funba_fetch_duration_seconds",
			Help:    "Duration of NBA stats API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	FetchRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funba_fetch_retries_total",
			Help: "Total number of fetch retries after backoff",
		},
		[]string{"endpoint"},
	)

	// Backfill metrics
	BackfillItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funba_backfill_items_total",
			Help: "Backfill work items by type and outcome",
		},
		[]string{"type", "status"},
	)

	BackfillDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "funba_backfill_duration_seconds",
			Help:    "Duration of one backfill work item in seconds",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 120},
		},
		[]string{"type"},
	)

	OutstandingWork = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "funba_backfill_outstanding_work",
			Help: "Work items the reconciliation planner currently reports outstanding",
		},
		[]string{"type"},
	)

	// Streak metrics engine
	MetricRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funba_metric_runs_total",
			Help: "Season metric computations by outcome",
		},
		[]string{"status"},
	)

	PityLossFlagsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funba_pity_loss_flags_total",
			Help: "Games flagged during pity-loss sweeps",
		},
		[]string{"result"},
	)

	// Player stub cache
	StubCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "funba_stub_cache_hits_total",
			Help: "Player-stub cache hits",
		},
	)

	StubCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "funba_stub_cache_misses_total",
			Help: "Player-stub cache misses",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funba_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordFetch records one upstream API request.
func RecordFetch(endpoint, status string, duration float64) {
	FetchesTotal.WithLabelValues(endpoint, status).Inc()
	FetchDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordFetchRetry records a retry after backoff.
func RecordFetchRetry(endpoint string) {
	FetchRetriesTotal.WithLabelValues(endpoint).Inc()
}

// RecordBackfillItem records one completed work item.
func RecordBackfillItem(itemType, status string, duration float64) {
	BackfillItemsTotal.WithLabelValues(itemType, status).Inc()
	BackfillDuration.WithLabelValues(itemType).Observe(duration)
}

// RecordMetricRun records one season metric computation.
func RecordMetricRun(status string) {
	MetricRunsTotal.WithLabelValues(status).Inc()
}

// RecordPityFlag records the result of one pity-loss scan.
func RecordPityFlag(flagged bool) {
	if flagged {
		PityLossFlagsTotal.WithLabelValues("flagged").Inc()
	} else {
		PityLossFlagsTotal.WithLabelValues("clean").Inc()
	}
}

// RecordError records an error.
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
