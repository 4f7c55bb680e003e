// Package metrics holds the Prometheus instruments for forecast runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus instruments for the system.
type Metrics struct {
	RunsTotal      *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	QueryDuration  prometheus.Histogram
	EngineDuration prometheus.Histogram
	CacheLookups   *prometheus.CounterVec
	HistoryDays    prometheus.Gauge
	RateLimited    prometheus.Counter
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditcast_runs_total",
				Help: "Forecast runs by outcome kind",
			},
			[]string{"outcome"},
		),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditcast_run_duration_seconds",
			Help:    "Wall time of a full forecast run",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		QueryDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditcast_warehouse_query_duration_seconds",
			Help:    "Wall time of the daily usage query, cache hits included",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		EngineDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditcast_engine_fit_duration_seconds",
			Help:    "Wall time of the forecast fit and predict",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creditcast_query_cache_lookups_total",
				Help: "Query cache lookups by result",
			},
			[]string{"result"},
		),
		HistoryDays: f.NewGauge(prometheus.GaugeOpts{
			Name: "creditcast_history_days",
			Help: "Distinct days of usage history in the last run",
		}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "creditcast_rate_limited_total",
			Help: "Run requests rejected by the rate limiter",
		}),
	}
}
