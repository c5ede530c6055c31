// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"TrendScreener/internal/model"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Ranking runs
	RunsTotal         *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	LastSuccessfulRun prometheus.Gauge

	// Entities
	EntitiesScored prometheus.Counter
	EntitiesFailed *prometheus.CounterVec

	// Data source
	FetchRequests *prometheus.CounterVec
	CacheHits     prometheus.Counter
	CacheMisses   prometheus.Counter
}

// NewMetrics creates a Metrics instance registered on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "trend_screener"
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ranking",
			Name:      "runs_total",
			Help:      "Total number of ranking runs by status",
		}, []string{"status"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ranking",
			Name:      "run_duration_seconds",
			Help:      "Duration of ranking runs",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		LastSuccessfulRun: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ranking",
			Name:      "last_successful_run_timestamp_seconds",
			Help:      "Unix time of the last successful ranking run",
		}),

		EntitiesScored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ranking",
			Name:      "entities_scored_total",
			Help:      "Total number of entities with a metric record",
		}),
		EntitiesFailed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ranking",
			Name:      "entities_failed_total",
			Help:      "Total number of entities excluded from a ranking by error kind",
		}, []string{"kind"}),

		FetchRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "fetch_requests_total",
			Help:      "Total number of data source requests by source and status",
		}, []string{"source", "status"}),
		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "cache_hits_total",
			Help:      "Total number of series served from the cache",
		}),
		CacheMisses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "cache_misses_total",
			Help:      "Total number of series fetched from the data source",
		}),
	}
}

// ObserveRun records the outcome of a ranking run.
func (m *Metrics) ObserveRun(started time.Time, err error) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		m.RunsTotal.WithLabelValues("error").Inc()
		return
	}
	m.RunsTotal.WithLabelValues("ok").Inc()
	m.LastSuccessfulRun.SetToCurrentTime()
}

// ObserveEntities records scored and failed entity counts.
func (m *Metrics) ObserveEntities(scored int, failures []model.Failure) {
	if m == nil {
		return
	}
	m.EntitiesScored.Add(float64(scored))
	for _, f := range failures {
		m.EntitiesFailed.WithLabelValues(string(f.Kind)).Inc()
	}
}

// ObserveFetch records one request against a data source.
func (m *Metrics) ObserveFetch(source string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.FetchRequests.WithLabelValues(source, status).Inc()
}

// ObserveCache records a cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}

// Handler returns an HTTP handler exposing the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
