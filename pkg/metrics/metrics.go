package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the aggregation pipeline.
var (
	FetchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridstats_fetch_requests_total",
		Help: "Total number of remote requests issued, by endpoint",
	}, []string{"endpoint"})

	FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridstats_fetch_failures_total",
		Help: "Total number of failed remote requests, by endpoint",
	}, []string{"endpoint"})

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridstats_fetch_duration_seconds",
		Help:    "Duration of remote requests, by endpoint",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridstats_cache_hits_total",
		Help: "Total number of result cache hits, by cache key class",
	}, []string{"cache"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridstats_cache_misses_total",
		Help: "Total number of result cache misses, by cache key class",
	}, []string{"cache"})

	GamesUnavailable = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridstats_games_unavailable_total",
		Help: "Total number of per-game fetches that settled as unavailable",
	})
)
