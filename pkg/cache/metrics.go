package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks summaries served from cache.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agent_cache_hits_total",
			Help: "Total number of summary cache hits",
		},
	)

	// CacheMisses tracks lookups that found no valid entry.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agent_cache_misses_total",
			Help: "Total number of summary cache misses",
		},
	)

	// CacheErrors tracks cache operation errors by operation.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)

	// CacheExpiredRemoved tracks entries deleted because they expired or
	// were unreadable.
	CacheExpiredRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agent_cache_expired_removed_total",
			Help: "Total number of cache entries removed by expiry or corruption",
		},
	)
)
