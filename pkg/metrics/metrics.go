// Package metrics provides the central Prometheus registry reference for
// the summarizer agent. All metrics are defined in their respective
// packages (ratelimit, cache, transcript, summarizer) to maintain
// modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the agent.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - agent_rate_limit_admissions_total (Counter): Requests admitted
//   - agent_rate_limit_denials_total{reason} (Counter): Denials by reason
//     (blocked, cooldown, minute_limit, hour_limit, capacity)
//   - agent_concurrent_queries (Gauge): Summarizations currently in flight
//   - agent_rate_limit_active_users (Gauge): Users with tracked quota state
//
// Cache Metrics (pkg/cache):
//   - agent_cache_hits_total (Counter): Summary cache hits
//   - agent_cache_misses_total (Counter): Summary cache misses
//   - agent_cache_errors_total{operation} (Counter): Cache operation errors
//   - agent_cache_expired_removed_total (Counter): Entries removed by expiry
//
// Transcript Metrics (pkg/transcript):
//   - agent_transcript_requests_total{status} (Counter): Fetches by outcome
//   - agent_transcript_request_duration_seconds (Histogram): Fetch duration
//   - agent_transcript_retries_total{error_class} (Counter): Retry attempts
//   - agent_transcript_retry_exhausted_total{error_class} (Counter): Fetches
//     that exhausted max retries
//
// Summarizer Metrics (pkg/summarizer):
//   - agent_summaries_total{status} (Counter): Summary generations by outcome
//   - agent_summary_duration_seconds (Histogram): Generation duration
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   rate(agent_cache_hits_total[5m]) /
//   (rate(agent_cache_hits_total[5m]) + rate(agent_cache_misses_total[5m]))
//
//   # Denial Rate by Reason
//   rate(agent_rate_limit_denials_total[5m])
//
//   # Platform Utilization
//   agent_concurrent_queries
//
//   # P95 Summary Latency
//   histogram_quantile(0.95, rate(agent_summary_duration_seconds_bucket[5m]))
