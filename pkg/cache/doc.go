// Package cache provides durable, TTL-bounded storage of video summaries.
//
// Each summary is stored as one JSON file per video id, named by the
// SHA-256 digest of the id. Entries expire after a fixed TTL (7 days by
// default) and are removed lazily on access or in bulk by CleanupExpired.
//
// Caching is best-effort by design: every failure mode (missing file,
// corrupt record, unwritable storage) degrades to cache-miss behavior and
// is never surfaced to the caller. A summarization must not fail because
// its result could not be cached.
//
// # Basic Usage
//
//	manager := cache.New(cache.Config{Dir: ".cache"}, logger)
//
//	if entry := manager.Get("dQw4w9WgXcQ"); entry != nil {
//		// Cache hit - stream entry.Summary
//	}
//
//	manager.Set("dQw4w9WgXcQ", summary, map[string]any{"url": videoURL})
//
// # Maintenance
//
// Get removes expired and corrupt records as it encounters them, which is
// sufficient for correctness. CleanupExpired reclaims space proactively
// and is intended to run daily from the background scheduler. Stats scans
// without mutating and counts corrupt records as expired.
//
// # Metrics
//
// The cache manager exports Prometheus metrics:
//
//   - agent_cache_hits_total - Cache hits
//   - agent_cache_misses_total - Cache misses
//   - agent_cache_errors_total{operation} - Cache operation errors
//   - agent_cache_expired_removed_total - Entries removed by expiry
package cache
