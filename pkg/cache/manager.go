package cache

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTTL is the default time-to-live for cached summaries.
const DefaultTTL = 7 * 24 * time.Hour

// Config holds the cache manager configuration.
type Config struct {
	// Dir is the directory cache files are stored in.
	Dir string

	// TTL is how long entries stay valid. Zero means DefaultTTL.
	TTL time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		Dir: ".cache",
		TTL: DefaultTTL,
	}
}

// Stats describes the current cache contents. It is produced by a
// read-only scan; corrupt records are counted as expired.
type Stats struct {
	TotalEntries   int     `json:"total_entries"`
	ValidEntries   int     `json:"valid_entries"`
	ExpiredEntries int     `json:"expired_entries"`
	TotalSizeBytes int64   `json:"total_size_bytes"`
	TotalSizeMB    float64 `json:"total_size_mb"`
}

// Manager stores one summary per video id as a JSON file with TTL expiry.
type Manager struct {
	dir    string
	ttl    time.Duration
	logger zerolog.Logger

	now func() time.Time
}

// New creates a cache manager, creating the cache directory if needed.
// A directory that cannot be created is logged and tolerated; every
// subsequent operation then degrades to miss behavior.
func New(cfg Config, logger zerolog.Logger) *Manager {
	if cfg.Dir == "" {
		cfg.Dir = ".cache"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		logger.Warn().Err(err).Str("dir", cfg.Dir).Msg("Failed to create cache directory")
	}

	return &Manager{
		dir:    cfg.Dir,
		ttl:    cfg.TTL,
		logger: logger,
		now:    time.Now,
	}
}

// path returns the record file path for a video id.
func (m *Manager) path(videoID string) string {
	return filepath.Join(m.dir, hashKey(videoID)+".json")
}

// files returns the paths of all cache records.
func (m *Manager) files() []string {
	paths, err := filepath.Glob(filepath.Join(m.dir, "*.json"))
	if err != nil {
		// Glob only fails on a malformed pattern.
		return nil
	}
	return paths
}

// Get retrieves the cached summary for a video id, or nil on a miss.
// Corrupt and expired records are deleted on sight and reported as misses.
func (m *Manager) Get(videoID string) *Entry {
	path := m.path(videoID)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			CacheErrors.WithLabelValues("get").Inc()
			m.logger.Warn().Err(err).Str("video_id", videoID).Msg("Cache read failed")
		}
		CacheMisses.Inc()
		return nil
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Unreadable record: remove it and fall back to a miss.
		_ = os.Remove(path)
		CacheErrors.WithLabelValues("get").Inc()
		CacheMisses.Inc()
		m.logger.Warn().Err(err).Str("video_id", videoID).Msg("Removed corrupt cache entry")
		return nil
	}

	if entry.IsExpired(m.now(), m.ttl) {
		_ = os.Remove(path)
		CacheMisses.Inc()
		m.logger.Debug().Str("video_id", videoID).Msg("Cache entry expired")
		return nil
	}

	CacheHits.Inc()
	m.logger.Debug().Str("video_id", videoID).Msg("Cache hit")
	return &entry
}

// Set stores a summary for a video id, overwriting any previous record.
// Write failures are swallowed: a failed write must never fail the
// summarization that produced it.
func (m *Manager) Set(videoID, summary string, metadata map[string]any) {
	entry := Entry{
		VideoID:  videoID,
		Summary:  summary,
		CachedAt: m.now(),
		Metadata: metadata,
	}

	data, err := json.MarshalIndent(&entry, "", "  ")
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		m.logger.Debug().Err(err).Str("video_id", videoID).Msg("Cache entry marshal failed")
		return
	}

	if err := os.WriteFile(m.path(videoID), data, 0o644); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		m.logger.Debug().Err(err).Str("video_id", videoID).Msg("Cache write failed")
	}
}

// Clear deletes the record for one video id, if present.
func (m *Manager) Clear(videoID string) {
	if err := os.Remove(m.path(videoID)); err != nil && !os.IsNotExist(err) {
		CacheErrors.WithLabelValues("delete").Inc()
		m.logger.Warn().Err(err).Str("video_id", videoID).Msg("Cache delete failed")
	}
}

// ClearAll deletes every record.
func (m *Manager) ClearAll() {
	for _, path := range m.files() {
		if err := os.Remove(path); err != nil {
			CacheErrors.WithLabelValues("delete").Inc()
		}
	}
}

// CleanupExpired deletes every expired or unreadable record and returns
// the number removed. Get already expires lazily; this sweep exists for
// space reclamation and is intended to run daily from the background
// scheduler.
func (m *Manager) CleanupExpired() int {
	now := m.now()
	removed := 0

	for _, path := range m.files() {
		if data, err := os.ReadFile(path); err == nil {
			var entry Entry
			if jsonErr := json.Unmarshal(data, &entry); jsonErr == nil && !entry.IsExpired(now, m.ttl) {
				continue
			}
		}
		if os.Remove(path) == nil {
			removed++
			CacheExpiredRemoved.Inc()
		}
	}

	if removed > 0 {
		m.logger.Info().Int("removed", removed).Msg("Cache sweep removed expired entries")
	}
	return removed
}

// Stats scans all records without mutating or deleting anything, even for
// entries it detects as expired or corrupt.
func (m *Manager) Stats() Stats {
	now := m.now()
	var stats Stats

	for _, path := range m.files() {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		stats.TotalEntries++
		stats.TotalSizeBytes += info.Size()

		data, err := os.ReadFile(path)
		if err != nil {
			stats.ExpiredEntries++
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil || entry.IsExpired(now, m.ttl) {
			stats.ExpiredEntries++
			continue
		}
		stats.ValidEntries++
	}

	stats.TotalSizeMB = math.Round(float64(stats.TotalSizeBytes)/(1024*1024)*100) / 100
	return stats
}
