package cache

import (
	"time"
)

// Entry represents one cached video summary.
type Entry struct {
	// VideoID is the YouTube video id the summary was generated for.
	VideoID string `json:"video_id"`

	// Summary is the generated summary text.
	Summary string `json:"summary"`

	// CachedAt is when the summary was stored.
	CachedAt time.Time `json:"cached_at"`

	// Metadata holds optional side-channel attributes (e.g. the source
	// URL). The cache itself never interprets it.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ExpiresAt returns the instant the entry becomes stale under the given TTL.
func (e *Entry) ExpiresAt(ttl time.Duration) time.Time {
	return e.CachedAt.Add(ttl)
}

// IsExpired reports whether the entry is stale at now under the given TTL.
func (e *Entry) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.After(e.ExpiresAt(ttl))
}
