package cache

import (
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	cachedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ttl := time.Hour

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{
			name: "fresh entry",
			now:  cachedAt.Add(time.Minute),
			want: false,
		},
		{
			name: "one second before expiry",
			now:  cachedAt.Add(ttl - time.Second),
			want: false,
		},
		{
			name: "exactly at expiry",
			now:  cachedAt.Add(ttl),
			want: false,
		},
		{
			name: "one second past expiry",
			now:  cachedAt.Add(ttl + time.Second),
			want: true,
		},
		{
			name: "long past expiry",
			now:  cachedAt.Add(48 * time.Hour),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{CachedAt: cachedAt}
			if got := entry.IsExpired(tt.now, ttl); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_ExpiresAt(t *testing.T) {
	cachedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := &Entry{CachedAt: cachedAt}

	want := cachedAt.Add(DefaultTTL)
	if got := entry.ExpiresAt(DefaultTTL); !got.Equal(want) {
		t.Errorf("ExpiresAt() = %v, want %v", got, want)
	}
}
