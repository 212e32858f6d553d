// Package ratelimit implements per-user sliding-window rate limiting and a
// platform-wide concurrency gate for video summarization requests.
// Users who exceed the per-minute or per-hour window are temporarily
// blocked; the platform gate bounds the number of in-flight summarizations
// across all users.
package ratelimit

import (
	"sync"
	"time"
)

// Window durations for the sliding-window checks.
const (
	minuteWindow = time.Minute
	hourWindow   = time.Hour
)

// userQuota tracks rate limit state for a single user.
//
// Request timestamps are appended in increasing order and pruned to the
// trailing hour before every check, so the slice is always sorted and never
// holds more than an hour of history.
type userQuota struct {
	mu           sync.Mutex
	requests     []time.Time
	lastRequest  time.Time
	blockedUntil time.Time
}

// pruneLocked drops request timestamps older than the trailing hour.
// Caller must hold the quota mutex.
func (q *userQuota) pruneLocked(now time.Time) {
	cutoff := now.Add(-hourWindow)
	i := 0
	for i < len(q.requests) && !q.requests[i].After(cutoff) {
		i++
	}
	if i > 0 {
		q.requests = append(q.requests[:0], q.requests[i:]...)
	}
}

// countSinceLocked returns the number of requests newer than cutoff.
// Timestamps are sorted ascending, so scanning from the tail stops at the
// first entry outside the window. Caller must hold the quota mutex.
func (q *userQuota) countSinceLocked(cutoff time.Time) int {
	n := 0
	for i := len(q.requests) - 1; i >= 0; i-- {
		if !q.requests[i].After(cutoff) {
			break
		}
		n++
	}
	return n
}

// blockedLocked returns whether the user is blocked at now, and the whole
// seconds remaining until the block expires. Caller must hold the quota
// mutex.
func (q *userQuota) blockedLocked(now time.Time) (bool, int) {
	if q.blockedUntil.After(now) {
		return true, int(q.blockedUntil.Sub(now).Seconds())
	}
	return false, 0
}

// idleLocked reports whether the quota holds no windowed requests and the
// last accepted request is older than the trailing hour. Idle quotas are
// evicted by the maintenance sweep. Caller must hold the quota mutex.
func (q *userQuota) idleLocked(now time.Time) bool {
	return len(q.requests) == 0 && now.Sub(q.lastRequest) > hourWindow
}
