package ratelimit

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for admission control.
var (
	admissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agent_rate_limit_admissions_total",
		Help: "Total number of requests admitted by the rate limiter",
	})

	denialsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agent_rate_limit_denials_total",
		Help: "Total number of requests denied by the rate limiter",
	}, []string{"reason"})

	concurrentQueries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agent_concurrent_queries",
		Help: "Number of summarization queries currently in flight",
	})

	activeUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agent_rate_limit_active_users",
		Help: "Number of users with tracked rate limit state",
	})
)

// Denial reasons used as metric labels.
const (
	reasonBlocked  = "blocked"
	reasonCooldown = "cooldown"
	reasonMinute   = "minute_limit"
	reasonHour     = "hour_limit"
	reasonCapacity = "capacity"
)

// Config holds the rate limiter configuration. All values are fixed at
// construction.
type Config struct {
	// RequestsPerMinute is the maximum requests per user within the
	// trailing minute.
	RequestsPerMinute int

	// RequestsPerHour is the maximum requests per user within the
	// trailing hour.
	RequestsPerHour int

	// MaxConcurrentPlatform is the maximum number of in-flight
	// summarizations across all users.
	MaxConcurrentPlatform int

	// CooldownSeconds is the minimum spacing between requests per user.
	// 0 disables cooldown enforcement entirely.
	CooldownSeconds int

	// BlockDurationSeconds is how long users are blocked after exceeding
	// a rate limit.
	BlockDurationSeconds int
}

// DefaultConfig returns the default limiter configuration.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute:     10,
		RequestsPerHour:       50,
		MaxConcurrentPlatform: 200,
		CooldownSeconds:       0,
		BlockDurationSeconds:  300,
	}
}

// UserStats describes a single user's current rate limit status.
type UserStats struct {
	UserID                   string `json:"user_id"`
	RequestsLastMinute       int    `json:"requests_last_minute"`
	RequestsLastHour         int    `json:"requests_last_hour"`
	RemainingMinute          int    `json:"remaining_minute"`
	RemainingHour            int    `json:"remaining_hour"`
	IsBlocked                bool   `json:"is_blocked"`
	BlockSecondsRemaining    int    `json:"block_seconds_remaining"`
	InCooldown               bool   `json:"in_cooldown"`
	CooldownSecondsRemaining int    `json:"cooldown_seconds_remaining"`
}

// PlatformStats describes platform-wide admission status.
type PlatformStats struct {
	ConcurrentQueries  int     `json:"concurrent_queries"`
	MaxConcurrent      int     `json:"max_concurrent"`
	AvailableSlots     int     `json:"available_slots"`
	ActiveUsers        int     `json:"active_users"`
	UtilizationPercent float64 `json:"utilization_percent"`
}

// Limiter decides, per user and platform-wide, whether a new summarization
// may proceed, and accounts for its completion.
//
// Every Acquire that returns true must be matched by exactly one Release,
// including on error and cancellation paths of the guarded work.
type Limiter struct {
	cfg    Config
	logger zerolog.Logger

	mu    sync.Mutex // guards users map
	users map[string]*userQuota

	platformMu sync.Mutex // guards concurrent
	concurrent int

	now func() time.Time
}

// New creates a rate limiter with the given configuration.
func New(cfg Config, logger zerolog.Logger) *Limiter {
	return &Limiter{
		cfg:    cfg,
		logger: logger,
		users:  make(map[string]*userQuota),
		now:    time.Now,
	}
}

// quota returns the quota for userID, creating it lazily on first request.
func (l *Limiter) quota(userID string) *userQuota {
	l.mu.Lock()
	defer l.mu.Unlock()

	q, ok := l.users[userID]
	if !ok {
		q = &userQuota{}
		l.users[userID] = q
		activeUsers.Set(float64(len(l.users)))
	}
	return q
}

func (l *Limiter) blockDuration() time.Duration {
	return time.Duration(l.cfg.BlockDurationSeconds) * time.Second
}

// Acquire attempts to admit a new request for userID.
//
// It returns (true, "") when the request may proceed, or (false, reason)
// with a human-readable reason when denied. Denial is a normal outcome,
// never an error. On admission the caller must call Release exactly once
// when the guarded work finishes.
func (l *Limiter) Acquire(userID string) (bool, string) {
	q := l.quota(userID)
	now := l.now()

	q.mu.Lock()

	// Block check. Blocking is sticky until it expires on its own.
	if blocked, remaining := q.blockedLocked(now); blocked {
		q.mu.Unlock()
		denialsTotal.WithLabelValues(reasonBlocked).Inc()
		l.logger.Warn().
			Str("user_id", userID).
			Int("seconds_remaining", remaining).
			Msg("Request denied: user blocked")
		return false, fmt.Sprintf("You are temporarily blocked. Try again in %d seconds.", remaining)
	}

	// Cooldown check. Only enforced when configured and the user has made
	// at least one prior request still inside the window.
	if l.cfg.CooldownSeconds > 0 && !q.lastRequest.IsZero() && len(q.requests) > 0 {
		cooldown := time.Duration(l.cfg.CooldownSeconds) * time.Second
		if elapsed := now.Sub(q.lastRequest); elapsed < cooldown {
			remaining := int((cooldown - elapsed).Seconds())
			q.mu.Unlock()
			denialsTotal.WithLabelValues(reasonCooldown).Inc()
			return false, fmt.Sprintf("Please wait %d seconds before making another request.", remaining)
		}
	}

	// Sliding-window checks: minute limit before hour limit, both
	// inclusive. A violation blocks the user for the configured duration.
	q.pruneLocked(now)

	if q.countSinceLocked(now.Add(-minuteWindow)) >= l.cfg.RequestsPerMinute {
		q.blockedUntil = now.Add(l.blockDuration())
		q.mu.Unlock()
		denialsTotal.WithLabelValues(reasonMinute).Inc()
		l.logger.Warn().
			Str("user_id", userID).
			Int("limit", l.cfg.RequestsPerMinute).
			Msg("Per-minute rate limit exceeded, user blocked")
		return false, fmt.Sprintf("Rate limit exceeded: %d requests per minute. You have been temporarily blocked.", l.cfg.RequestsPerMinute)
	}

	if len(q.requests) >= l.cfg.RequestsPerHour {
		q.blockedUntil = now.Add(l.blockDuration())
		q.mu.Unlock()
		denialsTotal.WithLabelValues(reasonHour).Inc()
		l.logger.Warn().
			Str("user_id", userID).
			Int("limit", l.cfg.RequestsPerHour).
			Msg("Per-hour rate limit exceeded, user blocked")
		return false, fmt.Sprintf("Rate limit exceeded: %d requests per hour. You have been temporarily blocked.", l.cfg.RequestsPerHour)
	}
	q.mu.Unlock()

	// Platform capacity gate. A capacity denial records no timestamp and
	// sets no block: capacity is a platform condition, not user misbehavior.
	l.platformMu.Lock()
	if l.concurrent >= l.cfg.MaxConcurrentPlatform {
		l.platformMu.Unlock()
		denialsTotal.WithLabelValues(reasonCapacity).Inc()
		l.logger.Warn().
			Int("max_concurrent", l.cfg.MaxConcurrentPlatform).
			Msg("Platform at capacity, request denied")
		return false, fmt.Sprintf("Platform is at capacity (%d concurrent queries). Please try again in a moment.", l.cfg.MaxConcurrentPlatform)
	}
	l.concurrent++
	concurrentQueries.Set(float64(l.concurrent))
	l.platformMu.Unlock()

	// Record the accepted request.
	q.mu.Lock()
	q.requests = append(q.requests, now)
	q.lastRequest = now
	q.mu.Unlock()

	admissionsTotal.Inc()
	return true, ""
}

// Release returns one unit of platform capacity. It is safe to call
// without a matching Acquire; the counter is floored at zero and no error
// is raised.
func (l *Limiter) Release() {
	l.platformMu.Lock()
	if l.concurrent > 0 {
		l.concurrent--
	}
	concurrentQueries.Set(float64(l.concurrent))
	l.platformMu.Unlock()
}

// UserStats returns the current rate limit status for userID.
func (l *Limiter) UserStats(userID string) UserStats {
	q := l.quota(userID)
	now := l.now()

	q.mu.Lock()
	defer q.mu.Unlock()

	q.pruneLocked(now)
	lastHour := len(q.requests)
	lastMinute := q.countSinceLocked(now.Add(-minuteWindow))

	stats := UserStats{
		UserID:             userID,
		RequestsLastMinute: lastMinute,
		RequestsLastHour:   lastHour,
		RemainingMinute:    maxInt(0, l.cfg.RequestsPerMinute-lastMinute),
		RemainingHour:      maxInt(0, l.cfg.RequestsPerHour-lastHour),
	}

	if blocked, remaining := q.blockedLocked(now); blocked {
		stats.IsBlocked = true
		stats.BlockSecondsRemaining = remaining
	}

	if l.cfg.CooldownSeconds > 0 && !q.lastRequest.IsZero() && len(q.requests) > 0 {
		cooldown := time.Duration(l.cfg.CooldownSeconds) * time.Second
		if elapsed := now.Sub(q.lastRequest); elapsed < cooldown {
			stats.InCooldown = true
			stats.CooldownSecondsRemaining = int((cooldown - elapsed).Seconds())
		}
	}

	return stats
}

// PlatformStats returns platform-wide admission statistics.
func (l *Limiter) PlatformStats() PlatformStats {
	l.mu.Lock()
	active := len(l.users)
	l.mu.Unlock()

	l.platformMu.Lock()
	concurrent := l.concurrent
	l.platformMu.Unlock()

	utilization := 0.0
	if l.cfg.MaxConcurrentPlatform > 0 {
		utilization = math.Round(float64(concurrent)/float64(l.cfg.MaxConcurrentPlatform)*10000) / 100
	}

	return PlatformStats{
		ConcurrentQueries:  concurrent,
		MaxConcurrent:      l.cfg.MaxConcurrentPlatform,
		AvailableSlots:     maxInt(0, l.cfg.MaxConcurrentPlatform-concurrent),
		ActiveUsers:        active,
		UtilizationPercent: utilization,
	}
}

// Cleanup prunes every user's request window to the trailing hour and
// evicts quotas that have been idle for more than an hour. It returns the
// number of users evicted. Intended to run every few minutes from the
// background scheduler; memory stays bounded even for users who never
// return.
func (l *Limiter) Cleanup() int {
	now := l.now()

	l.mu.Lock()
	removed := 0
	for id, q := range l.users {
		q.mu.Lock()
		q.pruneLocked(now)
		idle := q.idleLocked(now)
		q.mu.Unlock()

		if idle {
			delete(l.users, id)
			removed++
		}
	}
	activeUsers.Set(float64(len(l.users)))
	l.mu.Unlock()

	if removed > 0 {
		l.logger.Debug().Int("evicted_users", removed).Msg("Quota sweep evicted idle users")
	}
	return removed
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
