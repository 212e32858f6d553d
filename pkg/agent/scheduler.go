package agent

import (
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Legendandy/youtube-summarizer-agent/pkg/cache"
	"github.com/Legendandy/youtube-summarizer-agent/pkg/ratelimit"
)

// Default maintenance schedules.
const (
	quotaCleanupSchedule = "@every 5m"
	cacheCleanupSchedule = "@every 24h"
)

// Maintenance runs the periodic housekeeping jobs: evicting idle user
// quota state and removing expired cache entries.
type Maintenance struct {
	limiter *ratelimit.Limiter
	cache   *cache.Manager
	cron    *cron.Cron
	mu      sync.Mutex
	running bool
	logger  zerolog.Logger
}

// NewMaintenance creates the maintenance scheduler.
func NewMaintenance(limiter *ratelimit.Limiter, cacheManager *cache.Manager) *Maintenance {
	return &Maintenance{
		limiter: limiter,
		cache:   cacheManager,
		cron:    cron.New(),
		logger:  log.With().Str("component", "maintenance").Logger(),
	}
}

// Start schedules the jobs and starts the scheduler. Calling Start on
// a running scheduler is a no-op.
func (m *Maintenance) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	if _, err := m.cron.AddFunc(quotaCleanupSchedule, m.runQuotaCleanup); err != nil {
		return err
	}
	if _, err := m.cron.AddFunc(cacheCleanupSchedule, m.runCacheCleanup); err != nil {
		return err
	}

	m.cron.Start()
	m.running = true

	m.logger.Info().
		Str("quota_schedule", quotaCleanupSchedule).
		Str("cache_schedule", cacheCleanupSchedule).
		Msg("Maintenance scheduler started")
	return nil
}

// Stop stops the scheduler and waits for any running jobs to complete.
func (m *Maintenance) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	ctx := m.cron.Stop()
	<-ctx.Done()
	m.running = false
	m.logger.Info().Msg("Maintenance scheduler stopped")
}

func (m *Maintenance) runQuotaCleanup() {
	removed := m.limiter.Cleanup()
	if removed > 0 {
		m.logger.Debug().
			Int("removed", removed).
			Msg("Idle user quota state evicted")
	}
}

func (m *Maintenance) runCacheCleanup() {
	removed := m.cache.CleanupExpired()
	if removed > 0 {
		m.logger.Info().
			Int("removed", removed).
			Msg("Expired cache entries removed")
	}
}
