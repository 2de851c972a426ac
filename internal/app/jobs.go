/**
 * @description
 * Scheduled job implementations: retention purges for stale payments and
 * expired notifications, plus rate-limiter bookkeeping.
 */
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/choiceproperties/marketplace-service/internal/config"
	"github.com/choiceproperties/marketplace-service/internal/store"
)

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	repo    store.Repository
	limiter *SlidingWindowLimiter
	logger  *slog.Logger
	config  config.Config
}

// NewJobs creates a new Jobs runner. The limiter may be nil when the
// deployment uses the Redis limiter, which expires its own keys.
func NewJobs(repo store.Repository, limiter *SlidingWindowLimiter, logger *slog.Logger, cfg config.Config) *Jobs {
	return &Jobs{
		repo:    repo,
		limiter: limiter,
		logger:  logger,
		config:  cfg,
	}
}

// PurgeStalePayments deletes pending and processing payments that were never
// finalized within the retention window. Completed and failed payments are
// kept indefinitely.
func (j *Jobs) PurgeStalePayments() {
	j.logger.Info("starting stale payment purge job")
	ctx := context.Background()

	retention := time.Duration(j.config.StalePaymentRetentionHours) * time.Hour
	cutoff := time.Now().UTC().Add(-retention)
	purged, err := j.repo.PurgeStalePayments(ctx, cutoff)
	if err != nil {
		j.logger.Error("failed to purge stale payments", "error", err)
		return
	}

	j.logger.Info("stale payment purge job finished", "purged", purged)
}

// PurgeExpiredNotifications deletes notifications past their expiry.
func (j *Jobs) PurgeExpiredNotifications() {
	j.logger.Info("starting notification purge job")
	ctx := context.Background()

	purged, err := j.repo.PurgeExpiredNotifications(ctx, time.Now().UTC())
	if err != nil {
		j.logger.Error("failed to purge expired notifications", "error", err)
		return
	}

	j.logger.Info("notification purge job finished", "purged", purged)
}

// PruneRateLimiter drops idle subjects from the in-process limiter.
func (j *Jobs) PruneRateLimiter() {
	if j.limiter == nil {
		return
	}
	window := time.Duration(j.config.SubmissionRateLimitWindowMinutes) * time.Minute
	removed := j.limiter.PruneStale(window)
	if removed > 0 {
		j.logger.Info("pruned idle rate limiter subjects", "removed", removed)
	}
}
