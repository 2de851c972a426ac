/**
 * @description
 * Cron scheduler setup for the retention and maintenance jobs.
 */
package app

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/choiceproperties/marketplace-service/internal/config"
)

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron   *cron.Cron
	jobs   *Jobs
	logger *slog.Logger
	config config.Config
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(jobs *Jobs, logger *slog.Logger, cfg config.Config) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:   c,
		jobs:   jobs,
		logger: logger,
		config: cfg,
	}
}

// Start registers the jobs and starts the cron scheduler.
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.config.PaymentPurgeSchedule, s.jobs.PurgeStalePayments); err != nil {
		s.logger.Error("failed to schedule stale payment purge job", "error", err)
	} else {
		s.logger.Info("scheduled stale payment purge job", "schedule", s.config.PaymentPurgeSchedule)
	}

	if _, err := s.cron.AddFunc(s.config.NotificationPurgeSchedule, s.jobs.PurgeExpiredNotifications); err != nil {
		s.logger.Error("failed to schedule notification purge job", "error", err)
	} else {
		s.logger.Info("scheduled notification purge job", "schedule", s.config.NotificationPurgeSchedule)
	}

	if _, err := s.cron.AddFunc(s.config.RateLimitPruneSchedule, s.jobs.PruneRateLimiter); err != nil {
		s.logger.Error("failed to schedule rate limiter prune job", "error", err)
	} else {
		s.logger.Info("scheduled rate limiter prune job", "schedule", s.config.RateLimitPruneSchedule)
	}

	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
