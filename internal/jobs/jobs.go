// Package jobs runs the scheduled maintenance tasks.
package jobs

import (
	"context"
	"fmt"
	"time"

	"interviewprep/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// runTimeout bounds a single scheduled run.
const runTimeout = 10 * time.Minute

// Scheduler runs the statistics rebuild and the refresh token cleanup on
// their cron schedules.
type Scheduler struct {
	config  config.JobsConfig
	rebuild *StatsRebuilder
	cleanup *TokenCleaner
	logger  *zap.Logger
	cron    *cron.Cron
}

func NewScheduler(cfg config.JobsConfig, rebuild *StatsRebuilder, cleanup *TokenCleaner, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		config:  cfg,
		rebuild: rebuild,
		cleanup: cleanup,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start registers both jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info("scheduled jobs are disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.config.StatsRebuildSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := s.rebuild.Run(ctx); err != nil {
			s.logger.Error("statistics rebuild failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule statistics rebuild: %w", err)
	}

	_, err = s.cron.AddFunc(s.config.TokenCleanupSchedule, func() {
		if _, err := s.cleanup.Run(); err != nil {
			s.logger.Error("token cleanup failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule token cleanup: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduled jobs started",
		zap.String("stats_rebuild", s.config.StatsRebuildSchedule),
		zap.String("token_cleanup", s.config.TokenCleanupSchedule))
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }
