package jobs

import (
	"context"
	"errors"
	"fmt"

	"interviewprep/internal/models"

	"go.uber.org/zap"
)

// UserLister lists every user that owns a session.
type UserLister interface {
	UserIDsWithSessions(ctx context.Context) ([]uint, error)
}

// Recomputer rebuilds one user's statistics.
type Recomputer interface {
	Recompute(ctx context.Context, userID uint) (*models.Statistics, error)
}

// StatsRebuilder recomputes every user's statistics from their sessions.
// It repairs statistics left stale by a failed refresh after a commit.
type StatsRebuilder struct {
	users  UserLister
	stats  Recomputer
	logger *zap.Logger
}

func NewStatsRebuilder(users UserLister, stats Recomputer, logger *zap.Logger) *StatsRebuilder {
	return &StatsRebuilder{users: users, stats: stats, logger: logger}
}

// Run rebuilds all users and returns how many succeeded. A failure for one
// user does not stop the others.
func (r *StatsRebuilder) Run(ctx context.Context) (int, error) {
	ids, err := r.users.UserIDsWithSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	rebuilt := 0
	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := r.stats.Recompute(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("user %d: %w", id, err))
			continue
		}
		rebuilt++
	}
	r.logger.Info("statistics rebuilt", zap.Int("users", rebuilt), zap.Int("failed", len(ids)-rebuilt))
	return rebuilt, errors.Join(errs...)
}
