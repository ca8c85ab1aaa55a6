package jobs

import (
	"time"

	"go.uber.org/zap"
)

type ExpiredTokenDeleter interface {
	DeleteExpired(before time.Time) (int64, error)
}

// TokenCleaner removes expired refresh tokens.
type TokenCleaner struct {
	tokens ExpiredTokenDeleter
	logger *zap.Logger
	now    func() time.Time
}

func NewTokenCleaner(tokens ExpiredTokenDeleter, logger *zap.Logger) *TokenCleaner {
	return &TokenCleaner{tokens: tokens, logger: logger, now: time.Now}
}

func (c *TokenCleaner) Run() (int64, error) {
	n, err := c.tokens.DeleteExpired(c.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.logger.Info("expired tokens removed", zap.Int64("count", n))
	}
	return n, nil
}
