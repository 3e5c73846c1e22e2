package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"agrichain.backend/pkg/logger"
	"agrichain.backend/pkg/metrics"
)

type resetTokenPurger interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// ResetTokenPurgeJob deletes password reset tokens past their expiry.
type ResetTokenPurgeJob struct {
	*tickerJob
	repo resetTokenPurger
	now  func() time.Time
}

func NewResetTokenPurgeJob(repo resetTokenPurger, interval time.Duration) *ResetTokenPurgeJob {
	if interval <= 0 {
		interval = time.Hour
	}
	j := &ResetTokenPurgeJob{repo: repo, now: time.Now}
	j.tickerJob = newTickerJob("reset_token_purge", interval, j.purgeExpiredTokens)
	return j
}

func (j *ResetTokenPurgeJob) purgeExpiredTokens(ctx context.Context) {
	n, err := j.repo.DeleteExpired(ctx, j.now())
	metrics.RecordJob("reset_token_purge", err)
	if err != nil {
		logger.Error(ctx, "Error purging reset tokens", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info(ctx, "Purged expired reset tokens", zap.Int64("count", n))
	}
}
