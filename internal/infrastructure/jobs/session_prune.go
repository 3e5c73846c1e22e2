package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"agrichain.backend/pkg/logger"
	"agrichain.backend/pkg/metrics"
)

type sessionPruner interface {
	Prune(ctx context.Context, now time.Time) (int, error)
}

// SessionPruneJob drops expired sessions from the in-memory store.
type SessionPruneJob struct {
	*tickerJob
	store sessionPruner
	now   func() time.Time
}

func NewSessionPruneJob(store sessionPruner, interval time.Duration) *SessionPruneJob {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	j := &SessionPruneJob{store: store, now: time.Now}
	j.tickerJob = newTickerJob("session_prune", interval, j.pruneExpiredSessions)
	return j
}

func (j *SessionPruneJob) pruneExpiredSessions(ctx context.Context) {
	n, err := j.store.Prune(ctx, j.now())
	metrics.RecordJob("session_prune", err)
	if err != nil {
		logger.Error(ctx, "Error pruning sessions", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info(ctx, "Pruned expired sessions", zap.Int("count", n))
	}
}
