package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"agrichain.backend/pkg/logger"
)

// tickerJob runs fn every interval until the context ends or Stop is called.
type tickerJob struct {
	name     string
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
	fn       func(ctx context.Context)
}

func newTickerJob(name string, interval time.Duration, fn func(ctx context.Context)) *tickerJob {
	return &tickerJob{
		name:     name,
		interval: interval,
		stop:     make(chan struct{}),
		fn:       fn,
	}
}

func (j *tickerJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting background job", zap.String("job", j.name), zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(context.Background(), "Background job stopped (context cancelled)", zap.String("job", j.name))
			return
		case <-j.stop:
			logger.Info(ctx, "Background job stopped", zap.String("job", j.name))
			return
		case <-ticker.C:
			j.fn(ctx)
		}
	}
}

func (j *tickerJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}
