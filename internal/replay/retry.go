package replay

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// withRetry runs fn up to cfg.MaxRetries+1 times with doubling backoff.
// Bounds are normalized in NewRunner.
func (r *Runner) withRetry(ctx context.Context, fn func(context.Context) error) error {
	delay := r.cfg.RetryBackoff
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= r.cfg.MaxRetries {
			return err
		}
		r.logger.Warn("retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
