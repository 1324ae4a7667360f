package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/blackboxopt/tuner-core/pkg/logger"
	"github.com/blackboxopt/tuner-core/pkg/models"
	"github.com/blackboxopt/tuner-core/pkg/utils"
)

// RetryingEvaluator wraps an evaluator whose Submit can fail
// transiently, e.g. a remote worker pool with flaky admission. Submit
// failures are retried with backoff; failures after submission are not
// retried, the trial's measurements may already be partially recorded.
type RetryingEvaluator struct {
	Inner       Evaluator
	MaxAttempts int
	Backoff     utils.BackoffStrategy
}

// NewRetryingEvaluator wraps inner with up to maxAttempts submissions
// per trial. A nil backoff uses a 100ms constant delay.
func NewRetryingEvaluator(inner Evaluator, maxAttempts int, backoff utils.BackoffStrategy) *RetryingEvaluator {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if backoff == nil {
		backoff = utils.NewConstantBackoff(100 * time.Millisecond)
	}
	return &RetryingEvaluator{Inner: inner, MaxAttempts: maxAttempts, Backoff: backoff}
}

func (r *RetryingEvaluator) Submit(ctx context.Context, trial *models.Trial) (Evaluation, error) {
	var lastErr error
	for attempt := 0; attempt < r.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.Backoff.NextDelay(attempt - 1)):
			}
			logger.Debug("retrying evaluation submit", "trial_id", trial.ID, "attempt", attempt+1)
		}
		ev, err := r.Inner.Submit(ctx, trial)
		if err == nil {
			return ev, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("submit failed after %d attempts: %w", r.MaxAttempts, lastErr)
}
