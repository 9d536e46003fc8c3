package usecase

import (
	"context"
	"time"

	"StockScan/internal/domain/models"
	drepo "StockScan/internal/domain/repository"
	"StockScan/internal/strategy"
	applogger "StockScan/pkg/logger"
)

// RetryPolicy is the explicit retry envelope the executor wraps around every
// strategy evaluation.
type RetryPolicy struct {
	MaxAttempts    int           // total attempts, including the first
	BaseDelay      time.Duration // delay before the first retry; doubles each retry
	AttemptTimeout time.Duration // per-attempt deadline, 0 disables
}

// DefaultRetryPolicy mirrors the fixed three-attempt cap with exponential
// backoff used across the scan pipeline.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		BaseDelay:      500 * time.Millisecond,
		AttemptTimeout: 15 * time.Second,
	}
}

// Backoff returns the delay to wait after the given failed attempt (1-based).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

// Executor runs one task against its strategy, applying the retry policy.
// Instances are stateless and safe for concurrent use.
type Executor struct {
	policy  RetryPolicy
	metrics drepo.Metrics
	logger  *applogger.Logger
}

// NewExecutor creates a task executor.
func NewExecutor(policy RetryPolicy, metrics drepo.Metrics, logger *applogger.Logger) *Executor {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	return &Executor{policy: policy, metrics: metrics, logger: logger}
}

// Execute evaluates the task's strategy for its instrument. It returns the
// outcome and true on success; after retry exhaustion it returns false and
// the failure is only logged and counted, never propagated.
func (e *Executor) Execute(ctx context.Context, task models.TaskDescriptor, strat strategy.Strategy) (models.SignalOutcome, bool) {
	var lastErr error

	for attempt := 1; attempt <= e.policy.MaxAttempts; attempt++ {
		out, err := e.evaluateOnce(ctx, strat, task.Instrument)
		if err == nil {
			e.metrics.RecordTask(task.StrategyID, task.Instrument, "ok")
			e.metrics.RecordTaskDuration(task.StrategyID, out.Elapsed.Seconds())
			e.logger.Debug("task completed",
				applogger.String("strategy", task.StrategyID),
				applogger.String("instrument", task.Instrument),
				applogger.Int("seq", task.Sequence),
				applogger.Int("of", task.BatchSize),
				applogger.String("signal", string(out.Signal)),
			)
			return out, true
		}
		lastErr = err

		if attempt < e.policy.MaxAttempts {
			e.logger.Warn("task attempt failed, retrying",
				applogger.String("strategy", task.StrategyID),
				applogger.String("instrument", task.Instrument),
				applogger.Int("attempt", attempt),
				applogger.Error(err),
			)
			if !sleepCtx(ctx, e.policy.Backoff(attempt)) {
				break
			}
		}
	}

	e.metrics.RecordTask(task.StrategyID, task.Instrument, "failed")
	e.logger.Error("task failed after retries",
		applogger.String("strategy", task.StrategyID),
		applogger.String("instrument", task.Instrument),
		applogger.Int("seq", task.Sequence),
		applogger.Int("attempts", e.policy.MaxAttempts),
		applogger.Error(lastErr),
	)
	return models.SignalOutcome{}, false
}

func (e *Executor) evaluateOnce(ctx context.Context, strat strategy.Strategy, instrument string) (models.SignalOutcome, error) {
	if e.policy.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.policy.AttemptTimeout)
		defer cancel()
	}
	return strat.Evaluate(ctx, instrument)
}

// sleepCtx waits for d or until ctx is done; it returns false when the
// context ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
