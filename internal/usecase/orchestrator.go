package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"StockScan/internal/domain/models"
	drepo "StockScan/internal/domain/repository"
	"StockScan/internal/strategy"
	applogger "StockScan/pkg/logger"
)

// OrchestratorConfig holds the per-cycle defaults and pool sizing.
type OrchestratorConfig struct {
	Workers        int
	Instruments    []string
	Strategies     []string
	BatchChannel   string
	OutcomeChannel string
}

// Orchestrator runs one scan cycle end to end: fan the instrument×strategy
// task set out to a bounded worker pool, barrier-join the outcomes, aggregate
// them, and hand publish-worthy batches to the sink.
type Orchestrator struct {
	fetcher  drepo.DataFetcher
	exec     *Executor
	store    drepo.BatchStore
	notifier drepo.Notifier
	metrics  drepo.Metrics
	logger   *applogger.Logger
	cfg      OrchestratorConfig
}

// NewOrchestrator creates the scan orchestrator.
func NewOrchestrator(
	fetcher drepo.DataFetcher,
	exec *Executor,
	store drepo.BatchStore,
	notifier drepo.Notifier,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	cfg OrchestratorConfig,
) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	return &Orchestrator{
		fetcher:  fetcher,
		exec:     exec,
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

// BatchEvent is the payload published on batch completion.
type BatchEvent struct {
	BatchID      string                   `json:"batch_id"`
	Summary      models.BatchSummary      `json:"summary"`
	TotalResults int                      `json:"total_results"`
	Groups       []models.InstrumentGroup `json:"groups"`
}

// RunCycle executes one batch. Empty instruments or strategies short-circuit
// to a skipped result. Individual task failures are absorbed into the failure
// count; only a sink failure surfaces as an error.
func (o *Orchestrator) RunCycle(ctx context.Context, instruments, strategyIDs []string) (*models.CycleResult, error) {
	started := time.Now()

	if len(instruments) == 0 {
		instruments = o.cfg.Instruments
	}
	if len(strategyIDs) == 0 {
		strategyIDs = o.cfg.Strategies
	}

	strats, err := strategy.Build(strategyIDs, strategy.Deps{Fetcher: o.fetcher})
	if err != nil {
		return nil, fmt.Errorf("build strategies: %w", err)
	}
	byID := make(map[string]strategy.Strategy, len(strats))
	for i, id := range strategyIDs {
		byID[id] = strats[i]
	}

	tasks := BuildTasks(instruments, strategyIDs)
	if len(tasks) == 0 {
		o.logger.Info("scan cycle skipped: nothing to do",
			applogger.Int("instruments", len(instruments)),
			applogger.Int("strategies", len(strategyIDs)),
		)
		o.metrics.RecordBatch(string(models.CycleEmpty), 0, 0)
		return &models.CycleResult{
			Status:    models.CycleEmpty,
			Aggregate: Aggregate(nil, instruments, strategyIDs),
			Elapsed:   time.Since(started),
		}, nil
	}

	o.logger.Info("scan cycle started",
		applogger.Int("tasks", len(tasks)),
		applogger.Int("workers", o.cfg.Workers),
	)

	outcomes := o.runAll(ctx, tasks, byID)
	agg := Aggregate(outcomes, instruments, strategyIDs)

	if !agg.Publishable() {
		o.logger.Info("scan cycle skipped: no actionable signals",
			applogger.Int("outcomes", agg.Summary.TotalOutcomes),
			applogger.Int("failed", agg.Summary.FailedOutcomes),
		)
		o.metrics.RecordBatch(string(models.CycleSkipped), agg.Summary.TotalOutcomes, agg.Summary.FailedOutcomes)
		return &models.CycleResult{
			Status:    models.CycleSkipped,
			Aggregate: agg,
			Elapsed:   time.Since(started),
		}, nil
	}

	batchID, err := o.publish(ctx, agg)
	if err != nil {
		return nil, err
	}
	o.metrics.RecordBatch(string(models.CyclePublished), agg.Summary.TotalOutcomes, agg.Summary.FailedOutcomes)

	elapsed := time.Since(started)
	o.logger.Info("scan cycle published",
		applogger.String("batch_id", batchID),
		applogger.Int("outcomes", agg.Summary.TotalOutcomes),
		applogger.Int("failed", agg.Summary.FailedOutcomes),
		applogger.Duration("elapsed_ms", elapsed),
	)
	return &models.CycleResult{
		BatchID:   batchID,
		Status:    models.CyclePublished,
		Aggregate: agg,
		Elapsed:   elapsed,
	}, nil
}

// runAll submits every task to the bounded pool and blocks until all of them
// reach a terminal state. There is no aggregate deadline and no ordering
// between tasks; the outcome slice is in arrival order.
func (o *Orchestrator) runAll(ctx context.Context, tasks []models.TaskDescriptor, byID map[string]strategy.Strategy) []models.SignalOutcome {
	sem := make(chan struct{}, o.cfg.Workers)
	results := make(chan models.SignalOutcome, len(tasks))

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(task models.TaskDescriptor) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if out, ok := o.exec.Execute(ctx, task, byID[task.StrategyID]); ok {
				results <- out
			}
		}(task)
	}
	wg.Wait()
	close(results)

	outcomes := make([]models.SignalOutcome, 0, len(tasks))
	for out := range results {
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// publish persists the aggregate and broadcasts completion events. Any sink
// error is fatal for the cycle and propagated to the trigger.
func (o *Orchestrator) publish(ctx context.Context, agg *models.BatchAggregate) (string, error) {
	batchID := uuid.NewString()

	if err := o.store.SaveBatch(ctx, batchID, agg); err != nil {
		o.metrics.RecordSinkError("persist")
		return "", fmt.Errorf("persist batch: %w", err)
	}

	subs, err := o.notifier.Publish(ctx, o.cfg.BatchChannel, BatchEvent{
		BatchID:      batchID,
		Summary:      agg.Summary,
		TotalResults: agg.Summary.TotalOutcomes,
		Groups:       agg.Groups,
	})
	if err != nil {
		o.metrics.RecordSinkError("notify")
		return "", fmt.Errorf("notify batch: %w", err)
	}

	if o.cfg.OutcomeChannel != "" {
		for _, g := range agg.Groups {
			for _, out := range g.Outcomes {
				if _, err := o.notifier.Publish(ctx, o.cfg.OutcomeChannel, out); err != nil {
					o.metrics.RecordSinkError("notify")
					return "", fmt.Errorf("notify outcome: %w", err)
				}
			}
		}
	}

	o.logger.Debug("batch events published",
		applogger.String("batch_id", batchID),
		applogger.Int64("subscribers", subs),
	)
	return batchID, nil
}
