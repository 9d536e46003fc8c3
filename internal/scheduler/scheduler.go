package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"StockScan/internal/usecase"
	applogger "StockScan/pkg/logger"
)

// Scheduler triggers periodic scan cycles on a cron expression. Overlapping
// runs are skipped rather than queued.
type Scheduler struct {
	cron         *cron.Cron
	orchestrator *usecase.Orchestrator
	logger       *applogger.Logger
	spec         string

	mu      sync.Mutex
	running bool
}

// New creates a scan scheduler with the given cron spec.
func New(orchestrator *usecase.Orchestrator, logger *applogger.Logger, spec string) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithSeconds()),
		orchestrator: orchestrator,
		logger:       logger,
		spec:         spec,
	}
}

// Start registers the scan job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("register scan job: %w", err)
	}
	s.cron.Start()
	s.logger.Info("scheduler started", applogger.String("cron", s.spec))
	return nil
}

// Stop stops the cron loop and waits for an in-flight job to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("scan cycle still in progress, skipping trigger")
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	res, err := s.orchestrator.RunCycle(ctx, nil, nil)
	if err != nil {
		s.logger.Error("scheduled scan cycle failed", applogger.Error(err))
		return
	}
	s.logger.Info("scheduled scan cycle finished",
		applogger.String("status", string(res.Status)),
		applogger.String("batch_id", res.BatchID),
	)
}
