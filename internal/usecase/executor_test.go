package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"StockScan/internal/domain/models"
	applogger "StockScan/pkg/logger"
)

type fakeMetrics struct {
	mu        sync.Mutex
	tasks     map[string]int // result -> count
	batches   map[string]int // status -> count
	cache     map[string]int // result -> count
	sinkErrs  map[string]int // operation -> count
	durations int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		tasks:    make(map[string]int),
		batches:  make(map[string]int),
		cache:    make(map[string]int),
		sinkErrs: make(map[string]int),
	}
}

func (m *fakeMetrics) RecordTask(strategy, instrument, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[result]++
}

func (m *fakeMetrics) RecordTaskDuration(strategy string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations++
}

func (m *fakeMetrics) RecordBatch(status string, total, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[status]++
}

func (m *fakeMetrics) RecordCache(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[result]++
}

func (m *fakeMetrics) RecordSinkError(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinkErrs[op]++
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

type stubStrategy struct {
	name string
	fn   func(ctx context.Context, instrument string) (models.SignalOutcome, error)
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Evaluate(ctx context.Context, instrument string) (models.SignalOutcome, error) {
	return s.fn(ctx, instrument)
}

func testTask() models.TaskDescriptor {
	return models.TaskDescriptor{StrategyID: "stub", Instrument: "BTCUSD", Sequence: 1, BatchSize: 1}
}

func TestExecuteFirstAttemptSucceeds(t *testing.T) {
	m := newFakeMetrics()
	exec := NewExecutor(RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, m, testLogger(t))

	calls := 0
	strat := &stubStrategy{name: "stub", fn: func(ctx context.Context, instrument string) (models.SignalOutcome, error) {
		calls++
		return models.SignalOutcome{StrategyName: "stub", Instrument: instrument, Signal: models.SignalBuy, OK: true}, nil
	}}

	out, ok := exec.Execute(context.Background(), testTask(), strat)
	if !ok {
		t.Fatalf("expected success")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if out.Signal != models.SignalBuy {
		t.Fatalf("unexpected signal %s", out.Signal)
	}
	if m.tasks["ok"] != 1 || m.tasks["failed"] != 0 {
		t.Fatalf("unexpected task metrics %v", m.tasks)
	}
}

func TestExecuteRetriesThenSucceeds(t *testing.T) {
	m := newFakeMetrics()
	exec := NewExecutor(RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, m, testLogger(t))

	calls := 0
	strat := &stubStrategy{name: "stub", fn: func(ctx context.Context, instrument string) (models.SignalOutcome, error) {
		calls++
		if calls < 3 {
			return models.SignalOutcome{}, errors.New("upstream flake")
		}
		return models.SignalOutcome{Signal: models.SignalHold, OK: true}, nil
	}}

	_, ok := exec.Execute(context.Background(), testTask(), strat)
	if !ok {
		t.Fatalf("expected eventual success")
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestExecuteExhaustsRetries(t *testing.T) {
	m := newFakeMetrics()
	exec := NewExecutor(RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, m, testLogger(t))

	calls := 0
	strat := &stubStrategy{name: "stub", fn: func(ctx context.Context, instrument string) (models.SignalOutcome, error) {
		calls++
		return models.SignalOutcome{}, errors.New("permanent failure")
	}}

	_, ok := exec.Execute(context.Background(), testTask(), strat)
	if ok {
		t.Fatalf("expected failure after retries")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if m.tasks["failed"] != 1 {
		t.Fatalf("expected 1 failed task recorded, got %v", m.tasks)
	}
}

func TestExecuteStopsOnCancelledContext(t *testing.T) {
	m := newFakeMetrics()
	exec := NewExecutor(RetryPolicy{MaxAttempts: 3, BaseDelay: time.Hour}, m, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	strat := &stubStrategy{name: "stub", fn: func(ctx context.Context, instrument string) (models.SignalOutcome, error) {
		return models.SignalOutcome{}, errors.New("fail")
	}}

	start := time.Now()
	_, ok := exec.Execute(ctx, testTask(), strat)
	if ok {
		t.Fatalf("expected failure")
	}
	if time.Since(start) > time.Second {
		t.Fatalf("backoff did not honor context cancellation")
	}
}

func TestBackoffDoubles(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 4, BaseDelay: 500 * time.Millisecond}
	if p.Backoff(1) != 500*time.Millisecond {
		t.Fatalf("unexpected first backoff %v", p.Backoff(1))
	}
	if p.Backoff(2) != time.Second {
		t.Fatalf("unexpected second backoff %v", p.Backoff(2))
	}
	if p.Backoff(3) != 2*time.Second {
		t.Fatalf("unexpected third backoff %v", p.Backoff(3))
	}
}
