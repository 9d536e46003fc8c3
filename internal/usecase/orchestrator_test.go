package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"StockScan/internal/domain/models"
)

type fakeFetcher struct {
	mu       sync.Mutex
	datasets map[string]*models.Dataset
	errs     map[string]error
	calls    int
}

func (f *fakeFetcher) FetchCandles(ctx context.Context, instrument string, windowDays int, resolution string) (*models.Dataset, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, ok := f.errs[instrument]; ok {
		return nil, err
	}
	if ds, ok := f.datasets[instrument]; ok {
		return ds, nil
	}
	return nil, errors.New("no dataset configured")
}

type fakeStore struct {
	mu    sync.Mutex
	saved map[string]*models.BatchAggregate
	err   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string]*models.BatchAggregate)}
}

func (s *fakeStore) Init(ctx context.Context) error { return nil }

func (s *fakeStore) SaveBatch(ctx context.Context, batchID string, agg *models.BatchAggregate) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[batchID] = agg
	return nil
}

func (s *fakeStore) LatestBatches(ctx context.Context, limit int) ([]models.StoredBatch, error) {
	return nil, nil
}

func (s *fakeStore) Health(ctx context.Context) error { return nil }
func (s *fakeStore) Close() error                     { return nil }

type publishedEvent struct {
	channel string
	payload interface{}
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (n *fakeNotifier) Publish(ctx context.Context, channel string, payload interface{}) (int64, error) {
	if n.err != nil {
		return 0, n.err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, publishedEvent{channel: channel, payload: payload})
	return 2, nil
}

func (n *fakeNotifier) Close() error { return nil }

// makeCandles builds a candle series from closes with a fixed half-point
// wick below each close.
func makeCandles(closes []float64) []models.Candle {
	start := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, 0, len(closes))
	for i, c := range closes {
		candles = append(candles, models.Candle{
			Time:   start.Add(time.Duration(i) * 5 * time.Minute),
			Open:   c + 0.1,
			High:   c + 1,
			Low:    c - 0.5,
			Close:  c,
			Volume: 100,
		})
	}
	return candles
}

// oversoldDataset declines steadily so RSI pins near zero, with the latest
// close held above the previous candle's low. The RSI strategy reads this as
// a buy.
func oversoldDataset(instrument string) *models.Dataset {
	closes := make([]float64, 0, 30)
	price := 100.0
	for i := 0; i < 29; i++ {
		closes = append(closes, price)
		price -= 1
	}
	closes = append(closes, closes[28]-0.2)
	return &models.Dataset{Instrument: instrument, Resolution: "5m", WindowDays: 5, Candles: makeCandles(closes)}
}

// flatDataset never moves, so every strategy holds.
func flatDataset(instrument string) *models.Dataset {
	start := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, 0, 30)
	for i := 0; i < 30; i++ {
		candles = append(candles, models.Candle{
			Time: start.Add(time.Duration(i) * 5 * time.Minute),
			Open: 50, High: 50, Low: 50, Close: 50, Volume: 100,
		})
	}
	return &models.Dataset{Instrument: instrument, Resolution: "5m", WindowDays: 5, Candles: candles}
}

func newTestOrchestrator(t *testing.T, fetcher *fakeFetcher, store *fakeStore, notifier *fakeNotifier) (*Orchestrator, *fakeMetrics) {
	t.Helper()
	m := newFakeMetrics()
	exec := NewExecutor(RetryPolicy{MaxAttempts: 1, BaseDelay: time.Millisecond}, m, testLogger(t))
	orch := NewOrchestrator(fetcher, exec, store, notifier, m, testLogger(t), OrchestratorConfig{
		Workers:        4,
		BatchChannel:   "scan.batches",
		OutcomeChannel: "scan.outcomes",
	})
	return orch, m
}

func TestRunCyclePublishes(t *testing.T) {
	fetcher := &fakeFetcher{datasets: map[string]*models.Dataset{
		"BTCUSD": oversoldDataset("BTCUSD"),
		"ETHUSD": oversoldDataset("ETHUSD"),
	}}
	store := newFakeStore()
	notifier := &fakeNotifier{}
	orch, _ := newTestOrchestrator(t, fetcher, store, notifier)

	res, err := orch.RunCycle(context.Background(), []string{"BTCUSD", "ETHUSD"}, []string{"rsi"})
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if res.Status != models.CyclePublished {
		t.Fatalf("expected published, got %s", res.Status)
	}
	if res.BatchID == "" {
		t.Fatalf("expected a batch id")
	}
	if res.Aggregate.Summary.TotalOutcomes != 2 || res.Aggregate.Summary.FailedOutcomes != 0 {
		t.Fatalf("unexpected summary %+v", res.Aggregate.Summary)
	}

	if _, ok := store.saved[res.BatchID]; !ok {
		t.Fatalf("batch %s not persisted", res.BatchID)
	}
	// one batch event plus one event per outcome
	if len(notifier.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(notifier.events))
	}
	if notifier.events[0].channel != "scan.batches" {
		t.Fatalf("expected batch event first, got %s", notifier.events[0].channel)
	}
	ev, ok := notifier.events[0].payload.(BatchEvent)
	if !ok {
		t.Fatalf("unexpected batch event payload %T", notifier.events[0].payload)
	}
	if ev.BatchID != res.BatchID || ev.TotalResults != 2 {
		t.Fatalf("unexpected batch event %+v", ev)
	}
}

func TestRunCycleAbsorbsTaskFailures(t *testing.T) {
	fetcher := &fakeFetcher{
		datasets: map[string]*models.Dataset{"BTCUSD": oversoldDataset("BTCUSD")},
		errs:     map[string]error{"ETHUSD": errors.New("upstream down")},
	}
	store := newFakeStore()
	notifier := &fakeNotifier{}
	orch, m := newTestOrchestrator(t, fetcher, store, notifier)

	res, err := orch.RunCycle(context.Background(), []string{"BTCUSD", "ETHUSD"}, []string{"rsi"})
	if err != nil {
		t.Fatalf("task failures must not fail the cycle: %v", err)
	}
	if res.Status != models.CyclePublished {
		t.Fatalf("expected published, got %s", res.Status)
	}
	s := res.Aggregate.Summary
	if s.ExpectedOutcomes != 2 || s.TotalOutcomes != 1 || s.FailedOutcomes != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if m.tasks["failed"] != 1 {
		t.Fatalf("expected 1 failed task metric, got %v", m.tasks)
	}
}

func TestRunCycleSkipsAllHold(t *testing.T) {
	fetcher := &fakeFetcher{datasets: map[string]*models.Dataset{
		"BTCUSD": flatDataset("BTCUSD"),
	}}
	store := newFakeStore()
	notifier := &fakeNotifier{}
	orch, _ := newTestOrchestrator(t, fetcher, store, notifier)

	res, err := orch.RunCycle(context.Background(), []string{"BTCUSD"}, []string{"rsi"})
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if res.Status != models.CycleSkipped {
		t.Fatalf("expected skipped, got %s", res.Status)
	}
	if len(store.saved) != 0 || len(notifier.events) != 0 {
		t.Fatalf("skipped cycle must not touch the sink")
	}
}

func TestRunCycleEmptyInstruments(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	orch, _ := newTestOrchestrator(t, &fakeFetcher{}, store, notifier)

	res, err := orch.RunCycle(context.Background(), nil, []string{"rsi"})
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if res.Status != models.CycleEmpty {
		t.Fatalf("expected empty, got %s", res.Status)
	}
	if len(store.saved) != 0 || len(notifier.events) != 0 {
		t.Fatalf("empty cycle must not touch the sink")
	}
}

func TestRunCycleSinkErrorPropagates(t *testing.T) {
	fetcher := &fakeFetcher{datasets: map[string]*models.Dataset{
		"BTCUSD": oversoldDataset("BTCUSD"),
	}}
	store := newFakeStore()
	store.err = errors.New("clickhouse down")
	notifier := &fakeNotifier{}
	orch, m := newTestOrchestrator(t, fetcher, store, notifier)

	_, err := orch.RunCycle(context.Background(), []string{"BTCUSD"}, []string{"rsi"})
	if err == nil {
		t.Fatalf("expected sink error to propagate")
	}
	if len(notifier.events) != 0 {
		t.Fatalf("must not notify when persistence failed")
	}
	if m.sinkErrs["persist"] != 1 {
		t.Fatalf("expected persist sink error metric, got %v", m.sinkErrs)
	}
}

func TestRunCycleUnknownStrategy(t *testing.T) {
	orch, _ := newTestOrchestrator(t, &fakeFetcher{}, newFakeStore(), &fakeNotifier{})
	if _, err := orch.RunCycle(context.Background(), []string{"BTCUSD"}, []string{"nope"}); err == nil {
		t.Fatalf("expected error for unknown strategy id")
	}
}
