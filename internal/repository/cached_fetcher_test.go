package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/pkg/cache"
	applogger "StockScan/pkg/logger"
)

type countingFetcher struct {
	calls int
	ds    *models.Dataset
	err   error
}

func (f *countingFetcher) FetchCandles(ctx context.Context, instrument string, windowDays int, resolution string) (*models.Dataset, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.ds, nil
}

type recordMetrics struct {
	cache map[string]int
}

func (m *recordMetrics) RecordTask(strategy, instrument, result string)  {}
func (m *recordMetrics) RecordTaskDuration(strategy string, s float64)  {}
func (m *recordMetrics) RecordBatch(status string, total, failed int)   {}
func (m *recordMetrics) RecordSinkError(op string)                      {}
func (m *recordMetrics) RecordCache(result string)                      { m.cache[result]++ }

type brokenCache struct {
	cache.Service
}

func (b *brokenCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("redis gone")
}

func (b *brokenCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("redis gone")
}

func testDataset() *models.Dataset {
	return &models.Dataset{
		Instrument: "BTCUSD",
		Resolution: "5m",
		WindowDays: 5,
		Candles: []models.Candle{
			{Time: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		},
	}
}

func fetcherLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestCachedFetcherMissThenHit(t *testing.T) {
	inner := &countingFetcher{ds: testDataset()}
	mem := cache.NewMemoryCache()
	defer mem.Close()
	m := &recordMetrics{cache: make(map[string]int)}
	f := NewCachedFetcher(inner, mem, m, fetcherLogger(t))

	ctx := context.Background()
	first, err := f.FetchCandles(ctx, "BTCUSD", 5, "5m")
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := f.FetchCandles(ctx, "BTCUSD", 5, "5m")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if inner.calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", inner.calls)
	}
	if second.Len() != first.Len() || second.Instrument != first.Instrument {
		t.Fatalf("cached dataset differs from fetched one")
	}
	if m.cache["miss"] != 1 || m.cache["hit"] != 1 {
		t.Fatalf("unexpected cache metrics %v", m.cache)
	}
}

func TestCachedFetcherKeyIncludesWindow(t *testing.T) {
	inner := &countingFetcher{ds: testDataset()}
	mem := cache.NewMemoryCache()
	defer mem.Close()
	m := &recordMetrics{cache: make(map[string]int)}
	f := NewCachedFetcher(inner, mem, m, fetcherLogger(t))

	ctx := context.Background()
	if _, err := f.FetchCandles(ctx, "BTCUSD", 5, "5m"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, err := f.FetchCandles(ctx, "BTCUSD", 30, "15m"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("different windows must not share cache entries, got %d calls", inner.calls)
	}
}

func TestCachedFetcherDegradesOnCacheFailure(t *testing.T) {
	inner := &countingFetcher{ds: testDataset()}
	m := &recordMetrics{cache: make(map[string]int)}
	f := NewCachedFetcher(inner, &brokenCache{}, m, fetcherLogger(t))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := f.FetchCandles(ctx, "BTCUSD", 5, "5m"); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("broken cache must pass through, got %d calls", inner.calls)
	}
	if m.cache["miss"] != 2 {
		t.Fatalf("unexpected cache metrics %v", m.cache)
	}
}

func TestCachedFetcherPropagatesUpstreamError(t *testing.T) {
	inner := &countingFetcher{err: errors.New("api down")}
	mem := cache.NewMemoryCache()
	defer mem.Close()
	m := &recordMetrics{cache: make(map[string]int)}
	f := NewCachedFetcher(inner, mem, m, fetcherLogger(t))

	if _, err := f.FetchCandles(context.Background(), "BTCUSD", 5, "5m"); err == nil {
		t.Fatalf("expected upstream error")
	}
}
