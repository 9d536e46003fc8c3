package repository

import (
	"context"
	"errors"
	"fmt"

	"StockScan/internal/domain/models"
	drepo "StockScan/internal/domain/repository"
	"StockScan/pkg/cache"
	applogger "StockScan/pkg/logger"
)

// CachedFetcher decorates a DataFetcher with a TTL cache keyed by the full
// fetch window. Cache failures degrade to pass-through so a broken cache
// never blocks a scan.
type CachedFetcher struct {
	inner   drepo.DataFetcher
	cache   cache.Service
	metrics drepo.Metrics
	logger  *applogger.Logger
}

// NewCachedFetcher wraps fetcher with the given cache service.
func NewCachedFetcher(inner drepo.DataFetcher, c cache.Service, metrics drepo.Metrics, logger *applogger.Logger) *CachedFetcher {
	return &CachedFetcher{inner: inner, cache: c, metrics: metrics, logger: logger}
}

func (f *CachedFetcher) FetchCandles(ctx context.Context, instrument string, windowDays int, resolution string) (*models.Dataset, error) {
	key := datasetKey(instrument, windowDays, resolution)

	var cached models.Dataset
	err := f.cache.Get(ctx, key, &cached)
	if err == nil && cached.Len() > 0 {
		f.metrics.RecordCache("hit")
		return &cached, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		f.logger.Warn("candle cache read failed",
			applogger.String("key", key),
			applogger.Error(err),
		)
	}
	f.metrics.RecordCache("miss")

	ds, err := f.inner.FetchCandles(ctx, instrument, windowDays, resolution)
	if err != nil {
		return nil, err
	}

	ttl := drepo.CacheTTL(resolution)
	if err := f.cache.Set(ctx, key, ds, ttl); err != nil {
		f.logger.Warn("candle cache write failed",
			applogger.String("key", key),
			applogger.Error(err),
		)
	}
	return ds, nil
}

func datasetKey(instrument string, windowDays int, resolution string) string {
	return fmt.Sprintf("candles:%s:%d:%s", instrument, windowDays, resolution)
}
