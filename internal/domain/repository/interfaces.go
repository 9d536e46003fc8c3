package repository

import (
	"context"

	"StockScan/internal/domain/models"
)

// DataFetcher retrieves a candle dataset for an instrument. Implementations
// must be pure with respect to their inputs so that concurrent duplicate
// fetches stay benign.
type DataFetcher interface {
	FetchCandles(ctx context.Context, instrument string, windowDays int, resolution string) (*models.Dataset, error)
}

// BatchStore persists finished batches and serves history queries.
type BatchStore interface {
	Init(ctx context.Context) error // ensure tables
	SaveBatch(ctx context.Context, batchID string, agg *models.BatchAggregate) error
	LatestBatches(ctx context.Context, limit int) ([]models.StoredBatch, error)
	Health(ctx context.Context) error
	Close() error
}

// Notifier publishes real-time events for downstream subscribers. Publish
// returns the number of subscribers that received the message.
type Notifier interface {
	Publish(ctx context.Context, channel string, payload interface{}) (int64, error)
	Close() error
}

// Metrics records orchestration observability counters.
type Metrics interface {
	RecordTask(strategy, instrument, result string)
	RecordTaskDuration(strategy string, seconds float64)
	RecordBatch(status string, total, failed int)
	RecordCache(result string)
	RecordSinkError(op string)
}
