package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/internal/domain/repository"
	"StockScan/pkg/clickhouse"
)

// ClickHouseBatchStore implements BatchStore on ClickHouse. Each batch writes
// one summary row plus one row per outcome.
type ClickHouseBatchStore struct {
	client *clickhouse.Client
	db     *sql.DB
}

// NewClickHouseBatchStore creates the ClickHouse-backed batch store.
func NewClickHouseBatchStore(client *clickhouse.Client) repository.BatchStore {
	return &ClickHouseBatchStore{client: client, db: client.DB()}
}

func (s *ClickHouseBatchStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, []string{
		`CREATE TABLE IF NOT EXISTS scan_batches (
			batch_id String,
			created_at DateTime64(3),
			total_instruments UInt32,
			total_strategies UInt32,
			total_outcomes UInt32,
			expected_outcomes UInt32,
			failed_outcomes UInt32
		) ENGINE = MergeTree()
		ORDER BY (created_at, batch_id)`,
		`CREATE TABLE IF NOT EXISTS scan_outcomes (
			batch_id String,
			instrument String,
			strategy String,
			signal String,
			confidence Float64,
			price Float64,
			execution_ms Float64,
			produced_at DateTime64(3)
		) ENGINE = MergeTree()
		ORDER BY (batch_id, instrument, strategy)`,
	})
}

func (s *ClickHouseBatchStore) SaveBatch(ctx context.Context, batchID string, agg *models.BatchAggregate) error {
	now := time.Now().UTC()

	q := `INSERT INTO scan_batches (batch_id, created_at, total_instruments, total_strategies, total_outcomes, expected_outcomes, failed_outcomes) VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q,
		batchID,
		now,
		uint32(agg.Summary.TotalInstruments),
		uint32(agg.Summary.TotalStrategies),
		uint32(agg.Summary.TotalOutcomes),
		uint32(agg.Summary.ExpectedOutcomes),
		uint32(agg.Summary.FailedOutcomes),
	); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	values := make([]string, 0, agg.Summary.TotalOutcomes)
	args := make([]interface{}, 0, agg.Summary.TotalOutcomes*8)
	for _, g := range agg.Groups {
		for _, out := range g.Outcomes {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				batchID,
				out.Instrument,
				out.StrategyName,
				string(out.Signal),
				out.Confidence,
				out.Price,
				float64(out.Elapsed.Milliseconds()),
				out.ProducedAt.UTC(),
			)
		}
	}
	if len(values) == 0 {
		return nil
	}

	q = fmt.Sprintf("INSERT INTO scan_outcomes (batch_id, instrument, strategy, signal, confidence, price, execution_ms, produced_at) VALUES %s", strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert outcomes: %w", err)
	}
	return nil
}

func (s *ClickHouseBatchStore) LatestBatches(ctx context.Context, limit int) ([]models.StoredBatch, error) {
	if limit <= 0 {
		limit = 10
	}

	q := `SELECT batch_id, created_at, total_instruments, total_strategies, total_outcomes, expected_outcomes, failed_outcomes
		FROM scan_batches ORDER BY created_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var batches []models.StoredBatch
	for rows.Next() {
		var b models.StoredBatch
		var ti, ts, to, eo, fo uint32
		if err := rows.Scan(&b.BatchID, &b.CreatedAt, &ti, &ts, &to, &eo, &fo); err != nil {
			return nil, fmt.Errorf("scan batch row: %w", err)
		}
		b.TotalInstruments = int(ti)
		b.TotalStrategies = int(ts)
		b.TotalOutcomes = int(to)
		b.ExpectedOutcomes = int(eo)
		b.FailedOutcomes = int(fo)
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func (s *ClickHouseBatchStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *ClickHouseBatchStore) Close() error {
	return nil // connection pool is owned by pkg/clickhouse
}
