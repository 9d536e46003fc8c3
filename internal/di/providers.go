package di

import (
	"fmt"

	"StockScan/internal/domain/repository"
	"StockScan/internal/handler/api"
	internalrepo "StockScan/internal/repository"
	"StockScan/internal/scheduler"
	"StockScan/internal/service/market"
	"StockScan/internal/service/ratelimit"
	"StockScan/internal/usecase"
	"StockScan/pkg/cache"
	pkgch "StockScan/pkg/clickhouse"
	"StockScan/pkg/config"
	xhttp "StockScan/pkg/http"
	pkgkafka "StockScan/pkg/kafka"
	applogger "StockScan/pkg/logger"
	"StockScan/pkg/metrics"
	"StockScan/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "json", Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout.Std(), cfg.ClickHouse.ReadTimeout.Std(), cfg.ClickHouse.WriteTimeout.Std()),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime.Std()),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideBatchStore creates the ClickHouse batch store.
func ProvideBatchStore(chClient *pkgch.Client) repository.BatchStore {
	return internalrepo.NewClickHouseBatchStore(chClient)
}

// ProvideRedisCache creates the Redis cache client.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	opts := []cache.RedisOption{
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	}
	if cfg.Redis.PoolSize > 0 {
		opts = append(opts, cache.WithRedisPool(cfg.Redis.PoolSize, cfg.Redis.MinIdleConns, cfg.Redis.PoolTimeout.Std()))
	}
	if cfg.Redis.Prefix != "" {
		opts = append(opts, cache.WithRedisPrefix(cfg.Redis.Prefix))
	}
	rc, err := cache.NewRedisCache(opts...)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideCacheService layers an in-memory L1 over Redis.
func ProvideCacheService(rc *cache.RedisCache) cache.Service {
	return cache.NewLayeredCache(rc)
}

// ProvideNotifier creates the configured pub/sub notifier.
func ProvideNotifier(cfg *config.Config, rc *cache.RedisCache) (repository.Notifier, error) {
	switch cfg.Sink.Notifier {
	case "kafka":
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(cfg.Kafka.Brokers),
			pkgkafka.WithCompression(cfg.Kafka.Compression),
			pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
			pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
			pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
			pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.BatchTimeout.Std()),
			pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout.Std(), cfg.Kafka.Producer.ReadTimeout.Std()),
			pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
			pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		return internalrepo.NewKafkaNotifier(producer), nil
	default:
		return internalrepo.NewRedisNotifier(rc.Client()), nil
	}
}

// ProvideRateLimiter creates the upstream rate limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideHTTPClient creates the upstream HTTP client.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	if cfg.Market.Timeout > 0 {
		return xhttp.NewClient(xhttp.WithTimeout(cfg.Market.Timeout.Std()))
	}
	return xhttp.NewClient()
}

// ProvideDataFetcher builds the cached market data fetcher.
func ProvideDataFetcher(
	cfg *config.Config,
	httpClient *xhttp.Client,
	limiter *ratelimit.Limiter,
	cacheSvc cache.Service,
	m repository.Metrics,
	logger *applogger.Logger,
) repository.DataFetcher {
	inner := market.New(cfg.Market.BaseURL, httpClient, limiter, cfg.Market.RatePerSec, cfg.Market.Burst, logger)
	return internalrepo.NewCachedFetcher(inner, cacheSvc, m, logger)
}

// ProvideExecutor creates the retrying task executor.
func ProvideExecutor(cfg *config.Config, m repository.Metrics, logger *applogger.Logger) *usecase.Executor {
	policy := usecase.DefaultRetryPolicy()
	if cfg.Batch.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.Batch.MaxAttempts
	}
	if cfg.Batch.BackoffBase > 0 {
		policy.BaseDelay = cfg.Batch.BackoffBase.Std()
	}
	if cfg.Batch.AttemptTimeout > 0 {
		policy.AttemptTimeout = cfg.Batch.AttemptTimeout.Std()
	}
	return usecase.NewExecutor(policy, m, logger)
}

// ProvideOrchestrator creates the scan orchestrator.
func ProvideOrchestrator(
	fetcher repository.DataFetcher,
	exec *usecase.Executor,
	store repository.BatchStore,
	notifier repository.Notifier,
	m repository.Metrics,
	logger *applogger.Logger,
	cfg *config.Config,
) *usecase.Orchestrator {
	return usecase.NewOrchestrator(fetcher, exec, store, notifier, m, logger, usecase.OrchestratorConfig{
		Workers:        cfg.Batch.Workers,
		Instruments:    cfg.Scan.Instruments,
		Strategies:     cfg.Scan.Strategies,
		BatchChannel:   cfg.Sink.BatchChannel,
		OutcomeChannel: cfg.Sink.OutcomeChannel,
	})
}

// ProvideScheduler creates the cron scheduler.
func ProvideScheduler(orch *usecase.Orchestrator, logger *applogger.Logger, cfg *config.Config) *scheduler.Scheduler {
	spec := cfg.Scheduler.Cron
	if spec == "" {
		spec = "0 */5 * * * *"
	}
	return scheduler.New(orch, logger, spec)
}

// ProvideHandler creates the HTTP API handler.
func ProvideHandler(logger *applogger.Logger, orch *usecase.Orchestrator, store repository.BatchStore) xhttp.Handler {
	return api.NewScanHandler(logger, orch, store)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	sched *scheduler.Scheduler,
	store repository.BatchStore,
	notifier repository.Notifier,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, logger, handler, sched, store, notifier, chClient)
}
