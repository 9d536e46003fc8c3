//go:build wireinject
// +build wireinject

package di

import (
	"StockScan/pkg/config"
	"StockScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideRedisCache,
		ProvideCacheService,

		// Repositories
		ProvideBatchStore,
		ProvideNotifier,

		// Market data
		ProvideRateLimiter,
		ProvideHTTPClient,
		ProvideDataFetcher,

		// Use cases
		ProvideExecutor,
		ProvideOrchestrator,

		// Surfaces
		ProvideScheduler,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
