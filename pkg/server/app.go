package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "StockScan/internal/domain/repository"
	"StockScan/internal/scheduler"
	pkgch "StockScan/pkg/clickhouse"
	"StockScan/pkg/config"
	xhttp "StockScan/pkg/http"
	applogger "StockScan/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	logger    *applogger.Logger
	handler   xhttp.Handler
	scheduler *scheduler.Scheduler
	store     drepo.BatchStore
	notifier  drepo.Notifier
	chClient  *pkgch.Client

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	sched *scheduler.Scheduler,
	store drepo.BatchStore,
	notifier drepo.Notifier,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		handler:   handler,
		scheduler: sched,
		store:     store,
		notifier:  notifier,
		chClient:  chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.store.Init(ctx); err != nil {
		return err
	}

	// Aggregated error logs go out on the same notify channel family.
	a.logger.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          "scan.errors",
		Publisher:      notifierPublisher{a.notifier},
	})

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout.Std(), a.cfg.Server.WriteTimeout.Std(), a.cfg.Server.ShutdownTimeout.Std()),
	)

	if a.cfg.Scheduler.Enabled {
		if err := a.scheduler.Start(ctx); err != nil {
			return err
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("scan service started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Strings("instruments", a.cfg.Scan.Instruments),
		applogger.Strings("strategies", a.cfg.Scan.Strategies),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// notifierPublisher adapts the sink notifier to the log collector's publisher.
type notifierPublisher struct {
	n drepo.Notifier
}

func (p notifierPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	_, err := p.n.Publish(ctx, topic, payload)
	return err
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.logger.RemoveCollector()
	if a.cfg.Scheduler.Enabled {
		a.scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout.Std())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.notifier.Close(); err != nil {
		a.logger.Warn("notifier close error", applogger.Error(err))
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("store close error", applogger.Error(err))
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
