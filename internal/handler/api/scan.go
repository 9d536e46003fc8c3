package api

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"StockScan/internal/domain/models"
	drepo "StockScan/internal/domain/repository"
	"StockScan/internal/usecase"
	xhttp "StockScan/pkg/http"
	xlogger "StockScan/pkg/logger"
)

// ScanHandler exposes on-demand scans and batch history over HTTP.
type ScanHandler struct {
	logger       *xlogger.Logger
	orchestrator *usecase.Orchestrator
	store        drepo.BatchStore
}

func NewScanHandler(logger *xlogger.Logger, orchestrator *usecase.Orchestrator, store drepo.BatchStore) *ScanHandler {
	return &ScanHandler{logger: logger, orchestrator: orchestrator, store: store}
}

func (h *ScanHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/scan", h.Scan)
	g.GET("/batches", h.Batches)
	g.GET("/health", h.Health)
}

// Scan triggers one scan cycle. Instruments and strategies default to the
// configured scan lists when omitted.
func (h *ScanHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.orchestrator.RunCycle(c.Request().Context(), req.Instruments, req.Strategies)
	if err != nil {
		h.logger.Error("scan cycle error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Batches lists the most recent persisted batch summaries.
func (h *ScanHandler) Batches(c echo.Context) error {
	req := &models.BatchesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	batches, err := h.store.LatestBatches(c.Request().Context(), req.Limit)
	if err != nil {
		h.logger.Error("list batches error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, batches)
}

// Health reports sink connectivity.
func (h *ScanHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := "ok"
	if err := h.store.Health(ctx); err != nil {
		status = "degraded"
		h.logger.Warn("store health check failed", xlogger.Error(err))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": status})
}
