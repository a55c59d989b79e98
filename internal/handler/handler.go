package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/provider"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/store"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/sync"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/tenant"
	"github.com/tdaniel1925/easemail-saas-sub000/pkg/logger"
	"github.com/tdaniel1925/easemail-saas-sub000/prometheus"
)

// Handler exposes the sync engine over JSON. Dependencies are injected at
// construction; handlers keep no other state.
type Handler struct {
	syncService *sync.Service
	store       *store.Store
}

// New builds the handler set.
func New(syncService *sync.Service, st *store.Store) *Handler {
	return &Handler{syncService: syncService, store: st}
}

// Health reports liveness plus database reachability.
func (h *Handler) Health(c echo.Context) error {
	if err := h.store.HealthCheck(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Metrics serves the Prometheus scrape endpoint.
func (h *Handler) Metrics(c echo.Context) error {
	prometheus.GetPrometheusHandler().ServeHTTP(c.Response(), c.Request())
	return nil
}

// renderError maps engine failures onto the JSON error contract. Every
// failure body is {"success": false, "error": message}.
func (h *Handler) renderError(c echo.Context, err error) error {
	log := logger.FromContext(c)

	var httpErr *provider.HTTPError
	switch {
	case errors.Is(err, tenant.ErrNotConnected):
		log.Warn("Tenant not connected", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": err.Error()})
	case errors.As(err, &httpErr):
		log.Error("Provider call failed", zap.Int("status", httpErr.StatusCode), zap.Error(err))
		return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "error": err.Error()})
	default:
		log.Error("Operation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": err.Error()})
	}
}
