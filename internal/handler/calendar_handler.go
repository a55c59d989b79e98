package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tdaniel1925/easemail-saas-sub000/pkg/logger"
)

// ListCalendars serves the tenant's cached calendars. Reads never touch
// the provider.
func (h *Handler) ListCalendars(c echo.Context) error {
	log := logger.FromContext(c)
	tenantRef := c.Param("tenant")

	calendars, err := h.syncService.CachedCalendars(c.Request().Context(), tenantRef)
	if err != nil {
		return h.renderError(c, err)
	}

	log.Info("Cached calendars retrieved",
		zap.String("tenant", tenantRef),
		zap.Int("count", len(calendars)))
	return c.JSON(http.StatusOK, calendars)
}

// ListFolders serves the tenant's cached folders.
func (h *Handler) ListFolders(c echo.Context) error {
	log := logger.FromContext(c)
	tenantRef := c.Param("tenant")

	folders, err := h.syncService.CachedFolders(c.Request().Context(), tenantRef)
	if err != nil {
		return h.renderError(c, err)
	}

	log.Info("Cached folders retrieved",
		zap.String("tenant", tenantRef),
		zap.Int("count", len(folders)))
	return c.JSON(http.StatusOK, folders)
}
