package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/sync"
	"github.com/tdaniel1925/easemail-saas-sub000/pkg/logger"
)

// TriggerCalendarSync runs a full calendar-list reconciliation for the
// tenant and returns the summary.
func (h *Handler) TriggerCalendarSync(c echo.Context) error {
	log := logger.FromContext(c)
	tenantRef := c.Param("tenant")
	log.Info("Calendar sync requested", zap.String("tenant", tenantRef))

	result, err := h.syncService.SyncCalendars(c.Request().Context(), tenantRef)
	if err != nil {
		return h.renderError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"added":     result.Added,
		"updated":   result.Updated,
		"removed":   result.Removed,
		"calendars": result.Calendars,
	})
}

// eventSyncRequest carries the optional ISO date window for an event sync.
type eventSyncRequest struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// TriggerEventSync runs a windowed event reconciliation for one calendar,
// referenced by local id or provider id.
func (h *Handler) TriggerEventSync(c echo.Context) error {
	log := logger.FromContext(c)
	tenantRef := c.Param("tenant")
	calendarRef := c.Param("calendarId")

	var req eventSyncRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request data"})
	}

	var window sync.Window
	if req.StartDate != "" {
		start, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid start_date, expected RFC3339"})
		}
		window.Start = start
	}
	if req.EndDate != "" {
		end, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid end_date, expected RFC3339"})
		}
		window.End = end
	}

	log.Info("Event sync requested",
		zap.String("tenant", tenantRef),
		zap.String("calendar", calendarRef))

	result, err := h.syncService.SyncCalendarEvents(c.Request().Context(), tenantRef, calendarRef, window)
	if err != nil {
		return h.renderError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"added":   result.Added,
		"updated": result.Updated,
		"removed": result.Removed,
		"events":  result.Events,
	})
}

// TriggerInitialSync bootstraps a tenant: calendars first, then events
// for every calendar, logged as one activity record.
func (h *Handler) TriggerInitialSync(c echo.Context) error {
	log := logger.FromContext(c)
	tenantRef := c.Param("tenant")
	log.Info("Initial sync requested", zap.String("tenant", tenantRef))

	result, err := h.syncService.InitialSync(c.Request().Context(), tenantRef)
	if err != nil {
		return h.renderError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":           true,
		"calendars_added":   result.CalendarsAdded,
		"calendars_updated": result.CalendarsUpdated,
		"calendars_removed": result.CalendarsRemoved,
		"events_synced":     result.EventsSynced,
		"calendars":         result.Calendars,
	})
}

// TriggerFolderSync runs a full folder-list reconciliation for the tenant.
func (h *Handler) TriggerFolderSync(c echo.Context) error {
	log := logger.FromContext(c)
	tenantRef := c.Param("tenant")
	log.Info("Folder sync requested", zap.String("tenant", tenantRef))

	result, err := h.syncService.SyncFolders(c.Request().Context(), tenantRef)
	if err != nil {
		return h.renderError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"added":   result.Added,
		"updated": result.Updated,
		"removed": result.Removed,
		"folders": result.Folders,
	})
}
