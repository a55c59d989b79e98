package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/sync"
	"github.com/tdaniel1925/easemail-saas-sub000/pkg/logger"
)

// ListEvents serves cached events with optional calendar/date-window
// filters, ordered by start time.
func (h *Handler) ListEvents(c echo.Context) error {
	log := logger.FromContext(c)
	tenantRef := c.Param("tenant")

	filter := sync.EventReadFilter{
		CalendarRef: c.QueryParam("calendar_id"),
	}
	if raw := c.QueryParam("start_date"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid start_date, expected RFC3339"})
		}
		filter.Start = &start
	}
	if raw := c.QueryParam("end_date"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid end_date, expected RFC3339"})
		}
		filter.End = &end
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid limit"})
		}
		filter.Limit = limit
	}

	events, err := h.syncService.CachedEvents(c.Request().Context(), tenantRef, filter)
	if err != nil {
		return h.renderError(c, err)
	}

	log.Info("Cached events retrieved",
		zap.String("tenant", tenantRef),
		zap.Int("count", len(events)))
	return c.JSON(http.StatusOK, events)
}

// ListUpcomingEvents serves cached events starting within the next N days.
func (h *Handler) ListUpcomingEvents(c echo.Context) error {
	tenantRef := c.Param("tenant")

	days := 0
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid days"})
		}
		days = parsed
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid limit"})
		}
		limit = parsed
	}

	events, err := h.syncService.UpcomingEvents(c.Request().Context(), tenantRef, days, limit)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// GetEvent serves one cached event by local id or provider id. A missing
// event responds with a null body rather than an error payload.
func (h *Handler) GetEvent(c echo.Context) error {
	tenantRef := c.Param("tenant")
	eventRef := c.Param("id")

	event, err := h.syncService.GetEvent(c.Request().Context(), tenantRef, eventRef)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// CreateEvent dual-writes a new event through the provider, then mirrors
// it into the cache.
func (h *Handler) CreateEvent(c echo.Context) error {
	log := logger.FromContext(c)
	tenantRef := c.Param("tenant")

	var draft sync.EventDraft
	if err := c.Bind(&draft); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request data"})
	}
	if draft.CalendarRef == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "calendar_id is required"})
	}

	event, err := h.syncService.CreateEvent(c.Request().Context(), tenantRef, draft)
	if err != nil {
		return h.renderError(c, err)
	}

	log.Info("Event created",
		zap.String("tenant", tenantRef),
		zap.Uint("event_id", event.ID),
		zap.String("provider_id", event.ProviderID))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "event": event})
}

// UpdateEvent dual-writes changes to an existing event.
func (h *Handler) UpdateEvent(c echo.Context) error {
	log := logger.FromContext(c)
	tenantRef := c.Param("tenant")
	eventRef := c.Param("id")

	var draft sync.EventDraft
	if err := c.Bind(&draft); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request data"})
	}

	event, err := h.syncService.UpdateEvent(c.Request().Context(), tenantRef, eventRef, draft)
	if err != nil {
		return h.renderError(c, err)
	}

	log.Info("Event updated",
		zap.String("tenant", tenantRef),
		zap.String("event", eventRef))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "event": event})
}

// DeleteEvent dual-deletes an event: provider first, then the cache.
func (h *Handler) DeleteEvent(c echo.Context) error {
	log := logger.FromContext(c)
	tenantRef := c.Param("tenant")
	eventRef := c.Param("id")

	if err := h.syncService.DeleteEvent(c.Request().Context(), tenantRef, eventRef); err != nil {
		return h.renderError(c, err)
	}

	log.Info("Event deleted",
		zap.String("tenant", tenantRef),
		zap.String("event", eventRef))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
