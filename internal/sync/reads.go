package sync

import (
	"context"
	"errors"
	"time"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/model"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/store"
)

// The read path serves cached records only and never calls the provider.

const (
	defaultEventLimit    = 100
	defaultUpcomingDays  = 7
	defaultUpcomingLimit = 20
)

// CachedCalendars lists the tenant's cached calendars, primary-first then
// by name.
func (s *Service) CachedCalendars(ctx context.Context, tenantRef string) ([]model.Calendar, error) {
	t, err := s.tenants.Resolve(ctx, tenantRef)
	if err != nil {
		return nil, err
	}
	return s.store.Calendars.ListByTenant(ctx, t.ID)
}

// EventReadFilter narrows a cached-events query. Bounds are inclusive on
// the event start time.
type EventReadFilter struct {
	CalendarRef string
	Start       *time.Time
	End         *time.Time
	Limit       int
}

// CachedEvents lists cached events ordered by start time ascending,
// capped at 100 unless the caller says otherwise.
func (s *Service) CachedEvents(ctx context.Context, tenantRef string, filter EventReadFilter) ([]model.CalendarEvent, error) {
	t, err := s.tenants.Resolve(ctx, tenantRef)
	if err != nil {
		return nil, err
	}

	storeFilter := store.EventFilter{
		Start: filter.Start,
		End:   filter.End,
		Limit: filter.Limit,
	}
	if storeFilter.Limit <= 0 {
		storeFilter.Limit = defaultEventLimit
	}
	if filter.CalendarRef != "" {
		cal, err := s.store.Calendars.Resolve(ctx, t.ID, filter.CalendarRef)
		if err != nil {
			return nil, err
		}
		storeFilter.CalendarID = &cal.ID
	}
	return s.store.Events.Query(ctx, t.ID, storeFilter)
}

// GetEvent resolves one cached event by local id or provider id. An
// absent event is not an error; the result is simply nil.
func (s *Service) GetEvent(ctx context.Context, tenantRef, eventRef string) (*model.CalendarEvent, error) {
	t, err := s.tenants.Resolve(ctx, tenantRef)
	if err != nil {
		return nil, err
	}
	event, err := s.store.Events.Resolve(ctx, t.ID, eventRef)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// UpcomingEvents lists cached events starting between now and now+days.
func (s *Service) UpcomingEvents(ctx context.Context, tenantRef string, days, limit int) ([]model.CalendarEvent, error) {
	if days <= 0 {
		days = defaultUpcomingDays
	}
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	now := s.now()
	end := now.AddDate(0, 0, days)
	return s.CachedEvents(ctx, tenantRef, EventReadFilter{
		Start: &now,
		End:   &end,
		Limit: limit,
	})
}

// CachedFolders lists the tenant's cached folders by name.
func (s *Service) CachedFolders(ctx context.Context, tenantRef string) ([]model.Folder, error) {
	t, err := s.tenants.Resolve(ctx, tenantRef)
	if err != nil {
		return nil, err
	}
	return s.store.Folders.ListByTenant(ctx, t.ID)
}
