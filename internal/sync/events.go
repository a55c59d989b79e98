package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/model"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/provider"
	"github.com/tdaniel1925/easemail-saas-sub000/pkg/logger"
	"github.com/tdaniel1925/easemail-saas-sub000/prometheus"
)

// SyncCalendarEvents pulls the remote events of one calendar inside a
// time window and reconciles the cached events belonging to that calendar.
// The calendar is referenced by local id or provider id. An unspecified
// window defaults to the configured days-back/days-forward range. Cached
// events whose provider counterpart falls outside the requested window
// are removed by the pass: the windowed fetch is the authoritative
// snapshot for the collection.
func (s *Service) SyncCalendarEvents(ctx context.Context, tenantRef, calendarRef string, window Window) (*EventSyncResult, error) {
	t, err := s.tenants.Resolve(ctx, tenantRef)
	if err != nil {
		return nil, err
	}
	account, err := s.tenants.ActiveAccount(ctx, t.ID, "")
	if err != nil {
		return nil, err
	}
	cal, err := s.store.Calendars.Resolve(ctx, t.ID, calendarRef)
	if err != nil {
		return nil, err
	}
	window = s.windowOrDefault(window)

	key := fmt.Sprintf("events:%d:%d:%d:%d", t.ID, cal.ID, window.Start.Unix(), window.End.Unix())
	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.syncCalendarEvents(ctx, t, account, cal, window)
	})
	if err != nil {
		prometheus.RecordSyncOperation("events", "error")
		return nil, err
	}
	prometheus.RecordSyncOperation("events", "ok")
	return value.(*EventSyncResult), nil
}

func (s *Service) syncCalendarEvents(ctx context.Context, t *model.Tenant, account *model.ProviderAccount, cal *model.Calendar, window Window) (*EventSyncResult, error) {
	log := logger.FromGoContext(ctx)

	remote, err := s.fetchRemoteEvents(ctx, account.GrantID, cal.ProviderID, window)
	if err != nil {
		return nil, err
	}

	// Events without a resolvable schedule are dropped before the diff:
	// neither added nor counted as errors.
	schedulable := remote[:0]
	for _, item := range remote {
		if _, _, _, ok := item.When.Resolve(); ok {
			schedulable = append(schedulable, item)
		} else {
			log.Warn("Skipping unschedulable remote event",
				zap.Uint("tenant_id", t.ID),
				zap.String("provider_event_id", item.ID))
		}
	}

	s.tenantLocks.Lock(tenantLockKey(t.ID))
	defer s.tenantLocks.Unlock(tenantLockKey(t.ID))

	cached, err := s.store.Events.ListByCalendar(ctx, t.ID, cal.ID)
	if err != nil {
		return nil, err
	}

	plan := diffByProviderID(schedulable, cached,
		func(e provider.Event) string { return e.ID },
		func(e model.CalendarEvent) string { return e.ProviderID },
	)

	now := s.now()
	for _, item := range plan.ToAdd {
		row := model.CalendarEvent{TenantID: t.ID, CalendarID: cal.ID, ProviderID: item.ID}
		applyEvent(&row, item, now)
		if err := s.store.Events.Create(ctx, &row); err != nil {
			return nil, err
		}
	}
	for _, pair := range plan.ToUpdate {
		row := pair.Cached
		applyEvent(&row, pair.Remote, now)
		if err := s.store.Events.Update(ctx, &row); err != nil {
			return nil, err
		}
	}
	for _, row := range plan.ToRemove {
		if err := s.store.Events.Delete(ctx, t.ID, row.ID); err != nil {
			return nil, err
		}
	}

	converged, err := s.store.Events.ListByCalendar(ctx, t.ID, cal.ID)
	if err != nil {
		return nil, err
	}

	prometheus.RecordReconciledItems("event", len(plan.ToAdd), len(plan.ToUpdate), len(plan.ToRemove))
	log.Info("Event sync complete",
		zap.Uint("tenant_id", t.ID),
		zap.Uint("calendar_id", cal.ID),
		zap.Time("window_start", window.Start),
		zap.Time("window_end", window.End),
		zap.Int("added", len(plan.ToAdd)),
		zap.Int("updated", len(plan.ToUpdate)),
		zap.Int("removed", len(plan.ToRemove)))

	return &EventSyncResult{
		Added:   len(plan.ToAdd),
		Updated: len(plan.ToUpdate),
		Removed: len(plan.ToRemove),
		Events:  converged,
	}, nil
}

// fetchRemoteEvents issues the capped events fetch. By default only the
// first page is read; FollowPagination walks nextCursor to the end for
// high-volume calendars.
func (s *Service) fetchRemoteEvents(ctx context.Context, grantID, calendarProviderID string, window Window) ([]provider.Event, error) {
	query := provider.EventQuery{
		CalendarID: calendarProviderID,
		Start:      window.Start,
		End:        window.End,
		Limit:      s.cfg.EventPageLimit,
	}
	page, err := s.provider.ListEvents(ctx, grantID, query)
	if err != nil {
		return nil, err
	}
	events := page.Data
	if !s.cfg.FollowPagination {
		return events, nil
	}
	for page.NextPageToken != "" {
		query.PageToken = page.NextPageToken
		page, err = s.provider.ListEvents(ctx, grantID, query)
		if err != nil {
			return nil, err
		}
		events = append(events, page.Data...)
	}
	return events, nil
}

// InitialSync bootstraps a tenant: full calendar sync first, then a
// sequential default-window event sync for every resulting calendar.
// Events need authoritative calendar rows to attach to, so the ordering
// is load-bearing. One activity-log entry summarizes the run.
func (s *Service) InitialSync(ctx context.Context, tenantRef string) (*InitialSyncResult, error) {
	t, err := s.tenants.Resolve(ctx, tenantRef)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("initial:%d", t.ID)
	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.initialSync(ctx, tenantRef, t.ID)
	})
	if err != nil {
		prometheus.RecordSyncOperation("initial", "error")
		return nil, err
	}
	prometheus.RecordSyncOperation("initial", "ok")
	return value.(*InitialSyncResult), nil
}

func (s *Service) initialSync(ctx context.Context, tenantRef string, tenantID uint) (*InitialSyncResult, error) {
	calResult, err := s.SyncCalendars(ctx, tenantRef)
	if err != nil {
		return nil, err
	}

	totalEvents := 0
	for _, cal := range calResult.Calendars {
		eventResult, err := s.SyncCalendarEvents(ctx, tenantRef, cal.ProviderID, Window{})
		if err != nil {
			// Remaining calendars are not attempted; reconciliation
			// already applied for earlier ones stays committed.
			return nil, err
		}
		totalEvents += len(eventResult.Events)
	}

	now := s.now()
	if err := s.store.SyncStates.MarkInitialSynced(ctx, tenantID, now); err != nil {
		return nil, err
	}

	detail, _ := json.Marshal(map[string]int{
		"calendars_added":   calResult.Added,
		"calendars_updated": calResult.Updated,
		"calendars_removed": calResult.Removed,
		"events_synced":     totalEvents,
	})
	if err := s.store.Activities.Record(ctx, &model.ActivityLog{
		TenantID: tenantID,
		Action:   "calendar.initial_sync",
		Detail:   string(detail),
	}); err != nil {
		return nil, err
	}

	return &InitialSyncResult{
		CalendarsAdded:   calResult.Added,
		CalendarsUpdated: calResult.Updated,
		CalendarsRemoved: calResult.Removed,
		EventsSynced:     totalEvents,
		Calendars:        calResult.Calendars,
	}, nil
}

// applyEvent overwrites every mapped field from the remote record and
// stamps the sync time. Callers must have verified the schedule resolves.
func applyEvent(row *model.CalendarEvent, remote provider.Event, now time.Time) {
	start, end, allDay, _ := remote.When.Resolve()
	row.ProviderID = remote.ID
	row.Title = remote.Title
	row.Description = remote.Description
	row.Location = remote.Location
	row.StartTime = start
	row.EndTime = end
	row.AllDay = allDay
	row.Status = remote.Status
	row.Busy = remote.Busy
	row.Recurrence = marshalOrEmpty(remote.Recurrence)
	row.Participants = marshalOrEmpty(remote.Participants)
	row.Organizer = marshalOrEmpty(remote.Organizer)
	row.Reminders = marshalOrEmpty(remote.Reminders)
	row.Conferencing = marshalOrEmpty(remote.Conferencing)
	row.MasterEventID = remote.MasterEventID
	row.SyncedAt = now
}

// marshalOrEmpty serializes optional structured fields into their jsonb
// columns, leaving the column empty for absent data.
func marshalOrEmpty(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case []string:
		if len(value) == 0 {
			return ""
		}
	case []provider.Participant:
		if len(value) == 0 {
			return ""
		}
	case *provider.EmailContact:
		if value == nil {
			return ""
		}
	case *provider.Reminders:
		if value == nil {
			return ""
		}
	case *provider.Conferencing:
		if value == nil {
			return ""
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
