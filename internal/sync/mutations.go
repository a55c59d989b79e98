package sync

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/model"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/provider"
	"github.com/tdaniel1925/easemail-saas-sub000/pkg/logger"
	"github.com/tdaniel1925/easemail-saas-sub000/prometheus"
)

// EventDraft is the caller-supplied shape of an event mutation. The
// calendar is referenced by local id or provider id.
type EventDraft struct {
	CalendarRef  string                 `json:"calendar_id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	Location     string                 `json:"location,omitempty"`
	Status       string                 `json:"status,omitempty"`
	Busy         bool                   `json:"busy,omitempty"`
	When         provider.EventWhen     `json:"when"`
	Participants []provider.Participant `json:"participants,omitempty"`
	Recurrence   []string               `json:"recurrence,omitempty"`
	Reminders    *provider.Reminders    `json:"reminders,omitempty"`
	Conferencing *provider.Conferencing `json:"conferencing,omitempty"`
}

func (d EventDraft) toInput(calendarProviderID string) provider.EventInput {
	return provider.EventInput{
		CalendarID:   calendarProviderID,
		Title:        d.Title,
		Description:  d.Description,
		Location:     d.Location,
		Status:       d.Status,
		Busy:         d.Busy,
		When:         d.When,
		Participants: d.Participants,
		Recurrence:   d.Recurrence,
		Reminders:    d.Reminders,
		Conferencing: d.Conferencing,
	}
}

// CreateEvent dual-writes a new event: the provider call comes first, and
// only on success is the cache row inserted. A provider failure leaves the
// cache untouched. A cache failure after a provider success is surfaced
// and left for the next sync to pick up as an added item.
func (s *Service) CreateEvent(ctx context.Context, tenantRef string, draft EventDraft) (*model.CalendarEvent, error) {
	log := logger.FromGoContext(ctx)

	t, err := s.tenants.Resolve(ctx, tenantRef)
	if err != nil {
		return nil, err
	}
	account, err := s.tenants.ActiveAccount(ctx, t.ID, "")
	if err != nil {
		return nil, err
	}
	cal, err := s.store.Calendars.Resolve(ctx, t.ID, draft.CalendarRef)
	if err != nil {
		return nil, err
	}

	s.tenantLocks.Lock(tenantLockKey(t.ID))
	defer s.tenantLocks.Unlock(tenantLockKey(t.ID))

	created, err := s.provider.CreateEvent(ctx, account.GrantID, draft.toInput(cal.ProviderID))
	if err != nil {
		prometheus.RecordMutation("event", "create", "provider_error")
		return nil, err
	}

	row := model.CalendarEvent{TenantID: t.ID, CalendarID: cal.ID, ProviderID: created.ID}
	applyEvent(&row, *created, s.now())
	if err := s.store.Events.Create(ctx, &row); err != nil {
		// Remote write already happened; the cache diverges until the
		// next reconciliation picks the event up as an add.
		prometheus.RecordMutation("event", "create", "cache_error")
		log.Warn("Cache write failed after provider create",
			zap.Uint("tenant_id", t.ID),
			zap.String("provider_event_id", created.ID),
			zap.Error(err))
		return nil, err
	}

	prometheus.RecordMutation("event", "create", "ok")
	return &row, nil
}

// UpdateEvent dual-writes changes to an existing cached event, referenced
// by local id or provider id.
func (s *Service) UpdateEvent(ctx context.Context, tenantRef, eventRef string, draft EventDraft) (*model.CalendarEvent, error) {
	log := logger.FromGoContext(ctx)

	t, err := s.tenants.Resolve(ctx, tenantRef)
	if err != nil {
		return nil, err
	}
	account, err := s.tenants.ActiveAccount(ctx, t.ID, "")
	if err != nil {
		return nil, err
	}
	event, err := s.store.Events.Resolve(ctx, t.ID, eventRef)
	if err != nil {
		return nil, err
	}
	cal, err := s.store.Calendars.Resolve(ctx, t.ID, strconv.FormatUint(uint64(event.CalendarID), 10))
	if err != nil {
		return nil, err
	}

	s.tenantLocks.Lock(tenantLockKey(t.ID))
	defer s.tenantLocks.Unlock(tenantLockKey(t.ID))

	updated, err := s.provider.UpdateEvent(ctx, account.GrantID, event.ProviderID, draft.toInput(cal.ProviderID))
	if err != nil {
		prometheus.RecordMutation("event", "update", "provider_error")
		return nil, err
	}

	applyEvent(event, *updated, s.now())
	if err := s.store.Events.Update(ctx, event); err != nil {
		prometheus.RecordMutation("event", "update", "cache_error")
		log.Warn("Cache write failed after provider update",
			zap.Uint("tenant_id", t.ID),
			zap.String("provider_event_id", event.ProviderID),
			zap.Error(err))
		return nil, err
	}

	prometheus.RecordMutation("event", "update", "ok")
	return event, nil
}

// DeleteEvent dual-deletes an event: remote first, then the cached row.
func (s *Service) DeleteEvent(ctx context.Context, tenantRef, eventRef string) error {
	log := logger.FromGoContext(ctx)

	t, err := s.tenants.Resolve(ctx, tenantRef)
	if err != nil {
		return err
	}
	account, err := s.tenants.ActiveAccount(ctx, t.ID, "")
	if err != nil {
		return err
	}
	event, err := s.store.Events.Resolve(ctx, t.ID, eventRef)
	if err != nil {
		return err
	}
	cal, err := s.store.Calendars.Resolve(ctx, t.ID, strconv.FormatUint(uint64(event.CalendarID), 10))
	if err != nil {
		return err
	}

	s.tenantLocks.Lock(tenantLockKey(t.ID))
	defer s.tenantLocks.Unlock(tenantLockKey(t.ID))

	if err := s.provider.DeleteEvent(ctx, account.GrantID, event.ProviderID, cal.ProviderID); err != nil {
		prometheus.RecordMutation("event", "delete", "provider_error")
		return err
	}
	if err := s.store.Events.Delete(ctx, t.ID, event.ID); err != nil {
		prometheus.RecordMutation("event", "delete", "cache_error")
		log.Warn("Cache delete failed after provider delete",
			zap.Uint("tenant_id", t.ID),
			zap.String("provider_event_id", event.ProviderID),
			zap.Error(err))
		return err
	}

	prometheus.RecordMutation("event", "delete", "ok")
	return nil
}

// FolderDraft is the caller-supplied shape of a folder mutation. The
// parent is addressed by the provider's folder id.
type FolderDraft struct {
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}

// CreateFolder dual-writes a new folder.
func (s *Service) CreateFolder(ctx context.Context, tenantRef string, draft FolderDraft) (*model.Folder, error) {
	t, err := s.tenants.Resolve(ctx, tenantRef)
	if err != nil {
		return nil, err
	}
	account, err := s.tenants.ActiveAccount(ctx, t.ID, "")
	if err != nil {
		return nil, err
	}

	s.tenantLocks.Lock(tenantLockKey(t.ID))
	defer s.tenantLocks.Unlock(tenantLockKey(t.ID))

	created, err := s.provider.CreateFolder(ctx, account.GrantID, provider.FolderInput{
		Name:     draft.Name,
		ParentID: draft.ParentID,
	})
	if err != nil {
		prometheus.RecordMutation("folder", "create", "provider_error")
		return nil, err
	}

	row := model.Folder{TenantID: t.ID, ProviderID: created.ID}
	applyFolder(&row, *created, s.now())
	if err := s.store.Folders.Create(ctx, &row); err != nil {
		prometheus.RecordMutation("folder", "create", "cache_error")
		return nil, err
	}

	prometheus.RecordMutation("folder", "create", "ok")
	return &row, nil
}

// UpdateFolder dual-writes changes to an existing cached folder.
func (s *Service) UpdateFolder(ctx context.Context, tenantRef, folderRef string, draft FolderDraft) (*model.Folder, error) {
	t, err := s.tenants.Resolve(ctx, tenantRef)
	if err != nil {
		return nil, err
	}
	account, err := s.tenants.ActiveAccount(ctx, t.ID, "")
	if err != nil {
		return nil, err
	}
	folder, err := s.store.Folders.Resolve(ctx, t.ID, folderRef)
	if err != nil {
		return nil, err
	}

	s.tenantLocks.Lock(tenantLockKey(t.ID))
	defer s.tenantLocks.Unlock(tenantLockKey(t.ID))

	updated, err := s.provider.UpdateFolder(ctx, account.GrantID, folder.ProviderID, provider.FolderInput{
		Name:     draft.Name,
		ParentID: draft.ParentID,
	})
	if err != nil {
		prometheus.RecordMutation("folder", "update", "provider_error")
		return nil, err
	}

	applyFolder(folder, *updated, s.now())
	if err := s.store.Folders.Update(ctx, folder); err != nil {
		prometheus.RecordMutation("folder", "update", "cache_error")
		return nil, err
	}

	prometheus.RecordMutation("folder", "update", "ok")
	return folder, nil
}

// DeleteFolder dual-deletes a folder: remote first, then the cached row.
func (s *Service) DeleteFolder(ctx context.Context, tenantRef, folderRef string) error {
	t, err := s.tenants.Resolve(ctx, tenantRef)
	if err != nil {
		return err
	}
	account, err := s.tenants.ActiveAccount(ctx, t.ID, "")
	if err != nil {
		return err
	}
	folder, err := s.store.Folders.Resolve(ctx, t.ID, folderRef)
	if err != nil {
		return err
	}

	s.tenantLocks.Lock(tenantLockKey(t.ID))
	defer s.tenantLocks.Unlock(tenantLockKey(t.ID))

	if err := s.provider.DeleteFolder(ctx, account.GrantID, folder.ProviderID); err != nil {
		prometheus.RecordMutation("folder", "delete", "provider_error")
		return err
	}
	if err := s.store.Folders.Delete(ctx, t.ID, folder.ID); err != nil {
		prometheus.RecordMutation("folder", "delete", "cache_error")
		return err
	}

	prometheus.RecordMutation("folder", "delete", "ok")
	return nil
}
