package sync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/model"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/provider"
	"github.com/tdaniel1925/easemail-saas-sub000/pkg/logger"
	"github.com/tdaniel1925/easemail-saas-sub000/prometheus"
)

// SyncCalendars pulls the full remote calendar list for the tenant's
// active grant and reconciles the cached calendar collection against it.
// Concurrent calls for the same tenant coalesce into one pass.
func (s *Service) SyncCalendars(ctx context.Context, tenantRef string) (*CalendarSyncResult, error) {
	t, err := s.tenants.Resolve(ctx, tenantRef)
	if err != nil {
		return nil, err
	}
	account, err := s.tenants.ActiveAccount(ctx, t.ID, "")
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("calendars:%d", t.ID)
	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.syncCalendars(ctx, t, account)
	})
	if err != nil {
		prometheus.RecordSyncOperation("calendars", "error")
		return nil, err
	}
	prometheus.RecordSyncOperation("calendars", "ok")
	return value.(*CalendarSyncResult), nil
}

func (s *Service) syncCalendars(ctx context.Context, t *model.Tenant, account *model.ProviderAccount) (*CalendarSyncResult, error) {
	log := logger.FromGoContext(ctx)

	remote, err := s.provider.ListCalendars(ctx, account.GrantID)
	if err != nil {
		return nil, err
	}

	s.tenantLocks.Lock(tenantLockKey(t.ID))
	defer s.tenantLocks.Unlock(tenantLockKey(t.ID))

	cached, err := s.store.Calendars.ListByTenant(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	plan := diffByProviderID(remote, cached,
		func(c provider.Calendar) string { return c.ID },
		func(c model.Calendar) string { return c.ProviderID },
	)

	now := s.now()
	for _, item := range plan.ToAdd {
		row := model.Calendar{TenantID: t.ID, ProviderID: item.ID}
		applyCalendar(&row, item, now)
		if err := s.store.Calendars.Create(ctx, &row); err != nil {
			return nil, err
		}
	}
	for _, pair := range plan.ToUpdate {
		row := pair.Cached
		applyCalendar(&row, pair.Remote, now)
		if err := s.store.Calendars.Update(ctx, &row); err != nil {
			return nil, err
		}
	}
	for _, row := range plan.ToRemove {
		if err := s.store.Calendars.Delete(ctx, t.ID, row.ID); err != nil {
			return nil, err
		}
	}

	converged, err := s.store.Calendars.ListByTenant(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	prometheus.RecordReconciledItems("calendar", len(plan.ToAdd), len(plan.ToUpdate), len(plan.ToRemove))
	log.Info("Calendar sync complete",
		zap.Uint("tenant_id", t.ID),
		zap.Int("added", len(plan.ToAdd)),
		zap.Int("updated", len(plan.ToUpdate)),
		zap.Int("removed", len(plan.ToRemove)))

	return &CalendarSyncResult{
		Added:     len(plan.ToAdd),
		Updated:   len(plan.ToUpdate),
		Removed:   len(plan.ToRemove),
		Calendars: converged,
	}, nil
}

// applyCalendar overwrites every mapped field from the remote record and
// stamps the sync time. A reconciliation pass is authoritative on a match;
// nothing is diffed field-by-field.
func applyCalendar(row *model.Calendar, remote provider.Calendar, now time.Time) {
	row.ProviderID = remote.ID
	row.Name = remote.Name
	row.Description = remote.Description
	row.Location = remote.Location
	row.Timezone = remote.Timezone
	row.IsPrimary = remote.IsPrimary
	row.IsReadOnly = remote.ReadOnly
	row.Color = remote.HexColor
	row.SyncedAt = now
}
