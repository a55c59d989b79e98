package sync

import (
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/model"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/provider"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/store"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/tenant"
	"github.com/tdaniel1925/easemail-saas-sub000/pkg/config"
)

// Service drives reconciliation between the provider and the cache and
// owns the dual-write mutation and cache-read paths. All dependencies are
// injected; the service holds no global state beyond its concurrency
// guards.
type Service struct {
	store    *store.Store
	provider provider.Client
	tenants  *tenant.Resolver
	cfg      config.SyncConfig

	// group coalesces concurrent identical sync calls; tenantLocks
	// serializes apply phases and mutations sharing a tenant.
	group       singleflight.Group
	tenantLocks *keyedMutex

	// now is swappable for tests.
	now func() time.Time
}

// NewService wires the sync engine.
func NewService(st *store.Store, client provider.Client, tenants *tenant.Resolver, cfg config.SyncConfig) *Service {
	if cfg.EventPageLimit <= 0 {
		cfg.EventPageLimit = 200
	}
	if cfg.DefaultWindowDaysBack <= 0 {
		cfg.DefaultWindowDaysBack = 30
	}
	if cfg.DefaultWindowDaysForward <= 0 {
		cfg.DefaultWindowDaysForward = 90
	}
	return &Service{
		store:       st,
		provider:    client,
		tenants:     tenants,
		cfg:         cfg,
		tenantLocks: newKeyedMutex(),
		now:         time.Now,
	}
}

// Window bounds an event sync. Zero values take the configured defaults.
type Window struct {
	Start time.Time
	End   time.Time
}

func (s *Service) windowOrDefault(w Window) Window {
	now := s.now()
	if w.Start.IsZero() {
		w.Start = now.AddDate(0, 0, -s.cfg.DefaultWindowDaysBack)
	}
	if w.End.IsZero() {
		w.End = now.AddDate(0, 0, s.cfg.DefaultWindowDaysForward)
	}
	return w
}

// CalendarSyncResult summarizes one calendar-list reconciliation.
type CalendarSyncResult struct {
	Added     int              `json:"added"`
	Updated   int              `json:"updated"`
	Removed   int              `json:"removed"`
	Calendars []model.Calendar `json:"calendars"`
}

// EventSyncResult summarizes one windowed event reconciliation.
type EventSyncResult struct {
	Added   int                   `json:"added"`
	Updated int                   `json:"updated"`
	Removed int                   `json:"removed"`
	Events  []model.CalendarEvent `json:"events"`
}

// FolderSyncResult summarizes one folder-list reconciliation.
type FolderSyncResult struct {
	Added   int            `json:"added"`
	Updated int            `json:"updated"`
	Removed int            `json:"removed"`
	Folders []model.Folder `json:"folders"`
}

// InitialSyncResult summarizes a baseline sync: the calendar pass plus the
// total events reconciled across all calendars.
type InitialSyncResult struct {
	CalendarsAdded   int              `json:"calendars_added"`
	CalendarsUpdated int              `json:"calendars_updated"`
	CalendarsRemoved int              `json:"calendars_removed"`
	EventsSynced     int              `json:"events_synced"`
	Calendars        []model.Calendar `json:"calendars"`
}

func tenantLockKey(tenantID uint) string {
	return fmt.Sprintf("tenant:%d", tenantID)
}
