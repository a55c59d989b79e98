package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/model"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("record not found")

// TenantStore defines persistence operations for tenants and their grants.
type TenantStore interface {
	GetByID(ctx context.Context, id uint) (*model.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*model.Tenant, error)
	Create(ctx context.Context, tenant *model.Tenant) error
	ActiveAccounts(ctx context.Context, tenantID uint) ([]model.ProviderAccount, error)
}

// CalendarStore handles cached calendar rows. ListByTenant returns rows
// primary-first, then by name.
type CalendarStore interface {
	ListByTenant(ctx context.Context, tenantID uint) ([]model.Calendar, error)
	// Resolve accepts either the local numeric id or the provider's id.
	Resolve(ctx context.Context, tenantID uint, ref string) (*model.Calendar, error)
	Create(ctx context.Context, cal *model.Calendar) error
	Update(ctx context.Context, cal *model.Calendar) error
	// Delete removes the calendar and every event referencing it.
	Delete(ctx context.Context, tenantID, id uint) error
}

// EventFilter bounds a cached-events query. Bounds are inclusive.
type EventFilter struct {
	CalendarID *uint
	Start      *time.Time
	End        *time.Time
	Limit      int
}

// EventStore handles cached event rows. Listings are ordered by start time
// ascending.
type EventStore interface {
	ListByCalendar(ctx context.Context, tenantID, calendarID uint) ([]model.CalendarEvent, error)
	Query(ctx context.Context, tenantID uint, filter EventFilter) ([]model.CalendarEvent, error)
	// Resolve accepts either the local numeric id or the provider's id.
	Resolve(ctx context.Context, tenantID uint, ref string) (*model.CalendarEvent, error)
	Create(ctx context.Context, event *model.CalendarEvent) error
	Update(ctx context.Context, event *model.CalendarEvent) error
	Delete(ctx context.Context, tenantID, id uint) error
}

// FolderStore handles cached folder rows, ordered by name.
type FolderStore interface {
	ListByTenant(ctx context.Context, tenantID uint) ([]model.Folder, error)
	Resolve(ctx context.Context, tenantID uint, ref string) (*model.Folder, error)
	Create(ctx context.Context, folder *model.Folder) error
	Update(ctx context.Context, folder *model.Folder) error
	Delete(ctx context.Context, tenantID, id uint) error
}

// SyncStateStore tracks the per-tenant baseline-sync marker.
type SyncStateStore interface {
	Get(ctx context.Context, tenantID uint) (*model.SyncState, error)
	MarkInitialSynced(ctx context.Context, tenantID uint, at time.Time) error
}

// ActivityStore records completed operations.
type ActivityStore interface {
	Record(ctx context.Context, entry *model.ActivityLog) error
}

// Store aggregates the repositories backed by one shared database handle.
// It is constructed once at process start and passed by reference.
type Store struct {
	db *gorm.DB

	Tenants    TenantStore
	Calendars  CalendarStore
	Events     EventStore
	Folders    FolderStore
	SyncStates SyncStateStore
	Activities ActivityStore
}

// New wires concrete repository implementations with the shared handle.
func New(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Tenants:    &tenantStore{db: db},
		Calendars:  &calendarStore{db: db},
		Events:     &eventStore{db: db},
		Folders:    &folderStore{db: db},
		SyncStates: &syncStateStore{db: db},
		Activities: &activityStore{db: db},
	}
}

// HealthCheck verifies that the underlying database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
