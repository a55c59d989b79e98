package sync

import (
	"context"
	"os"
	"sort"
	"strconv"
	stdsync "sync"
	"testing"
	"time"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/model"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/provider"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/store"
	"github.com/tdaniel1925/easemail-saas-sub000/internal/tenant"
	"github.com/tdaniel1925/easemail-saas-sub000/pkg/config"
	"github.com/tdaniel1925/easemail-saas-sub000/prometheus"
)

func TestMain(m *testing.M) {
	prometheus.InitMetrics(&config.Config{Metrics: config.MetricsConfig{Prefix: "sync_engine_test"}})
	os.Exit(m.Run())
}

// fixedNow keeps windows deterministic across the suite.
var fixedNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeTenants struct {
	mu       stdsync.Mutex
	rows     []*model.Tenant
	accounts map[uint][]model.ProviderAccount
	nextID   uint
}

func (f *fakeTenants) GetByID(_ context.Context, id uint) (*model.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.rows {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeTenants) GetBySlug(_ context.Context, slug string) (*model.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.rows {
		if t.Slug == slug {
			copied := *t
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeTenants) Create(_ context.Context, t *model.Tenant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t.ID = f.nextID
	copied := *t
	f.rows = append(f.rows, &copied)
	return nil
}

func (f *fakeTenants) ActiveAccounts(_ context.Context, tenantID uint) ([]model.ProviderAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	accounts := append([]model.ProviderAccount(nil), f.accounts[tenantID]...)
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].IsPrimary && !accounts[j].IsPrimary
	})
	return accounts, nil
}

type fakeCalendars struct {
	mu     stdsync.Mutex
	rows   []model.Calendar
	events *fakeEvents
	nextID uint
}

func (f *fakeCalendars) ListByTenant(_ context.Context, tenantID uint) ([]model.Calendar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Calendar
	for _, row := range f.rows {
		if row.TenantID == tenantID {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (f *fakeCalendars) Resolve(_ context.Context, tenantID uint, ref string) (*model.Calendar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, numeric := parseRef(ref)
	for _, row := range f.rows {
		if row.TenantID != tenantID {
			continue
		}
		if row.ProviderID == ref || (numeric && row.ID == id) {
			copied := row
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCalendars) Create(_ context.Context, cal *model.Calendar) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cal.ID = f.nextID
	f.rows = append(f.rows, *cal)
	return nil
}

func (f *fakeCalendars) Update(_ context.Context, cal *model.Calendar) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == cal.ID {
			f.rows[i] = *cal
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeCalendars) Delete(ctx context.Context, tenantID, id uint) error {
	f.mu.Lock()
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.TenantID == tenantID && row.ID == id {
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	f.mu.Unlock()
	return f.events.deleteByCalendar(tenantID, id)
}

type fakeEvents struct {
	mu         stdsync.Mutex
	rows       []model.CalendarEvent
	nextID     uint
	createErr  error
	createCall int
}

func (f *fakeEvents) ListByCalendar(_ context.Context, tenantID, calendarID uint) ([]model.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.CalendarEvent
	for _, row := range f.rows {
		if row.TenantID == tenantID && row.CalendarID == calendarID {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (f *fakeEvents) Query(_ context.Context, tenantID uint, filter store.EventFilter) ([]model.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.CalendarEvent
	for _, row := range f.rows {
		if row.TenantID != tenantID {
			continue
		}
		if filter.CalendarID != nil && row.CalendarID != *filter.CalendarID {
			continue
		}
		if filter.Start != nil && row.StartTime.Before(*filter.Start) {
			continue
		}
		if filter.End != nil && row.StartTime.After(*filter.End) {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeEvents) Resolve(_ context.Context, tenantID uint, ref string) (*model.CalendarEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, numeric := parseRef(ref)
	for _, row := range f.rows {
		if row.TenantID != tenantID {
			continue
		}
		if row.ProviderID == ref || (numeric && row.ID == id) {
			copied := row
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeEvents) Create(_ context.Context, event *model.CalendarEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCall++
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	event.ID = f.nextID
	f.rows = append(f.rows, *event)
	return nil
}

func (f *fakeEvents) Update(_ context.Context, event *model.CalendarEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == event.ID {
			f.rows[i] = *event
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeEvents) Delete(_ context.Context, tenantID, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.TenantID == tenantID && row.ID == id {
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	return nil
}

func (f *fakeEvents) deleteByCalendar(tenantID, calendarID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.TenantID == tenantID && row.CalendarID == calendarID {
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	return nil
}

type fakeFolders struct {
	mu     stdsync.Mutex
	rows   []model.Folder
	nextID uint
}

func (f *fakeFolders) ListByTenant(_ context.Context, tenantID uint) ([]model.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Folder
	for _, row := range f.rows {
		if row.TenantID == tenantID {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeFolders) Resolve(_ context.Context, tenantID uint, ref string) (*model.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, numeric := parseRef(ref)
	for _, row := range f.rows {
		if row.TenantID != tenantID {
			continue
		}
		if row.ProviderID == ref || (numeric && row.ID == id) {
			copied := row
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeFolders) Create(_ context.Context, folder *model.Folder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	folder.ID = f.nextID
	f.rows = append(f.rows, *folder)
	return nil
}

func (f *fakeFolders) Update(_ context.Context, folder *model.Folder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == folder.ID {
			f.rows[i] = *folder
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeFolders) Delete(_ context.Context, tenantID, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.TenantID == tenantID && row.ID == id {
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	return nil
}

type fakeSyncStates struct {
	mu     stdsync.Mutex
	marked map[uint]time.Time
}

func (f *fakeSyncStates) Get(_ context.Context, tenantID uint) (*model.SyncState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	at, ok := f.marked[tenantID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &model.SyncState{TenantID: tenantID, InitialSyncedAt: at}, nil
}

func (f *fakeSyncStates) MarkInitialSynced(_ context.Context, tenantID uint, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.marked == nil {
		f.marked = map[uint]time.Time{}
	}
	f.marked[tenantID] = at
	return nil
}

type fakeActivities struct {
	mu      stdsync.Mutex
	entries []model.ActivityLog
}

func (f *fakeActivities) Record(_ context.Context, entry *model.ActivityLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func parseRef(ref string) (uint, bool) {
	id, err := strconv.ParseUint(ref, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// fakeProvider is an in-memory provider.Client with per-method error
// injection and call recording.
type fakeProvider struct {
	mu stdsync.Mutex

	calendars         []provider.Calendar
	calendarsErr      error
	listCalendarCalls int
	// calendarsEntered/calendarsGate let a test hold a ListCalendars call
	// open while concurrent callers pile up behind it.
	calendarsEntered chan struct{}
	calendarsGate    chan struct{}

	pages            map[string]provider.EventPage
	eventsErr        error
	listEventQueries []provider.EventQuery

	folders    []provider.Folder
	foldersErr error

	createEventErr error
	createdEvents  []provider.EventInput
	updateEventErr error
	updatedEvents  map[string]provider.EventInput
	deleteEventErr error
	deletedEvents  []string

	createFolderErr error
	createdFolders  []provider.FolderInput
	updateFolderErr error
	deleteFolderErr error
	deletedFolders  []string
}

func (f *fakeProvider) ListCalendars(_ context.Context, _ string) ([]provider.Calendar, error) {
	f.mu.Lock()
	f.listCalendarCalls++
	calendars := append([]provider.Calendar(nil), f.calendars...)
	err := f.calendarsErr
	entered := f.calendarsEntered
	gate := f.calendarsGate
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return calendars, nil
}

func (f *fakeProvider) ListEvents(_ context.Context, _ string, q provider.EventQuery) (provider.EventPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listEventQueries = append(f.listEventQueries, q)
	if f.eventsErr != nil {
		return provider.EventPage{}, f.eventsErr
	}
	return f.pages[q.PageToken], nil
}

func (f *fakeProvider) CreateEvent(_ context.Context, _ string, input provider.EventInput) (*provider.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createEventErr != nil {
		return nil, f.createEventErr
	}
	f.createdEvents = append(f.createdEvents, input)
	created := eventFromInput("remote-ev-"+strconv.Itoa(len(f.createdEvents)), input)
	return &created, nil
}

func (f *fakeProvider) UpdateEvent(_ context.Context, _ string, eventID string, input provider.EventInput) (*provider.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateEventErr != nil {
		return nil, f.updateEventErr
	}
	if f.updatedEvents == nil {
		f.updatedEvents = map[string]provider.EventInput{}
	}
	f.updatedEvents[eventID] = input
	updated := eventFromInput(eventID, input)
	return &updated, nil
}

func (f *fakeProvider) DeleteEvent(_ context.Context, _ string, eventID, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteEventErr != nil {
		return f.deleteEventErr
	}
	f.deletedEvents = append(f.deletedEvents, eventID)
	return nil
}

func (f *fakeProvider) ListFolders(_ context.Context, _ string) ([]provider.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.foldersErr != nil {
		return nil, f.foldersErr
	}
	return append([]provider.Folder(nil), f.folders...), nil
}

func (f *fakeProvider) CreateFolder(_ context.Context, _ string, input provider.FolderInput) (*provider.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createFolderErr != nil {
		return nil, f.createFolderErr
	}
	f.createdFolders = append(f.createdFolders, input)
	return &provider.Folder{
		ID:       "remote-fl-" + strconv.Itoa(len(f.createdFolders)),
		Name:     input.Name,
		ParentID: input.ParentID,
	}, nil
}

func (f *fakeProvider) UpdateFolder(_ context.Context, _ string, folderID string, input provider.FolderInput) (*provider.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateFolderErr != nil {
		return nil, f.updateFolderErr
	}
	return &provider.Folder{ID: folderID, Name: input.Name, ParentID: input.ParentID}, nil
}

func (f *fakeProvider) DeleteFolder(_ context.Context, _ string, folderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteFolderErr != nil {
		return f.deleteFolderErr
	}
	f.deletedFolders = append(f.deletedFolders, folderID)
	return nil
}

func eventFromInput(id string, input provider.EventInput) provider.Event {
	return provider.Event{
		ID:           id,
		CalendarID:   input.CalendarID,
		Title:        input.Title,
		Description:  input.Description,
		Location:     input.Location,
		Status:       input.Status,
		Busy:         input.Busy,
		When:         input.When,
		Participants: input.Participants,
		Recurrence:   input.Recurrence,
		Reminders:    input.Reminders,
		Conferencing: input.Conferencing,
	}
}

// harness wires a Service on top of in-memory fakes.
type harness struct {
	tenants    *fakeTenants
	calendars  *fakeCalendars
	events     *fakeEvents
	folders    *fakeFolders
	syncStates *fakeSyncStates
	activities *fakeActivities
	provider   *fakeProvider
	svc        *Service
}

func newHarness(cfg config.SyncConfig) *harness {
	events := &fakeEvents{}
	h := &harness{
		tenants:    &fakeTenants{accounts: map[uint][]model.ProviderAccount{}},
		calendars:  &fakeCalendars{events: events},
		events:     events,
		folders:    &fakeFolders{},
		syncStates: &fakeSyncStates{},
		activities: &fakeActivities{},
		provider:   &fakeProvider{pages: map[string]provider.EventPage{}},
	}
	st := &store.Store{
		Tenants:    h.tenants,
		Calendars:  h.calendars,
		Events:     h.events,
		Folders:    h.folders,
		SyncStates: h.syncStates,
		Activities: h.activities,
	}
	h.svc = NewService(st, h.provider, tenant.NewResolver(h.tenants), cfg)
	h.svc.now = func() time.Time { return fixedNow }
	return h
}

// connect provisions a tenant with one active primary grant.
func (h *harness) connect(t *testing.T, slug string) *model.Tenant {
	t.Helper()
	tn := &model.Tenant{Slug: slug, Name: slug, Active: true, Plan: "free"}
	if err := h.tenants.Create(context.Background(), tn); err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	h.tenants.mu.Lock()
	h.tenants.accounts[tn.ID] = []model.ProviderAccount{{
		ID:        tn.ID,
		TenantID:  tn.ID,
		GrantID:   "grant-" + slug,
		Email:     slug + "@example.com",
		Provider:  "google",
		Active:    true,
		IsPrimary: true,
	}}
	h.tenants.mu.Unlock()
	return tn
}

func (h *harness) seedCalendar(t *testing.T, tenantID uint, providerID, name string) *model.Calendar {
	t.Helper()
	cal := &model.Calendar{
		TenantID:   tenantID,
		ProviderID: providerID,
		Name:       name,
		SyncedAt:   fixedNow.Add(-time.Hour),
	}
	if err := h.calendars.Create(context.Background(), cal); err != nil {
		t.Fatalf("seed calendar: %v", err)
	}
	return cal
}

func (h *harness) seedEvent(t *testing.T, tenantID, calendarID uint, providerID, title string, start time.Time) *model.CalendarEvent {
	t.Helper()
	event := &model.CalendarEvent{
		TenantID:   tenantID,
		CalendarID: calendarID,
		ProviderID: providerID,
		Title:      title,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		SyncedAt:   fixedNow.Add(-time.Hour),
	}
	if err := h.events.Create(context.Background(), event); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event
}

// timedWhen builds a schedulable event window relative to fixedNow.
func timedWhen(offset time.Duration) provider.EventWhen {
	start := fixedNow.Add(offset)
	return provider.EventWhen{
		StartTime: start.Unix(),
		EndTime:   start.Add(time.Hour).Unix(),
	}
}
