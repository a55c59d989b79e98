package store

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/model"
	"github.com/tdaniel1925/easemail-saas-sub000/prometheus"
)

// eventStore implements EventStore.
type eventStore struct {
	db *gorm.DB
}

func (s *eventStore) ListByCalendar(ctx context.Context, tenantID, calendarID uint) ([]model.CalendarEvent, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var events []model.CalendarEvent
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND calendar_id = ?", tenantID, calendarID).
		Order("start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (s *eventStore) Query(ctx context.Context, tenantID uint, filter EventFilter) ([]model.CalendarEvent, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	query := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if filter.CalendarID != nil {
		query = query.Where("calendar_id = ?", *filter.CalendarID)
	}
	if filter.Start != nil {
		query = query.Where("start_time >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("start_time <= ?", *filter.End)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var events []model.CalendarEvent
	if err := query.Order("start_time ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Resolve accepts either the local numeric id or the provider's event id.
func (s *eventStore) Resolve(ctx context.Context, tenantID uint, ref string) (*model.CalendarEvent, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var event model.CalendarEvent
	query := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if localID, err := strconv.ParseUint(ref, 10, 32); err == nil {
		query = query.Where("id = ? OR provider_id = ?", uint(localID), ref)
	} else {
		query = query.Where("provider_id = ?", ref)
	}
	if err := query.First(&event).Error; err != nil {
		return nil, translateErr(err)
	}
	return &event, nil
}

func (s *eventStore) Create(ctx context.Context, event *model.CalendarEvent) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return s.db.WithContext(ctx).Create(event).Error
}

func (s *eventStore) Update(ctx context.Context, event *model.CalendarEvent) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return s.db.WithContext(ctx).Save(event).Error
}

func (s *eventStore) Delete(ctx context.Context, tenantID, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	return s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).
		Delete(&model.CalendarEvent{}, id).Error
}
