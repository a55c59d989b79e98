package store

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/model"
	"github.com/tdaniel1925/easemail-saas-sub000/prometheus"
)

// calendarStore implements CalendarStore.
type calendarStore struct {
	db *gorm.DB
}

func (s *calendarStore) ListByTenant(ctx context.Context, tenantID uint) ([]model.Calendar, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var calendars []model.Calendar
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("is_primary DESC, name ASC").
		Find(&calendars).Error
	if err != nil {
		return nil, err
	}
	return calendars, nil
}

// Resolve is the single place that accepts the ambiguous "local id or
// provider id" reference shape. Numeric refs are matched against both
// keys; anything else can only be a provider id.
func (s *calendarStore) Resolve(ctx context.Context, tenantID uint, ref string) (*model.Calendar, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var cal model.Calendar
	query := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if localID, err := strconv.ParseUint(ref, 10, 32); err == nil {
		query = query.Where("id = ? OR provider_id = ?", uint(localID), ref)
	} else {
		query = query.Where("provider_id = ?", ref)
	}
	if err := query.First(&cal).Error; err != nil {
		return nil, translateErr(err)
	}
	return &cal, nil
}

func (s *calendarStore) Create(ctx context.Context, cal *model.Calendar) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return s.db.WithContext(ctx).Create(cal).Error
}

func (s *calendarStore) Update(ctx context.Context, cal *model.Calendar) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return s.db.WithContext(ctx).Save(cal).Error
}

// Delete removes the calendar row and cascades to its cached events in one
// transaction.
func (s *calendarStore) Delete(ctx context.Context, tenantID, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND calendar_id = ?", tenantID, id).
			Delete(&model.CalendarEvent{}).Error; err != nil {
			return err
		}
		return tx.Where("tenant_id = ?", tenantID).
			Delete(&model.Calendar{}, id).Error
	})
}
