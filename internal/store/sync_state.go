package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/model"
	"github.com/tdaniel1925/easemail-saas-sub000/prometheus"
)

// syncStateStore implements SyncStateStore.
type syncStateStore struct {
	db *gorm.DB
}

func (s *syncStateStore) Get(ctx context.Context, tenantID uint) (*model.SyncState, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var state model.SyncState
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&state).Error; err != nil {
		return nil, translateErr(err)
	}
	return &state, nil
}

// MarkInitialSynced creates the marker row lazily and refreshes its
// timestamp on later baseline syncs.
func (s *syncStateStore) MarkInitialSynced(ctx context.Context, tenantID uint, at time.Time) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	var state model.SyncState
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		state = model.SyncState{TenantID: tenantID, InitialSyncedAt: at}
		return s.db.WithContext(ctx).Create(&state).Error
	}
	if err != nil {
		return err
	}
	state.InitialSyncedAt = at
	return s.db.WithContext(ctx).Save(&state).Error
}

// activityStore implements ActivityStore.
type activityStore struct {
	db *gorm.DB
}

func (s *activityStore) Record(ctx context.Context, entry *model.ActivityLog) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return s.db.WithContext(ctx).Create(entry).Error
}
