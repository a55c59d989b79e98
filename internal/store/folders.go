package store

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/model"
	"github.com/tdaniel1925/easemail-saas-sub000/prometheus"
)

// folderStore implements FolderStore.
type folderStore struct {
	db *gorm.DB
}

func (s *folderStore) ListByTenant(ctx context.Context, tenantID uint) ([]model.Folder, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var folders []model.Folder
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&folders).Error
	if err != nil {
		return nil, err
	}
	return folders, nil
}

func (s *folderStore) Resolve(ctx context.Context, tenantID uint, ref string) (*model.Folder, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var folder model.Folder
	query := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if localID, err := strconv.ParseUint(ref, 10, 32); err == nil {
		query = query.Where("id = ? OR provider_id = ?", uint(localID), ref)
	} else {
		query = query.Where("provider_id = ?", ref)
	}
	if err := query.First(&folder).Error; err != nil {
		return nil, translateErr(err)
	}
	return &folder, nil
}

func (s *folderStore) Create(ctx context.Context, folder *model.Folder) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return s.db.WithContext(ctx).Create(folder).Error
}

func (s *folderStore) Update(ctx context.Context, folder *model.Folder) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return s.db.WithContext(ctx).Save(folder).Error
}

func (s *folderStore) Delete(ctx context.Context, tenantID, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	return s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).
		Delete(&model.Folder{}, id).Error
}
