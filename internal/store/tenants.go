package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tdaniel1925/easemail-saas-sub000/internal/model"
	"github.com/tdaniel1925/easemail-saas-sub000/prometheus"
)

// tenantStore implements TenantStore.
type tenantStore struct {
	db *gorm.DB
}

func (s *tenantStore) GetByID(ctx context.Context, id uint) (*model.Tenant, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var tenant model.Tenant
	if err := s.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &tenant, nil
}

func (s *tenantStore) GetBySlug(ctx context.Context, slug string) (*model.Tenant, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var tenant model.Tenant
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&tenant).Error; err != nil {
		return nil, translateErr(err)
	}
	return &tenant, nil
}

func (s *tenantStore) Create(ctx context.Context, tenant *model.Tenant) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return s.db.WithContext(ctx).Create(tenant).Error
}

func (s *tenantStore) ActiveAccounts(ctx context.Context, tenantID uint) ([]model.ProviderAccount, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var accounts []model.ProviderAccount
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Order("is_primary DESC, id ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}
