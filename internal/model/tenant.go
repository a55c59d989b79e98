package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant represents an organization using the platform.
// Tenants are auto-provisioned on first reference by id or slug and own
// every cached resource row.
type Tenant struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Slug      string         `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	Name      string         `json:"name" gorm:"type:varchar(255)"`
	Active    bool           `json:"active" gorm:"default:true"`
	Plan      string         `json:"plan" gorm:"type:varchar(50);default:'free'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ProviderAccount is a tenant's authorized connection (grant) to one
// external provider account. A tenant may hold several; sync operations
// target one at a time.
type ProviderAccount struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  uint      `json:"tenant_id" gorm:"index;not null"`
	GrantID   string    `json:"grant_id" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255)"`
	Provider  string    `json:"provider" gorm:"type:varchar(50)"`
	Active    bool      `json:"active" gorm:"default:true"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
