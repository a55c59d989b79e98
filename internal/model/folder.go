package model

import "time"

// Folder is a cached copy of one remote mail folder. Structurally the
// folder hierarchy syncs the same way calendars do: one row per
// (tenant_id, provider_id), parent reference by the provider's id.
type Folder struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	TenantID   uint      `json:"tenant_id" gorm:"uniqueIndex:idx_folders_tenant_provider;not null"`
	ProviderID string    `json:"provider_id" gorm:"type:varchar(255);uniqueIndex:idx_folders_tenant_provider;not null"`
	Name       string    `json:"name" gorm:"type:varchar(255)"`
	ParentID   string    `json:"parent_id,omitempty" gorm:"type:varchar(255)"`
	SyncedAt   time.Time `json:"synced_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
