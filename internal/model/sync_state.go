package model

import "time"

// SyncState marks that a tenant has completed a baseline sync. It is
// created lazily and intentionally holds no cursor or version data: every
// sync call re-derives full state from the provider.
type SyncState struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	TenantID        uint      `json:"tenant_id" gorm:"uniqueIndex;not null"`
	InitialSyncedAt time.Time `json:"initial_synced_at"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ActivityLog records one completed platform operation, such as an initial
// sync summary.
type ActivityLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  uint      `json:"tenant_id" gorm:"index;not null"`
	Action    string    `json:"action" gorm:"type:varchar(100);not null"`
	Detail    string    `json:"detail,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time `json:"created_at"`
}
