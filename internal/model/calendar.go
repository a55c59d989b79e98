package model

import "time"

// Calendar is a cached copy of one remote calendar. Exactly one row exists
// per (tenant_id, provider_id); every reconciliation pass overwrites all
// mapped fields on a match.
type Calendar struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TenantID    uint      `json:"tenant_id" gorm:"uniqueIndex:idx_calendars_tenant_provider;not null"`
	ProviderID  string    `json:"provider_id" gorm:"type:varchar(255);uniqueIndex:idx_calendars_tenant_provider;not null"`
	Name        string    `json:"name" gorm:"type:varchar(255)"`
	Description string    `json:"description" gorm:"type:text"`
	Location    string    `json:"location" gorm:"type:varchar(255)"`
	Timezone    string    `json:"timezone" gorm:"type:varchar(100)"`
	IsPrimary   bool      `json:"is_primary" gorm:"default:false"`
	IsReadOnly  bool      `json:"is_read_only" gorm:"default:false"`
	Color       string    `json:"color" gorm:"type:varchar(50)"`
	SyncedAt    time.Time `json:"synced_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CalendarEvent is a cached copy of one remote event, foreign-keyed to its
// owning cached Calendar. Removing the Calendar removes its events.
type CalendarEvent struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	TenantID      uint      `json:"tenant_id" gorm:"uniqueIndex:idx_events_tenant_calendar_provider;not null"`
	CalendarID    uint      `json:"calendar_id" gorm:"uniqueIndex:idx_events_tenant_calendar_provider;index;not null"`
	ProviderID    string    `json:"provider_id" gorm:"type:varchar(255);uniqueIndex:idx_events_tenant_calendar_provider;not null"`
	Title         string    `json:"title" gorm:"type:varchar(500)"`
	Description   string    `json:"description" gorm:"type:text"`
	Location      string    `json:"location" gorm:"type:varchar(500)"`
	StartTime     time.Time `json:"start_time" gorm:"index"`
	EndTime       time.Time `json:"end_time"`
	AllDay        bool      `json:"all_day" gorm:"default:false"`
	Status        string    `json:"status" gorm:"type:varchar(50)"`
	Busy          bool      `json:"busy" gorm:"default:true"`
	Recurrence    string    `json:"recurrence,omitempty" gorm:"type:jsonb"`
	Participants  string    `json:"participants,omitempty" gorm:"type:jsonb"`
	Organizer     string    `json:"organizer,omitempty" gorm:"type:jsonb"`
	Reminders     string    `json:"reminders,omitempty" gorm:"type:jsonb"`
	Conferencing  string    `json:"conferencing,omitempty" gorm:"type:jsonb"`
	MasterEventID string    `json:"master_event_id,omitempty" gorm:"type:varchar(255)"`
	SyncedAt      time.Time `json:"synced_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
