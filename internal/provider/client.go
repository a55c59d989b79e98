package provider

import (
	"context"
	"time"
)

// Client is the surface the sync engine consumes from the provider
// gateway. All calls are scoped to one grant and perform a single bounded
// HTTP request; errors come back verbatim as *HTTPError or transport
// errors, never retried here.
type Client interface {
	ListCalendars(ctx context.Context, grantID string) ([]Calendar, error)
	ListEvents(ctx context.Context, grantID string, q EventQuery) (EventPage, error)
	CreateEvent(ctx context.Context, grantID string, input EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, grantID, eventID string, input EventInput) (*Event, error)
	DeleteEvent(ctx context.Context, grantID, eventID, calendarID string) error

	ListFolders(ctx context.Context, grantID string) ([]Folder, error)
	CreateFolder(ctx context.Context, grantID string, input FolderInput) (*Folder, error)
	UpdateFolder(ctx context.Context, grantID, folderID string, input FolderInput) (*Folder, error)
	DeleteFolder(ctx context.Context, grantID, folderID string) error
}

// Calendar is the provider's representation of a calendar.
type Calendar struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	IsPrimary   bool   `json:"isPrimary,omitempty"`
	ReadOnly    bool   `json:"readOnly,omitempty"`
	HexColor    string `json:"hexColor,omitempty"`
}

// EventWhen describes an event's scheduling window: either a timed window
// (unix seconds) or an all-day date range (YYYY-MM-DD).
type EventWhen struct {
	StartTime int64  `json:"startTime,omitempty"`
	EndTime   int64  `json:"endTime,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Resolve maps the wire representation onto concrete timestamps. The
// second return is false when the payload carries neither a timed window
// nor an all-day range, which the engine treats as unschedulable data.
func (w EventWhen) Resolve() (start, end time.Time, allDay, ok bool) {
	if w.StartTime > 0 {
		start = time.Unix(w.StartTime, 0).UTC()
		end = start
		if w.EndTime > 0 {
			end = time.Unix(w.EndTime, 0).UTC()
		}
		return start, end, false, true
	}
	if w.StartDate != "" {
		startDay, err := time.Parse("2006-01-02", w.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, false, false
		}
		endDay := startDay
		if w.EndDate != "" {
			if parsed, err := time.Parse("2006-01-02", w.EndDate); err == nil {
				endDay = parsed
			}
		}
		return startDay.UTC(), endDay.AddDate(0, 0, 1).UTC(), true, true
	}
	return time.Time{}, time.Time{}, false, false
}

// Participant is one attendee on an event.
type Participant struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email"`
	Status string `json:"status,omitempty"`
}

// EmailContact identifies an organizer.
type EmailContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// ReminderOverride is a single non-default reminder.
type ReminderOverride struct {
	ReminderMinutes int    `json:"reminderMinutes"`
	ReminderMethod  string `json:"reminderMethod,omitempty"`
}

// Reminders describes the reminder configuration of an event.
type Reminders struct {
	UseDefault bool               `json:"useDefault"`
	Overrides  []ReminderOverride `json:"overrides,omitempty"`
}

// Conferencing carries meeting-link details.
type Conferencing struct {
	Provider string            `json:"provider,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
}

// Event is the provider's representation of a calendar event.
type Event struct {
	ID            string        `json:"id"`
	CalendarID    string        `json:"calendarId"`
	Title         string        `json:"title,omitempty"`
	Description   string        `json:"description,omitempty"`
	Location      string        `json:"location,omitempty"`
	Status        string        `json:"status,omitempty"`
	Busy          bool          `json:"busy,omitempty"`
	When          EventWhen     `json:"when"`
	Participants  []Participant `json:"participants,omitempty"`
	Organizer     *EmailContact `json:"organizer,omitempty"`
	Recurrence    []string      `json:"recurrence,omitempty"`
	Reminders     *Reminders    `json:"reminders,omitempty"`
	Conferencing  *Conferencing `json:"conferencing,omitempty"`
	MasterEventID string        `json:"masterEventId,omitempty"`
}

// EventQuery bounds one windowed events fetch.
type EventQuery struct {
	CalendarID string
	Start      time.Time
	End        time.Time
	Limit      int
	PageToken  string
}

// EventPage is one page of a windowed events listing.
type EventPage struct {
	Data          []Event `json:"data"`
	NextPageToken string  `json:"nextCursor,omitempty"`
}

// EventInput is the payload for event create/update calls.
type EventInput struct {
	CalendarID   string        `json:"calendarId"`
	Title        string        `json:"title,omitempty"`
	Description  string        `json:"description,omitempty"`
	Location     string        `json:"location,omitempty"`
	Status       string        `json:"status,omitempty"`
	Busy         bool          `json:"busy,omitempty"`
	When         EventWhen     `json:"when"`
	Participants []Participant `json:"participants,omitempty"`
	Recurrence   []string      `json:"recurrence,omitempty"`
	Reminders    *Reminders    `json:"reminders,omitempty"`
	Conferencing *Conferencing `json:"conferencing,omitempty"`
}

// Folder is the provider's representation of a mail folder.
type Folder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}

// FolderInput is the payload for folder create/update calls.
type FolderInput struct {
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}
