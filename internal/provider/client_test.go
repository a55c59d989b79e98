package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventWhenResolveTimed(t *testing.T) {
	when := EventWhen{StartTime: 1746100800, EndTime: 1746104400}

	start, end, allDay, ok := when.Resolve()

	assert.True(t, ok)
	assert.False(t, allDay)
	assert.Equal(t, time.Unix(1746100800, 0).UTC(), start)
	assert.Equal(t, time.Unix(1746104400, 0).UTC(), end)
}

func TestEventWhenResolveTimedWithoutEnd(t *testing.T) {
	when := EventWhen{StartTime: 1746100800}

	start, end, _, ok := when.Resolve()

	assert.True(t, ok)
	assert.Equal(t, start, end)
}

func TestEventWhenResolveAllDaySingleDay(t *testing.T) {
	when := EventWhen{StartDate: "2025-05-10"}

	start, end, allDay, ok := when.Resolve()

	assert.True(t, ok)
	assert.True(t, allDay)
	assert.Equal(t, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC), end)
}

func TestEventWhenResolveAllDayRange(t *testing.T) {
	when := EventWhen{StartDate: "2025-05-10", EndDate: "2025-05-12"}

	start, end, allDay, ok := when.Resolve()

	assert.True(t, ok)
	assert.True(t, allDay)
	assert.Equal(t, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), start)
	// End is exclusive: the day after the last all-day date.
	assert.Equal(t, time.Date(2025, 5, 13, 0, 0, 0, 0, time.UTC), end)
}

func TestEventWhenResolveUnschedulable(t *testing.T) {
	_, _, _, ok := EventWhen{}.Resolve()
	assert.False(t, ok)

	_, _, _, ok = EventWhen{StartDate: "not-a-date"}.Resolve()
	assert.False(t, ok)
}
