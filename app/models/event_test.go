package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventDatesValid(t *testing.T) {
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	event := &Event{StartDate: start}
	assert.True(t, event.DatesValid(), "open-ended event")

	sameDay := start
	event.EndDate = &sameDay
	assert.True(t, event.DatesValid(), "end equal to start")

	later := start.Add(48 * time.Hour)
	event.EndDate = &later
	assert.True(t, event.DatesValid())

	earlier := start.Add(-time.Hour)
	event.EndDate = &earlier
	assert.False(t, event.DatesValid())
}

func TestEventValidate_Status(t *testing.T) {
	event := &Event{
		Name:      "Launch",
		StartDate: time.Now(),
		Status:    EventStatusActive,
	}
	assert.NoError(t, event.Validate())

	event.Status = "cancelled"
	assert.Error(t, event.Validate())
}
