package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNationalHolidaysFixedDates(t *testing.T) {
	holidays := nationalHolidays(2025)
	assert.Len(t, holidays, 10)
	assert.Contains(t, holidays, time.Date(2025, time.April, 25, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, holidays, time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC))
}

func TestHolidayCalendarLookup(t *testing.T) {
	calendar := newHolidayCalendar()

	assert.True(t, calendar.IsHoliday(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, calendar.IsHoliday(time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)))

	// Lookups normalise away any time-of-day component.
	assert.True(t, calendar.IsHoliday(time.Date(2026, time.June, 10, 14, 30, 0, 0, time.UTC)))
}
