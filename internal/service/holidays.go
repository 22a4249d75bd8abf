package service

import "time"

// nationalHolidays returns the fixed-date national holidays for one calendar
// year. Movable feasts are not observed by the center, so the list is a pure
// function of the year.
func nationalHolidays(year int) []time.Time {
	dates := [][2]int{
		{int(time.January), 1},
		{int(time.April), 25},
		{int(time.May), 1},
		{int(time.June), 10},
		{int(time.August), 15},
		{int(time.October), 5},
		{int(time.November), 1},
		{int(time.December), 1},
		{int(time.December), 8},
		{int(time.December), 25},
	}

	holidays := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		holidays = append(holidays, time.Date(year, time.Month(d[0]), d[1], 0, 0, 0, 0, time.UTC))
	}
	return holidays
}

// holidayCalendar caches per-year holiday lookups for one scheduling run.
type holidayCalendar struct {
	years map[int]map[time.Time]struct{}
}

func newHolidayCalendar() *holidayCalendar {
	return &holidayCalendar{years: make(map[int]map[time.Time]struct{})}
}

// IsHoliday reports whether the given day is a national holiday.
func (h *holidayCalendar) IsHoliday(day time.Time) bool {
	year := day.Year()
	set, ok := h.years[year]
	if !ok {
		set = make(map[time.Time]struct{})
		for _, date := range nationalHolidays(year) {
			set[date] = struct{}{}
		}
		h.years[year] = set
	}
	_, found := set[dateOnly(day)]
	return found
}
