package stats

import "time"

// CalendarDaysBetween counts midnights crossed going from a to b in loc.
// It is negative when b falls on an earlier day.
func CalendarDaysBetween(a, b time.Time, loc *time.Location) int {
	return int(dayKey(b, loc).Sub(dayKey(a, loc)).Hours() / 24)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return dayKey(a, loc).Equal(dayKey(b, loc))
}

// StartOfDay returns local midnight of t's day.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// dayKey maps t to UTC midnight of its local date so day arithmetic ignores
// DST shifts.
func dayKey(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
