// Package dates converts between calendar days and their canonical keys.
//
// All functions work in the location carried by their arguments, so callers
// pick the household time zone once (see config.Timezone) and pass times in it.
package dates

import (
	"fmt"
	"strings"
	"time"
)

// KeyLayout is the canonical YYYY-MM-DD day key.
const KeyLayout = "2006-01-02"

// MonthLayout is the YYYY-MM month label used by exports.
const MonthLayout = "2006-01"

var dayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Key returns the day key of t. Two times on the same calendar day always
// produce the same key, whatever the time of day.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseKey parses a day key into midnight of that day in loc.
func ParseKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(KeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date key %q: %w", key, err)
	}
	return t, nil
}

// SameDay reports whether a and b fall on the same calendar day in a's
// location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns midnight of t's day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayIndex returns 0 for Monday through 6 for Sunday.
func DayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekStart returns midnight of the Monday of t's week. Sundays belong to
// the week that started six days earlier.
func WeekStart(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -DayIndex(day))
}

// WeekDays returns the seven days starting at start.
func WeekDays(start time.Time) [7]time.Time {
	start = StartOfDay(start)
	var days [7]time.Time
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// NextWeekday returns the next day after now falling on wd. When now is
// already a wd the result is one week later.
func NextWeekday(now time.Time, wd time.Weekday) time.Time {
	until := int(wd) - int(now.Weekday())
	if until <= 0 {
		until += 7
	}
	return StartOfDay(now).AddDate(0, 0, until)
}

// Month returns the YYYY-MM label of t.
func Month(t time.Time) string {
	return t.Format(MonthLayout)
}

// DayName returns the short name for a Monday-first day index.
func DayName(index int) string {
	if index < 0 || index >= len(dayNames) {
		return ""
	}
	return dayNames[index]
}

// ParseWeekday accepts full or three-letter English weekday names.
func ParseWeekday(s string) (time.Weekday, error) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := wd.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return wd, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
