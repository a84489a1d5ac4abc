// Package timeutil holds the date arithmetic shared by the calendar views:
// strict day parsing, local day bounds, and Monday-based week math.
package timeutil

import (
	"fmt"
	"time"
)

// DayFormat is the only accepted layout for user-supplied dates.
const DayFormat = "2006-01-02"

// ParseDay parses a YYYY-MM-DD date in local time.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Midnight truncates t to 00:00 local time on the same day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayBounds returns [start, end) covering the local calendar day of t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := Midnight(t)
	return start, start.AddDate(0, 0, 1)
}

// WeekdayIndex maps a weekday onto a Monday-first column index (Mon=0 ..
// Sun=6).
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekStart returns the Monday midnight that begins the week containing
// now, shifted back by offset whole weeks.
func WeekStart(now time.Time, offset int) time.Time {
	monday := Midnight(now).AddDate(0, 0, -WeekdayIndex(now))
	return monday.AddDate(0, 0, -7*offset)
}
