// Package progress derives habit streaks, completion rates, level/XP
// progression, goal progress and calendar views from completion logs.
//
// Every function here is pure: callers pass in snapshots and an explicit
// "now" in the user's location, and get view-state back. Calendar days are
// always taken from the wall clock of that location, never from UTC.
package progress

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// FormatLocalDate returns the YYYY-MM-DD calendar day of t in t's own location.
func FormatLocalDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseLocalDate returns midnight of the given calendar day in loc.
func ParseLocalDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", ErrInvalidArgument, s)
	}
	return t, nil
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func Today(now time.Time) string {
	return FormatLocalDate(now)
}

// Weekday returns the day of week with Monday=0 and Sunday=6.
func Weekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

// AddDays moves by whole calendar days, keeping the wall clock stable across DST.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// dayNumber maps a calendar date onto a continuous day count so that
// differences are independent of time zones and DST transitions.
func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

func dayNumberOf(s string) (int, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return 0, false
	}
	return dayNumber(t), true
}

// DaysBetween returns the number of calendar days from a to b (b - a).
func DaysBetween(a, b string) (int, error) {
	na, ok := dayNumberOf(a)
	if !ok {
		return 0, fmt.Errorf("%w: bad date %q", ErrInvalidArgument, a)
	}
	nb, ok := dayNumberOf(b)
	if !ok {
		return 0, fmt.Errorf("%w: bad date %q", ErrInvalidArgument, b)
	}
	return nb - na, nil
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func daysInYear(year int) int {
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 366
	}
	return 365
}

type DayPhase string

const (
	PhaseDay   DayPhase = "day"
	PhaseNight DayPhase = "night"
)

// PhaseOf reports day between 06:00 and 18:00 local time, night otherwise.
func PhaseOf(now time.Time) DayPhase {
	if h := now.Hour(); h >= 6 && h < 18 {
		return PhaseDay
	}
	return PhaseNight
}
