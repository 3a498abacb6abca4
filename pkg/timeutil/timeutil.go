// Package timeutil provides timezone-aware date helpers for Aula Digital.
// Streaks and weekly goals are evaluated in the family's local timezone
// (Chile by default), so every bucketing operation takes an explicit
// *time.Location instead of assuming UTC.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// DefaultTimezone is the IANA name of the default product timezone.
const DefaultTimezone = "America/Santiago"

// SantiagoTZ is the default location for all date bucketing. Chile observes
// DST, so this must come from the IANA database rather than a fixed offset.
// Falls back to UTC-4 if the zone database is unavailable.
var SantiagoTZ = mustLoadLocation(DefaultTimezone)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, -4*60*60)
	}
	return loc
}

// In converts a time to the given location, defaulting to SantiagoTZ.
func In(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = SantiagoTZ
	}
	return t.In(loc)
}

// StartOfDay returns the start of the day (00:00:00) in the given location.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := In(t, loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// EndOfDay returns the end of the day (23:59:59.999999999) in the given location.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	local := In(t, loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, local.Location())
}

// StartOfWeek returns the start of the week (Monday 00:00:00) in the given
// location. Weeks run Monday through Sunday.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	local := In(t, loc)
	weekday := int(local.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return StartOfDay(local.AddDate(0, 0, -(weekday-1)), loc)
}

// EndOfWeek returns the end of the week (Sunday 23:59:59) in the given location.
func EndOfWeek(t time.Time, loc *time.Location) time.Time {
	return EndOfDay(StartOfWeek(t, loc).AddDate(0, 0, 6), loc)
}

// PrevWeek returns the start of the week immediately before the week
// containing t.
func PrevWeek(t time.Time, loc *time.Location) time.Time {
	return StartOfWeek(StartOfWeek(t, loc).AddDate(0, 0, -1), loc)
}

// SameDay reports whether two times fall on the same calendar day in the
// given location.
func SameDay(t1, t2 time.Time, loc *time.Location) bool {
	a, b := In(t1, loc), In(t2, loc)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// SameWeek reports whether two times fall in the same Monday-based week in
// the given location.
func SameWeek(t1, t2 time.Time, loc *time.Location) bool {
	return StartOfWeek(t1, loc).Equal(StartOfWeek(t2, loc))
}

// WeeksBetween returns how many whole weeks separate the weeks containing
// t1 and t2. Returns 0 when both fall in the same week, 1 for adjacent
// weeks, and so on. The result is never negative.
// Computed via calendar arithmetic so DST transitions (a 23- or 25-hour day)
// do not skew the count.
func WeeksBetween(t1, t2 time.Time, loc *time.Location) int {
	a, b := StartOfWeek(t1, loc), StartOfWeek(t2, loc)
	if a.After(b) {
		a, b = b, a
	}
	weeks := 0
	for a.Before(b) {
		a = StartOfWeek(a.AddDate(0, 0, 7), loc)
		weeks++
	}
	return weeks
}

// DaysSince returns the number of whole calendar days between t and now in
// the given location.
func DaysSince(t, now time.Time, loc *time.Location) int {
	a := StartOfDay(t, loc)
	b := StartOfDay(now, loc)
	days := 0
	for a.Before(b) {
		a = a.AddDate(0, 0, 1)
		days++
	}
	return days
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatChileanDate is the date format shown to families (DD-MM-YYYY).
	FormatChileanDate = "02-01-2006"
)

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in the given location.
func FormatDateStr(t time.Time, loc *time.Location) string {
	return In(t, loc).Format(FormatDate)
}

// WeekKey returns a stable string key for the week containing t, suitable
// for map bucketing. The Monday date is used rather than an ISO week number
// so keys stay unambiguous across year boundaries.
func WeekKey(t time.Time, loc *time.Location) string {
	return StartOfWeek(t, loc).Format(FormatDate)
}
