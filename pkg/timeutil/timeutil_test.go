package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfWeekMondayBased(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "monday maps to itself",
			in:   time.Date(2025, 8, 18, 15, 30, 0, 0, loc), // Monday
			want: time.Date(2025, 8, 18, 0, 0, 0, 0, loc),
		},
		{
			name: "wednesday maps back to monday",
			in:   time.Date(2025, 8, 20, 9, 0, 0, 0, loc),
			want: time.Date(2025, 8, 18, 0, 0, 0, 0, loc),
		},
		{
			name: "sunday belongs to the preceding monday",
			in:   time.Date(2025, 8, 24, 23, 59, 59, 0, loc),
			want: time.Date(2025, 8, 18, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, StartOfWeek(tt.in, loc).Equal(tt.want))
		})
	}
}

func TestEndOfWeekIsSundayNight(t *testing.T) {
	loc := time.UTC
	in := time.Date(2025, 8, 20, 12, 0, 0, 0, loc) // Wednesday
	end := EndOfWeek(in, loc)

	assert.Equal(t, time.Sunday, end.Weekday())
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 24, end.Day())
}

func TestSameWeekAcrossTimezoneConversion(t *testing.T) {
	// Sunday 23:00 in Santiago is already Monday in UTC; bucketing must
	// follow the local calendar, not the UTC one.
	require.NotNil(t, SantiagoTZ)
	sundayNight := time.Date(2025, 8, 24, 23, 0, 0, 0, SantiagoTZ)
	wednesday := time.Date(2025, 8, 20, 10, 0, 0, 0, SantiagoTZ)

	assert.True(t, SameWeek(sundayNight, wednesday, SantiagoTZ))
	assert.False(t, SameWeek(sundayNight.Add(2*time.Hour), wednesday, SantiagoTZ))
}

func TestWeeksBetween(t *testing.T) {
	loc := time.UTC
	mon := time.Date(2025, 8, 18, 0, 0, 0, 0, loc)

	assert.Equal(t, 0, WeeksBetween(mon, mon.AddDate(0, 0, 6), loc))
	assert.Equal(t, 1, WeeksBetween(mon, mon.AddDate(0, 0, 7), loc))
	assert.Equal(t, 3, WeeksBetween(mon.AddDate(0, 0, 21), mon, loc))
}

func TestWeekKeyStableWithinWeek(t *testing.T) {
	loc := time.UTC
	a := time.Date(2025, 12, 29, 8, 0, 0, 0, loc)  // Monday of a year-straddling week
	b := time.Date(2026, 1, 4, 20, 0, 0, 0, loc)   // Sunday of the same week
	c := time.Date(2026, 1, 5, 0, 0, 0, 0, loc)    // next Monday

	assert.Equal(t, "2025-12-29", WeekKey(a, loc))
	assert.Equal(t, WeekKey(a, loc), WeekKey(b, loc))
	assert.NotEqual(t, WeekKey(a, loc), WeekKey(c, loc))
}

func TestDaysSince(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 8, 20, 1, 0, 0, 0, loc)

	assert.Equal(t, 0, DaysSince(now.Add(-30*time.Minute), now, loc))
	assert.Equal(t, 1, DaysSince(time.Date(2025, 8, 19, 23, 0, 0, 0, loc), now, loc))
	assert.Equal(t, 7, DaysSince(now.AddDate(0, 0, -7), now, loc))
}
