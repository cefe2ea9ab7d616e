package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestKey_IgnoresTimeOfDay(t *testing.T) {
	assert.Equal(t, "2026-10-15", Key(day(2026, 10, 15, 0)))
	assert.Equal(t, Key(day(2026, 10, 15, 1)), Key(day(2026, 10, 15, 23)))
	assert.Equal(t, "2026-01-05", Key(day(2026, 1, 5, 12)))
}

func TestParseKey(t *testing.T) {
	got, err := ParseKey("2026-10-15", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 10, 15, 0), got)

	_, err = ParseKey("2026-13-01", time.UTC)
	assert.Error(t, err)
	_, err = ParseKey("15/10/2026", time.UTC)
	assert.Error(t, err)
}

func TestSameDay(t *testing.T) {
	assert.True(t, SameDay(day(2026, 10, 15, 0), day(2026, 10, 15, 23)))
	assert.False(t, SameDay(day(2026, 10, 15, 23), day(2026, 10, 16, 0)))
	assert.False(t, SameDay(day(2026, 10, 15, 10), day(2025, 10, 15, 10)))
	assert.False(t, SameDay(day(2026, 10, 15, 10), day(2026, 11, 15, 10)))
}

func TestSameDay_UsesFirstLocation(t *testing.T) {
	tz := time.FixedZone("UTC+7", 7*60*60)
	local := time.Date(2026, 10, 16, 2, 0, 0, 0, tz) // 2026-10-15 19:00 UTC
	assert.True(t, SameDay(local, time.Date(2026, 10, 15, 20, 0, 0, 0, time.UTC)))
	assert.False(t, SameDay(local, time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)))
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday maps to itself", day(2026, 10, 12, 9), day(2026, 10, 12, 0)},
		{"thursday", day(2026, 10, 15, 18), day(2026, 10, 12, 0)},
		{"sunday maps to previous monday", day(2026, 10, 18, 23), day(2026, 10, 12, 0)},
		{"across month boundary", day(2024, 3, 31, 8), day(2024, 3, 25, 0)},
		{"across year boundary", day(2026, 1, 1, 8), day(2025, 12, 29, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.Monday, got.Weekday())
		})
	}
}

func TestWeekStart_SundayIsSixDaysEarlier(t *testing.T) {
	sunday := day(2026, 10, 18, 0)
	assert.Equal(t, sunday.AddDate(0, 0, -6), WeekStart(sunday))
}

func TestDayIndex(t *testing.T) {
	start := day(2026, 10, 12, 0) // Monday
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, DayIndex(start.AddDate(0, 0, i)))
	}
}

func TestWeekDays(t *testing.T) {
	days := WeekDays(day(2026, 10, 12, 15))
	assert.Equal(t, day(2026, 10, 12, 0), days[0])
	assert.Equal(t, day(2026, 10, 18, 0), days[6])
	for i, d := range days {
		assert.Equal(t, i, DayIndex(d))
	}
}

func TestNextWeekday(t *testing.T) {
	thursday := day(2026, 10, 15, 10)
	assert.Equal(t, day(2026, 10, 16, 0), NextWeekday(thursday, time.Friday))
	assert.Equal(t, day(2026, 10, 19, 0), NextWeekday(thursday, time.Monday))
	assert.Equal(t, day(2026, 10, 22, 0), NextWeekday(thursday, time.Thursday), "same weekday rolls to next week")
	assert.Equal(t, day(2026, 10, 18, 0), NextWeekday(thursday, time.Sunday))
}

func TestMonthAndDayName(t *testing.T) {
	assert.Equal(t, "2026-10", Month(day(2026, 10, 15, 0)))
	assert.Equal(t, "Mon", DayName(0))
	assert.Equal(t, "Sun", DayName(6))
	assert.Equal(t, "", DayName(7))
}

func TestParseWeekday(t *testing.T) {
	wd, err := ParseWeekday("mon")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, wd)

	wd, err = ParseWeekday("Sunday")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, wd)

	_, err = ParseWeekday("someday")
	assert.Error(t, err)
}
