package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mindmate-app/planner-api/internal/models"
)

func TestParseTimeOfDay(t *testing.T) {
	hour, minute, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	require.Equal(t, 9, hour)
	require.Equal(t, 30, minute)

	hour, minute, err = ParseTimeOfDay("00:00")
	require.NoError(t, err)
	require.Equal(t, 0, hour)
	require.Equal(t, 0, minute)

	for _, bad := range []string{"", "9", "24:00", "12:60", "ab:cd", "12.30"} {
		_, _, err := ParseTimeOfDay(bad)
		require.ErrorIs(t, err, ErrClockFormat, "input %q", bad)
	}
}

func TestHoursBetween(t *testing.T) {
	hours, err := HoursBetween("09:00", "17:00")
	require.NoError(t, err)
	require.InDelta(t, 8.0, hours, 1e-9)

	hours, err = HoursBetween("09:00", "21:30")
	require.NoError(t, err)
	require.InDelta(t, 12.5, hours, 1e-9)
}

func TestHoursBetweenOvernight(t *testing.T) {
	hours, err := HoursBetween("22:00", "06:00")
	require.NoError(t, err)
	require.InDelta(t, 8.0, hours, 1e-9)

	// Equal start and end reads as a full day, never zero.
	hours, err = HoursBetween("10:00", "10:00")
	require.NoError(t, err)
	require.InDelta(t, 24.0, hours, 1e-9)
}

func TestDayWindowOvernight(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	start, end, err := DayWindow(date, "22:00", "06:00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 3, 10, 22, 0, 0, 0, time.Local), start)
	require.Equal(t, time.Date(2025, 3, 11, 6, 0, 0, 0, time.Local), end)
}

func TestBucketByCalendarDay(t *testing.T) {
	items := []models.PlanItem{
		{Title: "evening", Start: time.Date(2025, 3, 10, 23, 0, 0, 0, time.Local), End: time.Date(2025, 3, 11, 1, 0, 0, 0, time.Local)},
		{Title: "morning", Start: time.Date(2025, 3, 11, 9, 0, 0, 0, time.Local), End: time.Date(2025, 3, 11, 10, 0, 0, 0, time.Local)},
	}

	buckets := BucketByCalendarDay(items)
	require.Len(t, buckets, 2)
	require.Equal(t, "evening", buckets["2025-03-10"][0].Title)
	require.Equal(t, "morning", buckets["2025-03-11"][0].Title)
}

func TestParseStartDate(t *testing.T) {
	parsed, err := ParseStartDate("2025-03-10")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local), parsed)

	parsed, err = ParseStartDate("2025-03-10T14:30:00")
	require.NoError(t, err)
	require.Equal(t, 14, parsed.Hour())

	_, err = ParseStartDate("10/03/2025")
	require.Error(t, err)
}

func TestParseTimestamp(t *testing.T) {
	parsed, err := ParseTimestamp("2025-03-10T09:00:00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local), parsed)

	parsed, err = ParseTimestamp("2025-03-10T09:00:00Z")
	require.NoError(t, err)
	require.Equal(t, time.UTC, parsed.Location())

	_, err = ParseTimestamp("soon")
	require.Error(t, err)
}

func TestFirstJSONObject(t *testing.T) {
	object, ok := FirstJSONObject("Here is your plan:\n```json\n{\"items\":[]}\n```\nEnjoy!")
	require.True(t, ok)
	require.Equal(t, `{"items":[]}`, object)

	_, ok = FirstJSONObject("no json here")
	require.False(t, ok)

	_, ok = FirstJSONObject("} backwards {")
	require.False(t, ok)
}
