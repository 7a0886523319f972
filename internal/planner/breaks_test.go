package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mindmate-app/planner-api/internal/models"
)

func window(days int, start, end string) models.AvailabilityWindow {
	return models.AvailabilityWindow{
		Days:           days,
		DailyStart:     start,
		DailyEnd:       end,
		StartDate:      "2025-03-10",
		MaxHoursPerDay: 8,
	}
}

func TestRequiredBreaksFullDay(t *testing.T) {
	breaks, err := RequiredBreaks(window(1, "09:00", "21:30"))
	require.NoError(t, err)
	require.Len(t, breaks, 3)

	require.Equal(t, "Lunch Break", breaks[0].Title)
	require.Equal(t, time.Date(2025, 3, 10, 13, 0, 0, 0, time.Local), breaks[0].Start)
	require.Equal(t, time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local), breaks[0].End)
	require.Equal(t, "Snack Break", breaks[1].Title)
	require.Equal(t, "Dinner Break", breaks[2].Title)
}

func TestRequiredBreaksMorningOnly(t *testing.T) {
	breaks, err := RequiredBreaks(window(1, "09:00", "12:00"))
	require.NoError(t, err)
	require.Empty(t, breaks)
}

func TestRequiredBreaksPartialCoverage(t *testing.T) {
	// Window ends mid-snack, so only lunch fits entirely inside it.
	breaks, err := RequiredBreaks(window(1, "09:00", "17:30"))
	require.NoError(t, err)
	require.Len(t, breaks, 1)
	require.Equal(t, "Lunch Break", breaks[0].Title)
}

func TestRequiredBreaksBoundaryInclusive(t *testing.T) {
	// A break touching both window edges still counts as covered.
	breaks, err := RequiredBreaks(window(1, "13:00", "14:00"))
	require.NoError(t, err)
	require.Len(t, breaks, 1)
	require.Equal(t, "Lunch Break", breaks[0].Title)
}

func TestRequiredBreaksMultiDay(t *testing.T) {
	breaks, err := RequiredBreaks(window(3, "09:00", "21:30"))
	require.NoError(t, err)
	require.Len(t, breaks, 9)

	// Day two's lunch lands on the next calendar date.
	require.Equal(t, time.Date(2025, 3, 11, 13, 0, 0, 0, time.Local), breaks[3].Start)
}

func TestRequiredBreaksOvernightWindow(t *testing.T) {
	// 18:00 through 02:00: only dinner lies inside; the 13-14 and 17-18
	// slots precede the window start and shift past its end once pushed
	// to the overnight stretch.
	breaks, err := RequiredBreaks(window(1, "18:00", "02:00"))
	require.NoError(t, err)
	require.Len(t, breaks, 1)
	require.Equal(t, "Dinner Break", breaks[0].Title)
}

func TestRequiredBreaksBadStartDate(t *testing.T) {
	w := window(1, "09:00", "21:30")
	w.StartDate = "March 10"
	_, err := RequiredBreaks(w)
	require.Error(t, err)
}
