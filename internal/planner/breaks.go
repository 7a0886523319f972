package planner

import (
	"time"

	"github.com/mindmate-app/planner-api/internal/models"
)

type fixedBreak struct {
	title     string
	startHour int
	endHour   int
}

// The recurring daily break catalogue. A break is only required on days whose
// availability window fully covers it.
var fixedBreaks = []fixedBreak{
	{"Lunch Break", 13, 14},
	{"Snack Break", 17, 18},
	{"Dinner Break", 20, 21},
}

// RequiredBreaks derives the authoritative list of break intervals that must
// appear in any accepted plan for the window, one per (day, slot) pair that
// lies entirely inside that day's availability window.
func RequiredBreaks(w models.AvailabilityWindow) ([]models.BreakRequirement, error) {
	startDate, err := ParseStartDate(w.StartDate)
	if err != nil {
		return nil, err
	}

	var out []models.BreakRequirement
	for i := 0; i < w.Days; i++ {
		dayDate := startDate.AddDate(0, 0, i)
		windowStart, windowEnd, err := DayWindow(dayDate, w.DailyStart, w.DailyEnd)
		if err != nil {
			return nil, err
		}

		year, month, day := dayDate.Date()
		for _, slot := range fixedBreaks {
			brkStart := time.Date(year, month, day, slot.startHour, 0, 0, 0, dayDate.Location())
			brkEnd := time.Date(year, month, day, slot.endHour, 0, 0, 0, dayDate.Location())
			if !brkEnd.After(brkStart) {
				brkEnd = brkEnd.AddDate(0, 0, 1)
			}
			// A slot clock time earlier than the day's start belongs to the
			// stretch of an overnight window that runs past midnight.
			if brkStart.Before(windowStart) {
				brkStart = brkStart.AddDate(0, 0, 1)
				brkEnd = brkEnd.AddDate(0, 0, 1)
			}

			if !brkStart.Before(windowStart) && !brkEnd.After(windowEnd) {
				out = append(out, models.BreakRequirement{
					Title: slot.title,
					Start: brkStart,
					End:   brkEnd,
				})
			}
		}
	}
	return out, nil
}
