package models

import "time"

// ItemType classifies a plan block.
type ItemType string

const (
	ItemTypeStudy    ItemType = "study"
	ItemTypeRevision ItemType = "revision"
	ItemTypeBreak    ItemType = "break"
)

// Valid reports whether the type is one of the accepted block kinds.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeStudy, ItemTypeRevision, ItemTypeBreak:
		return true
	}
	return false
}

// Subject is an academic subject to plan for. Identity is the name; duplicate
// names are passed through unmodified.
type Subject struct {
	Name string `json:"name"`
}

// Exam pins a subject to a calendar date (YYYY-MM-DD). Exams inform the
// oracle prompt and the deadline check.
type Exam struct {
	Subject string `json:"subject"`
	Date    string `json:"date"`
}

// AvailabilityWindow describes the daily study window over a planning horizon.
// MaxHoursPerDay is normalized once at request construction (clamped to the
// lesser of the supplied value and the window length, never above 8.0) and is
// not mutated afterwards.
type AvailabilityWindow struct {
	Days           int     `json:"days"`
	DailyStart     string  `json:"daily_start"`
	DailyEnd       string  `json:"daily_end"`
	StartDate      string  `json:"start_date"`
	MaxHoursPerDay float64 `json:"max_hours_per_day"`
}

// PlanItem is one accepted calendar block. Start precedes End; breaks carry an
// empty SubjectName.
type PlanItem struct {
	Title       string    `json:"title"`
	SubjectName string    `json:"subjectName"`
	Start       time.Time `json:"startISO"`
	End         time.Time `json:"endISO"`
	Type        ItemType  `json:"type"`
}

// Duration returns the length of the block.
func (p PlanItem) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// BreakRequirement is a mandatory recurring break interval derived from an
// availability window; it is never persisted independently of the window that
// produced it.
type BreakRequirement struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
