package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/mindmate-app/planner-api/internal/models"
)

// Break coverage matches by start proximity rather than exact equality: the
// oracle echoes timestamps with formatting and rounding drift.
const breakStartTolerance = 120 * time.Second

// Result carries the validation verdict plus the individual violations. The
// feedback sent back to the oracle stays generic; the violation list exists
// for logging and tests.
type Result struct {
	Valid      bool
	Violations []string
}

// Validate checks a candidate plan against every hard constraint for the
// window. It is pure and total over well-typed input; any single violation
// rejects the whole plan.
func Validate(items []models.PlanItem, w models.AvailabilityWindow) Result {
	var violations []string

	for i, item := range items {
		if !item.Start.Before(item.End) {
			violations = append(violations, fmt.Sprintf("item %d (%q): start must precede end", i, item.Title))
		}
		if !item.Type.Valid() {
			violations = append(violations, fmt.Sprintf("item %d (%q): unknown type %q", i, item.Title, item.Type))
		}
	}

	violations = append(violations, overlapViolations(items)...)
	violations = append(violations, dailyCapViolations(items, w.MaxHoursPerDay)...)
	violations = append(violations, durationViolations(items)...)
	violations = append(violations, breakViolations(items, w)...)

	return Result{Valid: len(violations) == 0, Violations: violations}
}

func overlapViolations(items []models.PlanItem) []string {
	sorted := make([]models.PlanItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var violations []string
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].End.After(sorted[i+1].Start) {
			violations = append(violations, fmt.Sprintf("%q overlaps %q", sorted[i].Title, sorted[i+1].Title))
		}
	}
	return violations
}

func dailyCapViolations(items []models.PlanItem, maxHoursPerDay float64) []string {
	working := make([]models.PlanItem, 0, len(items))
	for _, item := range items {
		if item.Type != models.ItemTypeBreak {
			working = append(working, item)
		}
	}

	var violations []string
	buckets := BucketByCalendarDay(working)
	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		var hours float64
		for _, item := range buckets[day] {
			hours += item.Duration().Hours()
		}
		if hours > maxHoursPerDay {
			violations = append(violations, fmt.Sprintf("day %s has %.1f study hours, cap is %.1f", day, hours, maxHoursPerDay))
		}
	}
	return violations
}

func durationViolations(items []models.PlanItem) []string {
	var violations []string
	for _, item := range items {
		if item.Type != models.ItemTypeStudy && item.Type != models.ItemTypeRevision {
			continue
		}
		minutes := item.Duration().Minutes()
		if minutes != 60 && minutes != 120 {
			violations = append(violations, fmt.Sprintf("%q runs %.0f minutes, blocks must be exactly 60 or 120", item.Title, minutes))
		}
	}
	return violations
}

func breakViolations(items []models.PlanItem, w models.AvailabilityWindow) []string {
	required, err := RequiredBreaks(w)
	if err != nil {
		return []string{fmt.Sprintf("availability window is unusable: %v", err)}
	}

	var violations []string
	for _, need := range required {
		matched := false
		for _, item := range items {
			if item.Type != models.ItemTypeBreak {
				continue
			}
			drift := item.Start.Sub(need.Start)
			if drift < 0 {
				drift = -drift
			}
			if drift < breakStartTolerance {
				matched = true
				break
			}
		}
		if !matched {
			violations = append(violations, fmt.Sprintf("missing required %s at %s", need.Title, need.Start.Format("2006-01-02 15:04")))
		}
	}
	return violations
}

// CheckExamDeadlines enforces the finish-early rule: the last study or
// revision block for a subject must end at least two calendar days before
// that subject's exam. Exams without a parseable date or without any matching
// block are skipped.
func CheckExamDeadlines(items []models.PlanItem, exams []models.Exam) []string {
	var violations []string
	for _, exam := range exams {
		examDate, err := time.ParseInLocation("2006-01-02", exam.Date, time.Local)
		if err != nil {
			continue
		}
		var lastEnd time.Time
		for _, item := range items {
			if item.Type == models.ItemTypeBreak || item.SubjectName != exam.Subject {
				continue
			}
			if item.End.After(lastEnd) {
				lastEnd = item.End
			}
		}
		if lastEnd.IsZero() {
			continue
		}
		cutoff := examDate.AddDate(0, 0, -2)
		lastDay := time.Date(lastEnd.Year(), lastEnd.Month(), lastEnd.Day(), 0, 0, 0, 0, time.Local)
		if lastDay.After(cutoff) {
			violations = append(violations, fmt.Sprintf("%s must wrap up at least 2 days before its exam on %s", exam.Subject, exam.Date))
		}
	}
	return violations
}
