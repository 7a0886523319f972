package dto

import (
	"encoding/json"
	"strings"

	"github.com/mindmate-app/planner-api/internal/models"
)

// SubjectInput accepts either a bare name string or a {"name": ...} object,
// matching what clients actually send.
type SubjectInput struct {
	Name string `json:"name"`
}

// UnmarshalJSON implements the string-or-object shape.
func (s *SubjectInput) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		s.Name = strings.TrimSpace(name)
		return nil
	}
	type plain SubjectInput
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(obj.Name)
	return nil
}

// AvailabilityInput is the raw availability payload before normalization.
// daily_start and daily_end are required; the rest is defaulted and clamped
// when the request window is constructed.
type AvailabilityInput struct {
	Days           *int     `json:"days"`
	DailyStart     string   `json:"daily_start" validate:"required"`
	DailyEnd       string   `json:"daily_end" validate:"required"`
	StartDate      string   `json:"start_date"`
	MaxHoursPerDay *float64 `json:"max_hours_per_day"`
}

// GeneratePlanRequest drives one synthesis run. Exams distinguishes absent
// (nil, may trigger image extraction) from explicitly empty. ExamImage names a
// previously uploaded datesheet file. Preferences is opaque and passed through
// to the prompt uninterpreted.
type GeneratePlanRequest struct {
	Subjects     []SubjectInput    `json:"subjects" validate:"min=1"`
	Availability AvailabilityInput `json:"availability" validate:"required"`
	Exams        *[]models.Exam    `json:"exams"`
	ExamImage    string            `json:"exam_image"`
	Preferences  map[string]any    `json:"preferences"`
}

// StudyPlanResponse echoes the accepted plan plus the parameters actually
// used, so the caller can confirm the normalization applied.
type StudyPlanResponse struct {
	PlanID       string                    `json:"planId"`
	Items        []models.PlanItem         `json:"items"`
	Exams        []models.Exam             `json:"exams"`
	Availability models.AvailabilityWindow `json:"availability"`
	Preferences  map[string]any            `json:"preferences"`
	Attempts     int                       `json:"attempts"`
}
