package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mindmate-app/planner-api/internal/models"
)

// RetryFeedback is appended to the prompt after a rejected candidate. The
// wording stays generic on purpose; the rule list above it is the contract.
const RetryFeedback = "\nThe last plan violated the rules above. Regenerate strictly following every rule and output ONLY JSON."

// The rule list mirrors Validate check for check, plus advisory guidance the
// oracle should honor. Keeping this text aligned with the validator is what
// makes the generate-and-check loop converge.
func promptRules(maxHoursPerDay float64) []string {
	return []string{
		`Return ONLY JSON: {"items":[...]}`,
		"Fields: title, subjectName, startISO, endISO, type",
		"type is one of study, revision, break",
		"Study and revision blocks must be exactly 60 or 120 minutes",
		"No two blocks may overlap",
		fmt.Sprintf("Max %g study hours per day", maxHoursPerDay),
		"When the daily window includes them, reserve breaks at 13-14, 17-18 and 20-21",
		"Never schedule study or revision during the required breaks",
		"Do not invent additional breaks unless the availability window excludes the fixed ones",
		"All sessions must start and end within the provided daily availability window",
		"Finish each subject at least 2 days before its exam",
		"Breaks must have subjectName=\"\"",
	}
}

// BuildPrompt renders the request inputs and the constraint rules into the
// single instruction payload sent to the oracle.
func BuildPrompt(subjects []models.Subject, exams []models.Exam, w models.AvailabilityWindow, preferences map[string]any) string {
	if exams == nil {
		exams = []models.Exam{}
	}
	if preferences == nil {
		preferences = map[string]any{}
	}

	var b strings.Builder
	b.WriteString("You are a strict study planner.\n")
	b.WriteString("SUBJECTS: " + mustJSON(subjects) + "\n")
	b.WriteString("EXAMS: " + mustJSON(exams) + "\n")
	b.WriteString("AVAILABILITY: " + mustJSON(w) + "\n")
	b.WriteString("PREFERENCES: " + mustJSON(preferences) + "\n")
	b.WriteString("Rules:\n- ")
	b.WriteString(strings.Join(promptRules(w.MaxHoursPerDay), "\n- "))
	b.WriteString("\nOutput only JSON.")
	return b.String()
}

func mustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(raw)
}
