package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindmate-app/planner-api/internal/models"
)

func sampleItems() []models.PlanItem {
	return []models.PlanItem{
		{
			Title:       "Lunch Break",
			SubjectName: "",
			Start:       time.Date(2025, 3, 10, 13, 0, 0, 0, time.Local),
			End:         time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local),
			Type:        models.ItemTypeBreak,
		},
		{
			Title:       "Math deep dive",
			SubjectName: "Math",
			Start:       time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local),
			End:         time.Date(2025, 3, 10, 11, 0, 0, 0, time.Local),
			Type:        models.ItemTypeStudy,
		},
		{
			Title:       "Physics recap",
			SubjectName: "Physics",
			Start:       time.Date(2025, 3, 11, 9, 0, 0, 0, time.Local),
			End:         time.Date(2025, 3, 11, 10, 0, 0, 0, time.Local),
			Type:        models.ItemTypeRevision,
		},
	}
}

func TestCSVRenderSortsByStart(t *testing.T) {
	payload, err := NewCSVExporter().Render(sampleItems())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"date", "start", "end", "type", "subject", "title"}, records[0])
	assert.Equal(t, []string{"2025-03-10", "09:00", "11:00", "study", "Math", "Math deep dive"}, records[1])
	assert.Equal(t, []string{"2025-03-10", "13:00", "14:00", "break", "", "Lunch Break"}, records[2])
	assert.Equal(t, []string{"2025-03-11", "09:00", "10:00", "revision", "Physics", "Physics recap"}, records[3])
}

func TestCSVRenderEmptyPlan(t *testing.T) {
	payload, err := NewCSVExporter().Render(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestPDFRender(t *testing.T) {
	payload, err := NewPDFExporter().Render(sampleItems())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(payload, []byte("%PDF")), "output must be a PDF document")
}

func TestPDFRenderRejectsEmptyPlan(t *testing.T) {
	_, err := NewPDFExporter().Render(nil)
	require.Error(t, err)
}
