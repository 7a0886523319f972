package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/mindmate-app/planner-api/internal/models"
)

var csvHeaders = []string{"date", "start", "end", "type", "subject", "title"}

// CSVExporter renders plan items into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the plan, one row per block in start
// order.
func (e *CSVExporter) Render(items []models.PlanItem) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, item := range sortedByStart(items) {
		record := []string{
			item.Start.Format("2006-01-02"),
			item.Start.Format("15:04"),
			item.End.Format("15:04"),
			string(item.Type),
			item.SubjectName,
			item.Title,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
