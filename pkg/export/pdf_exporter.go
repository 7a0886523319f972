package export

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"

	"github.com/mindmate-app/planner-api/internal/models"
)

// PDFExporter renders plan items into a printable day-by-day timetable.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with one table section per calendar day.
func (e *PDFExporter) Render(items []models.PlanItem) ([]byte, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("pdf requires at least one plan item")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Study Plan", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	widths := []float64{25, 25, 25, 60, 55}
	headers := []string{"Start", "End", "Type", "Subject", "Title"}

	sorted := sortedByStart(items)
	for _, day := range dayKeys(sorted) {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, day, "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 9)
		for i, header := range headers {
			pdf.CellFormat(widths[i], 7, header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, item := range sorted {
			if item.Start.Format("2006-01-02") != day {
				continue
			}
			row := []string{
				item.Start.Format("15:04"),
				item.End.Format("15:04"),
				string(item.Type),
				item.SubjectName,
				item.Title,
			}
			for i, value := range row {
				pdf.CellFormat(widths[i], 7, value, "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sortedByStart(items []models.PlanItem) []models.PlanItem {
	sorted := make([]models.PlanItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })
	return sorted
}

func dayKeys(sorted []models.PlanItem) []string {
	var days []string
	seen := make(map[string]bool)
	for _, item := range sorted {
		day := item.Start.Format("2006-01-02")
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days
}
