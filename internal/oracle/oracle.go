// Package oracle wraps the external generative service. Its output is
// untrusted text: callers own all parsing and validation.
package oracle

import (
	"context"

	"github.com/mindmate-app/planner-api/internal/models"
)

// Completer produces raw text for a prompt. Transport, auth and quota
// failures surface as errors; no assumption is made about the reply beyond
// "may contain a JSON object somewhere in the text".
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ExamExtractor reads exam records out of a datesheet image.
type ExamExtractor interface {
	ExtractExams(ctx context.Context, image []byte, mimeType string) ([]models.Exam, error)
}
