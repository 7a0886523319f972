package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/mindmate-app/planner-api/internal/models"
	"github.com/mindmate-app/planner-api/internal/planner"
	"github.com/mindmate-app/planner-api/pkg/config"
)

const extractionPrompt = `Extract exam dates as {"exams":[{"subject":"...","date":"YYYY-MM-DD"}]} ONLY.`

// GeminiClient implements Completer and ExamExtractor against the Gemini API.
// Credentials and model names come from explicit config, never from ambient
// environment reads.
type GeminiClient struct {
	client      *genai.Client
	model       string
	visionModel string
}

// NewGeminiClient builds the client. An empty API key is an error; callers
// that want a degraded mode should skip construction instead.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = model
	}

	return &GeminiClient{client: client, model: model, visionModel: visionModel}, nil
}

// Complete sends the prompt to the text model and returns the raw reply.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	return resp.Text(), nil
}

// ExtractExams sends the datesheet image to the vision model and parses the
// exam list out of its reply.
func (c *GeminiClient) ExtractExams(ctx context.Context, image []byte, mimeType string) ([]models.Exam, error) {
	if mimeType == "" {
		mimeType = "image/png"
	}

	parts := []*genai.Part{
		genai.NewPartFromText(extractionPrompt),
		genai.NewPartFromBytes(image, mimeType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, c.visionModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini exam extraction: %w", err)
	}

	raw, ok := planner.FirstJSONObject(resp.Text())
	if !ok {
		return nil, fmt.Errorf("no JSON object in extraction reply")
	}

	var payload struct {
		Exams []models.Exam `json:"exams"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode extraction reply: %w", err)
	}
	return payload.Exams, nil
}
