package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindmate-app/planner-api/internal/dto"
	"github.com/mindmate-app/planner-api/internal/models"
	appErrors "github.com/mindmate-app/planner-api/pkg/errors"
	"github.com/mindmate-app/planner-api/pkg/response"
)

const maxSubjects = 64

type planGenerator interface {
	Generate(ctx context.Context, userID string, req dto.GeneratePlanRequest) (*dto.StudyPlanResponse, error)
	Latest(ctx context.Context, userID string) (*dto.StudyPlanResponse, error)
}

type planExporter interface {
	Render(items []models.PlanItem) ([]byte, error)
}

// PlanHandler exposes the study plan endpoints.
type PlanHandler struct {
	service planGenerator
	csv     planExporter
	pdf     planExporter
}

// NewPlanHandler constructs the handler.
func NewPlanHandler(svc planGenerator, csv, pdf planExporter) *PlanHandler {
	return &PlanHandler{service: svc, csv: csv, pdf: pdf}
}

// Generate godoc
// @Summary Generate a validated study plan
// @Description Runs the bounded generate-validate loop against the language model and returns only plans that pass every scheduling rule.
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.GeneratePlanRequest true "Plan generation payload"
// @Success 200 {object} response.Envelope
// @Router /studyplan [post]
func (h *PlanHandler) Generate(c *gin.Context) {
	var req dto.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}
	if len(req.Subjects) > maxSubjects {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "subjects exceeds supported limit"))
		return
	}
	plan, err := h.service.Generate(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Latest godoc
// @Summary Get the caller's most recent accepted plan
// @Tags Planner
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /studyplan/latest [get]
func (h *PlanHandler) Latest(c *gin.Context) {
	plan, err := h.service.Latest(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Export godoc
// @Summary Export the latest plan as CSV or PDF
// @Tags Planner
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /studyplan/export [get]
func (h *PlanHandler) Export(c *gin.Context) {
	plan, err := h.service.Latest(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	format := c.DefaultQuery("format", "csv")
	var (
		exporter    planExporter
		contentType string
	)
	switch format {
	case "csv":
		exporter = h.csv
		contentType = "text/csv"
	case "pdf":
		exporter = h.pdf
		contentType = "application/pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}

	payload, err := exporter.Render(plan.Items)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export"))
		return
	}

	filename := fmt.Sprintf("studyplan-%s.%s", plan.PlanID, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
