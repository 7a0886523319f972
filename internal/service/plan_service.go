package service

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mindmate-app/planner-api/internal/dto"
	"github.com/mindmate-app/planner-api/internal/models"
	"github.com/mindmate-app/planner-api/internal/planner"
	"github.com/mindmate-app/planner-api/pkg/config"
	appErrors "github.com/mindmate-app/planner-api/pkg/errors"
)

type planOracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type examExtractor interface {
	ExtractExams(ctx context.Context, image []byte, mimeType string) ([]models.Exam, error)
}

type planStore interface {
	SaveLatest(ctx context.Context, userID string, plan *dto.StudyPlanResponse) error
	Latest(ctx context.Context, userID string) (*dto.StudyPlanResponse, error)
}

type imageReader interface {
	ReadFile(owner, name string) ([]byte, error)
}

// PlanService runs the bounded generate-validate loop that turns the
// unreliable oracle into a system that either returns a certifiably valid
// schedule or fails cleanly.
type PlanService struct {
	oracle      planOracle
	extractor   examExtractor
	store       planStore
	images      imageReader
	validator   *validator.Validate
	logger      *zap.Logger
	metrics     *MetricsService
	maxAttempts int
}

// NewPlanService wires the synthesis dependencies. oracle, extractor, store
// and images may be nil; the service degrades accordingly.
func NewPlanService(
	oracle planOracle,
	extractor examExtractor,
	store planStore,
	images imageReader,
	validate *validator.Validate,
	logger *zap.Logger,
	metrics *MetricsService,
	cfg config.PlannerConfig,
) *PlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &PlanService{
		oracle:      oracle,
		extractor:   extractor,
		store:       store,
		images:      images,
		validator:   validate,
		logger:      logger,
		metrics:     metrics,
		maxAttempts: maxAttempts,
	}
}

// Generate produces a validated study plan for the request, retrying the
// oracle with failure feedback up to the configured attempt budget.
func (s *PlanService) Generate(ctx context.Context, userID string, req dto.GeneratePlanRequest) (*dto.StudyPlanResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"subjects and availability.daily_start/daily_end are required")
	}

	subjects, err := normalizeSubjects(req.Subjects)
	if err != nil {
		return nil, err
	}

	window, err := buildWindow(req.Availability)
	if err != nil {
		return nil, err
	}

	exams, err := s.resolveExams(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	preferences := req.Preferences
	if preferences == nil {
		preferences = map[string]any{}
	}

	if s.oracle == nil {
		return nil, appErrors.Clone(appErrors.ErrOracle, "plan generation requires a configured language model")
	}

	prompt := planner.BuildPrompt(subjects, exams, window, preferences)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		started := time.Now()
		raw, err := s.oracle.Complete(ctx, prompt)
		if s.metrics != nil {
			s.metrics.ObserveOracleRequest("generate_plan", err, time.Since(started))
		}
		if err != nil {
			s.observeOutcome("oracle_error", attempt)
			return nil, appErrors.Wrap(err, appErrors.ErrOracle.Code, appErrors.ErrOracle.Status, appErrors.ErrOracle.Message)
		}

		items, violations := parseCandidate(raw)
		if len(violations) == 0 {
			result := planner.Validate(items, window)
			violations = append(result.Violations, planner.CheckExamDeadlines(items, exams)...)
		}

		if len(violations) == 0 {
			resp := &dto.StudyPlanResponse{
				PlanID:       uuid.NewString(),
				Items:        items,
				Exams:        exams,
				Availability: window,
				Preferences:  preferences,
				Attempts:     attempt,
			}
			if s.store != nil {
				if err := s.store.SaveLatest(ctx, userID, resp); err != nil {
					s.logger.Warn("failed to cache accepted plan", zap.String("user", userID), zap.Error(err))
				}
			}
			s.observeOutcome("accepted", attempt)
			return resp, nil
		}

		s.logger.Info("candidate plan rejected",
			zap.Int("attempt", attempt),
			zap.Strings("violations", violations),
		)
		if attempt < s.maxAttempts {
			prompt += planner.RetryFeedback
		}
	}

	s.observeOutcome("exhausted", s.maxAttempts)
	return nil, appErrors.Clone(appErrors.ErrPlanGeneration,
		fmt.Sprintf("no valid schedule after %d attempts; tweak the inputs or try again", s.maxAttempts))
}

// Latest returns the caller's most recent accepted plan.
func (s *PlanService) Latest(ctx context.Context, userID string) (*dto.StudyPlanResponse, error) {
	if s.store == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no study plan found")
	}
	plan, err := s.store.Latest(ctx, userID)
	if err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrCacheMiss.Code {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no study plan found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest plan")
	}
	return plan, nil
}

func (s *PlanService) resolveExams(ctx context.Context, userID string, req dto.GeneratePlanRequest) ([]models.Exam, error) {
	if req.Exams != nil {
		return *req.Exams, nil
	}
	if req.ExamImage == "" {
		return []models.Exam{}, nil
	}
	if s.extractor == nil || s.images == nil {
		return nil, appErrors.Clone(appErrors.ErrOracle, "exam extraction requires a configured language model")
	}

	image, err := s.images.ReadFile(userID, req.ExamImage)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam datesheet image not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read datesheet image")
	}

	mimeType := mime.TypeByExtension(filepath.Ext(req.ExamImage))
	started := time.Now()
	exams, err := s.extractor.ExtractExams(ctx, image, mimeType)
	if s.metrics != nil {
		s.metrics.ObserveOracleRequest("extract_exams", err, time.Since(started))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExamExtraction.Code, appErrors.ErrExamExtraction.Status, appErrors.ErrExamExtraction.Message)
	}
	return exams, nil
}

func (s *PlanService) observeOutcome(result string, attempts int) {
	if s.metrics != nil {
		s.metrics.ObservePlanGeneration(result, attempts)
	}
}

func normalizeSubjects(inputs []dto.SubjectInput) ([]models.Subject, error) {
	subjects := make([]models.Subject, 0, len(inputs))
	for _, input := range inputs {
		if input.Name != "" {
			subjects = append(subjects, models.Subject{Name: input.Name})
		}
	}
	if len(subjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subjects must be a non-empty list of names or {name} objects")
	}
	return subjects, nil
}

// buildWindow establishes the availability invariants once, before the window
// reaches the synthesis loop: days at least 1, a concrete start date, and the
// hours cap clamped to min(8, window length, supplied value).
func buildWindow(in dto.AvailabilityInput) (models.AvailabilityWindow, error) {
	if in.DailyStart == "" || in.DailyEnd == "" {
		return models.AvailabilityWindow{}, appErrors.Clone(appErrors.ErrValidation, "availability.daily_start and availability.daily_end are required")
	}

	windowHours, err := planner.HoursBetween(in.DailyStart, in.DailyEnd)
	if err != nil {
		return models.AvailabilityWindow{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			"availability daily_start/daily_end must be HH:MM (24h) strings")
	}

	days := 1
	if in.Days != nil && *in.Days > 1 {
		days = *in.Days
	}

	startDate := strings.TrimSpace(in.StartDate)
	if startDate == "" {
		startDate = nowISO()
	} else if _, err := planner.ParseStartDate(startDate); err != nil {
		return models.AvailabilityWindow{}, appErrors.Clone(appErrors.ErrValidation, "availability.start_date must be an ISO date")
	}

	cap := windowHours
	if cap > 8.0 {
		cap = 8.0
	}
	if in.MaxHoursPerDay != nil && *in.MaxHoursPerDay > 0 && *in.MaxHoursPerDay < cap {
		cap = *in.MaxHoursPerDay
	}

	return models.AvailabilityWindow{
		Days:           days,
		DailyStart:     in.DailyStart,
		DailyEnd:       in.DailyEnd,
		StartDate:      startDate,
		MaxHoursPerDay: cap,
	}, nil
}

func nowISO() string {
	return time.Now().Format("2006-01-02T15:04:05")
}

type candidateItem struct {
	Title       string `json:"title"`
	SubjectName string `json:"subjectName"`
	StartISO    string `json:"startISO"`
	EndISO      string `json:"endISO"`
	Type        string `json:"type"`
}

// parseCandidate turns raw oracle output into typed plan items. Every
// structural problem becomes an ordinary violation so malformed output feeds
// the retry loop instead of erroring out.
func parseCandidate(raw string) ([]models.PlanItem, []string) {
	object, ok := planner.FirstJSONObject(raw)
	if !ok {
		return nil, []string{"reply contains no JSON object"}
	}

	var payload struct {
		Items []candidateItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(object), &payload); err != nil {
		return nil, []string{fmt.Sprintf("reply is not valid JSON: %v", err)}
	}
	if len(payload.Items) == 0 {
		return nil, []string{"reply has no items array"}
	}

	var violations []string
	items := make([]models.PlanItem, 0, len(payload.Items))
	for i, c := range payload.Items {
		start, err := planner.ParseTimestamp(c.StartISO)
		if err != nil {
			violations = append(violations, fmt.Sprintf("item %d: bad startISO %q", i, c.StartISO))
			continue
		}
		end, err := planner.ParseTimestamp(c.EndISO)
		if err != nil {
			violations = append(violations, fmt.Sprintf("item %d: bad endISO %q", i, c.EndISO))
			continue
		}
		items = append(items, models.PlanItem{
			Title:       c.Title,
			SubjectName: c.SubjectName,
			Start:       start,
			End:         end,
			Type:        models.ItemType(c.Type),
		})
	}
	return items, violations
}
