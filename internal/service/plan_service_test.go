package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindmate-app/planner-api/internal/dto"
	"github.com/mindmate-app/planner-api/internal/models"
	"github.com/mindmate-app/planner-api/internal/planner"
	"github.com/mindmate-app/planner-api/pkg/config"
	appErrors "github.com/mindmate-app/planner-api/pkg/errors"
)

type oracleStub struct {
	replies []string
	err     error
	prompts []string
}

func (o *oracleStub) Complete(ctx context.Context, prompt string) (string, error) {
	o.prompts = append(o.prompts, prompt)
	if o.err != nil {
		return "", o.err
	}
	idx := len(o.prompts) - 1
	if idx >= len(o.replies) {
		idx = len(o.replies) - 1
	}
	return o.replies[idx], nil
}

type storeStub struct {
	saved  map[string]*dto.StudyPlanResponse
	latest *dto.StudyPlanResponse
}

func (s *storeStub) SaveLatest(ctx context.Context, userID string, plan *dto.StudyPlanResponse) error {
	if s.saved == nil {
		s.saved = map[string]*dto.StudyPlanResponse{}
	}
	s.saved[userID] = plan
	return nil
}

func (s *storeStub) Latest(ctx context.Context, userID string) (*dto.StudyPlanResponse, error) {
	if s.latest == nil {
		return nil, appErrors.ErrCacheMiss
	}
	return s.latest, nil
}

type extractorStub struct {
	exams  []models.Exam
	err    error
	called bool
}

func (e *extractorStub) ExtractExams(ctx context.Context, image []byte, mimeType string) ([]models.Exam, error) {
	e.called = true
	return e.exams, e.err
}

type imageStub struct {
	data []byte
	err  error
}

func (s *imageStub) ReadFile(owner, name string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

const validReply = `{"items":[
  {"title":"Math deep dive","subjectName":"Math","startISO":"2025-03-10T09:00:00","endISO":"2025-03-10T11:00:00","type":"study"},
  {"title":"Physics intro","subjectName":"Physics","startISO":"2025-03-10T11:00:00","endISO":"2025-03-10T12:00:00","type":"study"},
  {"title":"Lunch Break","subjectName":"","startISO":"2025-03-10T13:00:00","endISO":"2025-03-10T14:00:00","type":"break"},
  {"title":"Math recap","subjectName":"Math","startISO":"2025-03-10T14:00:00","endISO":"2025-03-10T16:00:00","type":"revision"},
  {"title":"Snack Break","subjectName":"","startISO":"2025-03-10T17:00:00","endISO":"2025-03-10T18:00:00","type":"break"},
  {"title":"Dinner Break","subjectName":"","startISO":"2025-03-10T20:00:00","endISO":"2025-03-10T21:00:00","type":"break"}
]}`

// invalidReply carries a 90 minute block, which no valid plan may contain.
const invalidReply = `{"items":[
  {"title":"Math sprint","subjectName":"Math","startISO":"2025-03-10T09:00:00","endISO":"2025-03-10T10:30:00","type":"study"}
]}`

func planRequest() dto.GeneratePlanRequest {
	days := 1
	return dto.GeneratePlanRequest{
		Subjects: []dto.SubjectInput{{Name: "Math"}, {Name: "Physics"}},
		Availability: dto.AvailabilityInput{
			Days:       &days,
			DailyStart: "09:00",
			DailyEnd:   "21:30",
			StartDate:  "2025-03-10",
		},
	}
}

func newTestService(oracle *oracleStub, store *storeStub) *PlanService {
	return NewPlanService(oracle, nil, store, nil, nil, nil, nil, config.PlannerConfig{MaxAttempts: 3})
}

func TestGenerateAcceptsFirstValidCandidate(t *testing.T) {
	oracle := &oracleStub{replies: []string{validReply}}
	store := &storeStub{}
	svc := newTestService(oracle, store)

	plan, err := svc.Generate(context.Background(), "user-1", planRequest())
	require.NoError(t, err)
	require.Len(t, oracle.prompts, 1)
	require.Len(t, plan.Items, 6)
	assert.Equal(t, 1, plan.Attempts)
	assert.NotEmpty(t, plan.PlanID)
	assert.Equal(t, plan, store.saved["user-1"])
}

func TestGenerateRetriesWithFeedbackUntilValid(t *testing.T) {
	oracle := &oracleStub{replies: []string{invalidReply, invalidReply, validReply}}
	svc := newTestService(oracle, &storeStub{})

	plan, err := svc.Generate(context.Background(), "user-1", planRequest())
	require.NoError(t, err)
	require.Len(t, oracle.prompts, 3)
	assert.Equal(t, 3, plan.Attempts)

	assert.NotContains(t, oracle.prompts[0], planner.RetryFeedback)
	assert.Contains(t, oracle.prompts[1], planner.RetryFeedback)
	// Feedback accumulates, one suffix per rejection.
	assert.Equal(t, 2, strings.Count(oracle.prompts[2], planner.RetryFeedback))
}

func TestGenerateFailsAfterAttemptBudget(t *testing.T) {
	oracle := &oracleStub{replies: []string{invalidReply}}
	svc := newTestService(oracle, &storeStub{})

	_, err := svc.Generate(context.Background(), "user-1", planRequest())
	require.Error(t, err)
	require.Len(t, oracle.prompts, 3)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPlanGeneration.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "3 attempts")
}

func TestGenerateMalformedReplyConsumesAttempt(t *testing.T) {
	oracle := &oracleStub{replies: []string{"I cannot produce JSON today.", validReply}}
	svc := newTestService(oracle, &storeStub{})

	plan, err := svc.Generate(context.Background(), "user-1", planRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Attempts)
}

func TestGenerateOracleErrorPropagatesImmediately(t *testing.T) {
	oracle := &oracleStub{err: errors.New("connection reset")}
	svc := newTestService(oracle, &storeStub{})

	_, err := svc.Generate(context.Background(), "user-1", planRequest())
	require.Error(t, err)
	require.Len(t, oracle.prompts, 1, "transport errors must not be retried")
	assert.Equal(t, appErrors.ErrOracle.Code, appErrors.FromError(err).Code)
}

func TestGenerateRejectsEmptySubjects(t *testing.T) {
	oracle := &oracleStub{replies: []string{validReply}}
	svc := newTestService(oracle, &storeStub{})

	req := planRequest()
	req.Subjects = []dto.SubjectInput{{Name: "  "}}

	_, err := svc.Generate(context.Background(), "user-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, oracle.prompts, "validation failures must not reach the oracle")
}

func TestGenerateEnforcesExamDeadlines(t *testing.T) {
	oracle := &oracleStub{replies: []string{validReply}}
	svc := newTestService(oracle, &storeStub{})

	req := planRequest()
	exams := []models.Exam{{Subject: "Math", Date: "2025-03-11"}}
	req.Exams = &exams

	_, err := svc.Generate(context.Background(), "user-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPlanGeneration.Code, appErrors.FromError(err).Code)
	require.Len(t, oracle.prompts, 3)
}

func TestGenerateClampsAvailability(t *testing.T) {
	oracle := &oracleStub{replies: []string{validReply}}
	svc := newTestService(oracle, &storeStub{})

	days := 0
	tooMany := 12.0
	req := planRequest()
	req.Availability.Days = &days
	req.Availability.MaxHoursPerDay = &tooMany

	plan, err := svc.Generate(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Availability.Days)
	assert.InDelta(t, 8.0, plan.Availability.MaxHoursPerDay, 1e-9)
}

func TestGenerateClampsCapToWindowLength(t *testing.T) {
	// 09:00 through 13:00 is a four hour window; an eight hour cap cannot
	// exceed it.
	oracle := &oracleStub{replies: []string{`{"items":[
  {"title":"Math deep dive","subjectName":"Math","startISO":"2025-03-10T09:00:00","endISO":"2025-03-10T11:00:00","type":"study"},
  {"title":"Physics intro","subjectName":"Physics","startISO":"2025-03-10T11:00:00","endISO":"2025-03-10T12:00:00","type":"study"}
]}`}}
	svc := newTestService(oracle, &storeStub{})

	req := planRequest()
	req.Availability.DailyEnd = "13:00"

	plan, err := svc.Generate(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, plan.Availability.MaxHoursPerDay, 1e-9)
}

func TestGenerateRejectsBadClockStrings(t *testing.T) {
	oracle := &oracleStub{replies: []string{validReply}}
	svc := newTestService(oracle, &storeStub{})

	req := planRequest()
	req.Availability.DailyStart = "9am"

	_, err := svc.Generate(context.Background(), "user-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGenerateExtractsExamsFromImage(t *testing.T) {
	oracle := &oracleStub{replies: []string{validReply}}
	extractor := &extractorStub{exams: []models.Exam{{Subject: "Math", Date: "2025-04-01"}}}
	images := &imageStub{data: []byte("fake-png")}
	svc := NewPlanService(oracle, extractor, &storeStub{}, images, nil, nil, nil, config.PlannerConfig{MaxAttempts: 3})

	req := planRequest()
	req.ExamImage = "datesheet.png"

	plan, err := svc.Generate(context.Background(), "user-1", req)
	require.NoError(t, err)
	require.True(t, extractor.called)
	require.Len(t, plan.Exams, 1)
	assert.Equal(t, "Math", plan.Exams[0].Subject)
}

func TestGenerateExplicitExamsSkipExtraction(t *testing.T) {
	oracle := &oracleStub{replies: []string{validReply}}
	extractor := &extractorStub{}
	svc := NewPlanService(oracle, extractor, &storeStub{}, &imageStub{}, nil, nil, nil, config.PlannerConfig{MaxAttempts: 3})

	req := planRequest()
	exams := []models.Exam{}
	req.Exams = &exams
	req.ExamImage = "datesheet.png"

	_, err := svc.Generate(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.False(t, extractor.called, "explicit exams take precedence over the image")
}

func TestLatestMapsCacheMissToNotFound(t *testing.T) {
	svc := newTestService(&oracleStub{}, &storeStub{})

	_, err := svc.Latest(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLatestReturnsCachedPlan(t *testing.T) {
	cached := &dto.StudyPlanResponse{PlanID: "plan-1"}
	svc := newTestService(&oracleStub{}, &storeStub{latest: cached})

	plan, err := svc.Latest(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "plan-1", plan.PlanID)
}
