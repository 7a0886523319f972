package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mindmate-app/planner-api/internal/dto"
	appErrors "github.com/mindmate-app/planner-api/pkg/errors"
)

// PlanCacheRepository keeps each caller's most recently accepted plan in
// Redis. Plans are a confirmation artifact, not a system of record, so a TTL
// cache is the whole persistence story.
type PlanCacheRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewPlanCacheRepository constructs the repository. A nil client degrades to
// a no-op store: generation still works, latest-plan lookups miss.
func NewPlanCacheRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) *PlanCacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanCacheRepository{client: client, ttl: ttl, logger: logger}
}

// SaveLatest stores the accepted plan for the user.
func (r *PlanCacheRepository) SaveLatest(ctx context.Context, userID string, plan *dto.StudyPlanResponse) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshal plan for %s: %w", userID, err)
	}

	if err := r.client.Set(ctx, planKey(userID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", planKey(userID), err)
	}
	return nil
}

// Latest returns the user's most recent accepted plan.
func (r *PlanCacheRepository) Latest(ctx context.Context, userID string) (*dto.StudyPlanResponse, error) {
	if r.client == nil {
		return nil, appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, planKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", planKey(userID), err)
	}

	var plan dto.StudyPlanResponse
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("unmarshal cached plan for %s: %w", userID, err)
	}
	return &plan, nil
}

func planKey(userID string) string {
	return "studyplan:latest:" + userID
}
