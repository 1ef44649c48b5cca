package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/quiz-backend/internal/config"
	"github.com/stemsi/quiz-backend/internal/model"
)

// RunnerCache stores respondent payloads so the runner never reads the
// answer key or hits PostgreSQL.
type RunnerCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRunnerCache(rdb *redis.Client, ttl time.Duration) *RunnerCache {
	return &RunnerCache{rdb: rdb, ttl: ttl}
}

// Set caches p under its quiz id.
func (c *RunnerCache) Set(ctx context.Context, p *model.RunnerPayload) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := c.rdb.Set(ctx, config.CacheKey.QuizPayloadKey(p.QuizID.String()), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache payload: %w", err)
	}
	return nil
}

// Get returns the cached payload or ErrMiss.
func (c *RunnerCache) Get(ctx context.Context, quizID uuid.UUID) (*model.RunnerPayload, error) {
	raw, err := c.rdb.Get(ctx, config.CacheKey.QuizPayloadKey(quizID.String())).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("get payload: %w", err)
	}

	var p model.RunnerPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	return &p, nil
}

// Delete drops the cached payload of a quiz.
func (c *RunnerCache) Delete(ctx context.Context, quizID uuid.UUID) error {
	return c.rdb.Del(ctx, config.CacheKey.QuizPayloadKey(quizID.String())).Err()
}
