package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/quiz-backend/internal/config"
	"github.com/stemsi/quiz-backend/internal/model"
)

// CompletionQueue is the fast lane for submissions: completions are pushed to
// a Redis list and written to PostgreSQL in batches by the completion worker.
type CompletionQueue struct {
	rdb *redis.Client
}

func NewCompletionQueue(rdb *redis.Client) *CompletionQueue {
	return &CompletionQueue{rdb: rdb}
}

func (q *CompletionQueue) Enqueue(ctx context.Context, c *model.Completion) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal completion: %w", err)
	}
	if err := q.rdb.RPush(ctx, config.WorkerKey.PersistCompletionsQueue, raw).Err(); err != nil {
		return fmt.Errorf("enqueue completion: %w", err)
	}
	return nil
}

// Len reports how many completions wait to be persisted.
func (q *CompletionQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, config.WorkerKey.PersistCompletionsQueue).Result()
}
