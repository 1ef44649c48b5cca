package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/quiz-backend/internal/config"
)

// StatsEvent tells subscribers that a quiz gained persisted completions.
type StatsEvent struct {
	QuizID uuid.UUID `json:"quizId"`
	Added  int       `json:"added"`
	At     time.Time `json:"at"`
}

// StatsFeed fans completion notifications out over Redis Pub/Sub so every
// server instance can refresh its live statistics streams.
type StatsFeed struct {
	rdb *redis.Client
}

func NewStatsFeed(rdb *redis.Client) *StatsFeed {
	return &StatsFeed{rdb: rdb}
}

// Publish announces that added completions of quizID were persisted.
func (f *StatsFeed) Publish(ctx context.Context, quizID uuid.UUID, added int) error {
	raw, err := json.Marshal(StatsEvent{QuizID: quizID, Added: added, At: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal stats event: %w", err)
	}
	return f.rdb.Publish(ctx, config.CacheKey.QuizStatsChannel(quizID.String()), raw).Err()
}

// Subscribe listens to the feed of one quiz. The caller closes the returned PubSub.
func (f *StatsFeed) Subscribe(ctx context.Context, quizID uuid.UUID) *redis.PubSub {
	return f.rdb.Subscribe(ctx, config.CacheKey.QuizStatsChannel(quizID.String()))
}
