package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/quiz-backend/internal/config"
	"github.com/stemsi/quiz-backend/internal/model"
)

// testRedis connects to TEST_REDIS_URL and skips when it is unset.
func testRedis(t *testing.T) *redis.Client {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	rdb := redis.NewClient(opt)
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return rdb
}

func TestDraftStoreRoundTrip(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	store := NewDraftStore(rdb, time.Minute)

	d := &model.Draft{
		ID:   uuid.New(),
		Name: "Draft",
		Questions: []model.Question{
			{ID: 1, Text: "Q", Body: &model.MultipleBody{Options: []model.Option{{ID: 1, Text: "A"}}, Correct: []int{1}}},
		},
	}
	require.NoError(t, store.Save(ctx, d))

	ttl, err := rdb.TTL(ctx, config.CacheKey.DraftKey(d.ID.String())).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.Questions, got.Questions)

	require.NoError(t, store.Delete(ctx, d.ID))
	_, err = store.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrMiss)
	assert.ErrorIs(t, store.Delete(ctx, d.ID), ErrMiss)
}

func TestRunnerCacheMiss(t *testing.T) {
	rdb := testRedis(t)
	ctx := context.Background()
	c := NewRunnerCache(rdb, time.Minute)

	_, err := c.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrMiss)

	p := &model.RunnerPayload{QuizID: uuid.New(), Name: "Runner", Questions: []model.QuestionForRunner{}}
	require.NoError(t, c.Set(ctx, p))
	got, err := c.Get(ctx, p.QuizID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	require.NoError(t, c.Delete(ctx, p.QuizID))
	_, err = c.Get(ctx, p.QuizID)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestStatsFeedDelivers(t *testing.T) {
	rdb := testRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	feed := NewStatsFeed(rdb)
	quizID := uuid.New()

	sub := feed.Subscribe(ctx, quizID)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, feed.Publish(ctx, quizID, 3))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg.Payload, quizID.String())
	assert.Contains(t, msg.Payload, `"added":3`)
}
