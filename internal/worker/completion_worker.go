package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/config"
	"github.com/stemsi/quiz-backend/internal/metrics"
	"github.com/stemsi/quiz-backend/internal/model"
)

const (
	CompletionBatchSize    = 50
	CompletionBatchTimeout = 2 * time.Second
	CompletionPollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

// CompletionWriter is the persistence side of the worker.
type CompletionWriter interface {
	Create(ctx context.Context, c *model.Completion) error
	CreateBatch(ctx context.Context, batch []model.Completion) error
}

// StatsPublisher is notified after completions are persisted.
type StatsPublisher interface {
	Publish(ctx context.Context, quizID uuid.UUID, added int) error
}

// CompletionWorker drains the completion queue into PostgreSQL in batches
// and announces every flushed quiz on the statistics feed.
type CompletionWorker struct {
	rdb       *redis.Client
	store     CompletionWriter
	publisher StatsPublisher
	log       zerolog.Logger
}

func NewCompletionWorker(rdb *redis.Client, store CompletionWriter, publisher StatsPublisher, log zerolog.Logger) *CompletionWorker {
	return &CompletionWorker{
		rdb:       rdb,
		store:     store,
		publisher: publisher,
		log:       log.With().Str("component", "completion_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start runs until ctx is cancelled, then flushes what it holds.
func (w *CompletionWorker) Start(ctx context.Context) {
	w.log.Info().Msg("CompletionWorker started")

	batch := make([]model.Completion, 0, CompletionBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= CompletionBatchSize || time.Since(lastFlush) >= CompletionBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, CompletionPollTimeout, config.WorkerKey.PersistCompletionsQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			c, ok := w.decode(item[1])
			if !ok {
				continue
			}
			batch = append(batch, c)
		}
	}
}

func (w *CompletionWorker) decode(raw string) (model.Completion, bool) {
	var c model.Completion
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		w.log.Error().Err(err).Msg("Invalid JSON payload, dropping")
		return model.Completion{}, false
	}
	if c.ID == uuid.Nil || c.QuizID == uuid.Nil {
		w.log.Error().Msg("Completion without id or quiz id, dropping")
		return model.Completion{}, false
	}
	if c.TimeTaken < 0 || c.TimeTaken > model.MaxTimeTaken {
		w.log.Error().Int("time_taken", c.TimeTaken).Str("completion_id", c.ID.String()).Msg("Completion time out of range, dropping")
		return model.Completion{}, false
	}
	return c, true
}

// ----------------------------------------------------------------
// Batch insert with per-row fallback
// ----------------------------------------------------------------

func (w *CompletionWorker) flushSafe(ctx context.Context, batch []model.Completion) {
	if len(batch) == 0 {
		return
	}

	persisted := make(map[uuid.UUID]int)

	if err := w.store.CreateBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("size", len(batch)).Msg("bulk completion insert failed, using fallback")

		for i := range batch {
			c := &batch[i]
			if err := w.store.Create(ctx, c); err != nil {
				w.log.Error().Err(err).Str("completion_id", c.ID.String()).Msg("persistSingle failed, requeueing")
				w.requeue(ctx, c)
				continue
			}
			metrics.CompletionsPersisted.WithLabelValues(metrics.PathSingle).Inc()
			persisted[c.QuizID]++
		}
	} else {
		metrics.CompletionsPersisted.WithLabelValues(metrics.PathBatch).Add(float64(len(batch)))
		for _, c := range batch {
			persisted[c.QuizID]++
		}
	}

	w.announce(ctx, persisted)
}

func (w *CompletionWorker) requeue(ctx context.Context, c *model.Completion) {
	raw, err := json.Marshal(c)
	if err != nil {
		w.log.Error().Err(err).Str("completion_id", c.ID.String()).Msg("Cannot requeue completion")
		return
	}
	if err := w.rdb.RPush(ctx, config.WorkerKey.PersistCompletionsQueue, raw).Err(); err != nil {
		w.log.Error().Err(err).Str("completion_id", c.ID.String()).Msg("Requeue failed, completion lost")
	}
}

func (w *CompletionWorker) announce(ctx context.Context, persisted map[uuid.UUID]int) {
	for quizID, n := range persisted {
		if err := w.publisher.Publish(ctx, quizID, n); err != nil {
			w.log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("Failed to publish stats event")
		}
	}
}
