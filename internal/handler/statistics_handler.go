package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/cache"
	"github.com/stemsi/quiz-backend/internal/quiz"
	"github.com/stemsi/quiz-backend/internal/response"
	"github.com/stemsi/quiz-backend/internal/service"
)

const (
	keepAliveInterval = 30 * time.Second
	refreshTimeout    = 5 * time.Second // a slow aggregate must not stall the stream loop
)

// StatsSubscriber opens the per-quiz completion feed.
type StatsSubscriber interface {
	Subscribe(ctx context.Context, quizID uuid.UUID) *redis.PubSub
}

// StatisticsHandler serves aggregate statistics, once or as a live stream.
type StatisticsHandler struct {
	statsService *service.StatisticsService
	feed         StatsSubscriber
	log          zerolog.Logger
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(statsService *service.StatisticsService, feed StatsSubscriber, log zerolog.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		statsService: statsService,
		feed:         feed,
		log:          log.With().Str("component", "statistics_handler").Logger(),
	}
}

// GetStatistics godoc
// GET /api/v1/quizzes/:quiz_id/statistics
// Returns null statistics when the quiz has no completions.
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	stats, err := h.statsService.ForQuiz(c.Request.Context(), quizID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"statistics": stats})
}

// StreamStatisticsSSE godoc
// GET /api/v1/quizzes/:quiz_id/statistics/stream
// Sends a snapshot, then a fresh aggregate whenever completions are persisted.
func (h *StatisticsHandler) StreamStatisticsSSE(c *gin.Context) {
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	reqCtx := c.Request.Context()

	// Fails fast with a JSON error before any stream headers go out.
	stats, err := h.statsService.ForQuiz(reqCtx, quizID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.SSEvent("snapshot", gin.H{"quizId": quizID, "statistics": stats})
	c.Writer.Flush()

	pubsub := h.feed.Subscribe(reqCtx, quizID)
	defer pubsub.Close()
	ch := pubsub.Channel()

	keepAliveTicker := time.NewTicker(keepAliveInterval)
	defer keepAliveTicker.Stop()

	h.log.Info().Str("quiz_id", quizID.String()).Msg("Client attached to statistics SSE")

	for {
		select {
		case <-reqCtx.Done():
			h.log.Info().Str("quiz_id", quizID.String()).Msg("Client detached from statistics SSE")
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			stats, err := h.refresh(reqCtx, quizID)
			if err != nil {
				h.log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("Failed to refresh statistics")
				continue
			}
			c.SSEvent("stats", gin.H{"quizId": quizID, "statistics": stats, "added": addedCount(msg.Payload)})
			c.Writer.Flush()

		case <-keepAliveTicker.C:
			c.SSEvent("ping", gin.H{})
			c.Writer.Flush()
		}
	}
}

// refresh recomputes the aggregate with a bounded timeout.
func (h *StatisticsHandler) refresh(parent context.Context, quizID uuid.UUID) (*quiz.Statistics, error) {
	ctx, cancel := context.WithTimeout(parent, refreshTimeout)
	defer cancel()
	return h.statsService.ForQuiz(ctx, quizID)
}

// addedCount reads the number of new completions from a feed payload.
func addedCount(payload string) int {
	var ev cache.StatsEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return 0
	}
	return ev.Added
}
