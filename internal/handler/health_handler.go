package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/response"
)

// Pinger reports whether the backing stores are reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// QueueDepth reports how many completions wait for the background writer.
type QueueDepth interface {
	Len(ctx context.Context) (int64, error)
}

// HealthHandler serves the liveness probe.
type HealthHandler struct {
	pinger    Pinger
	queue     QueueDepth
	startTime time.Time
	log       zerolog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(pinger Pinger, queue QueueDepth, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		pinger:    pinger,
		queue:     queue,
		startTime: time.Now(),
		log:       log.With().Str("component", "health_handler").Logger(),
	}
}

// Health godoc
// GET /health
// Returns 503 when PostgreSQL or Redis cannot be reached.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.pinger.Ping(ctx); err != nil {
		h.log.Warn().Err(err).Msg("Health check failed")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrUnavailable)
		return
	}

	pending, err := h.queue.Len(ctx)
	if err != nil {
		pending = -1
	}

	response.Success(c, http.StatusOK, gin.H{
		"status":              "ok",
		"uptime":              time.Since(h.startTime).Round(time.Second).String(),
		"pending_completions": pending,
	})
}
