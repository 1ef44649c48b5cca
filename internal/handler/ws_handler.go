package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/service"
	ws "github.com/stemsi/quiz-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live quiz statistics over WebSocket.
type WSHandler struct {
	statsService *service.StatisticsService
	feed         StatsSubscriber
	log          zerolog.Logger
	upgrader     websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(statsService *service.StatisticsService, feed StatsSubscriber, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		statsService: statsService,
		feed:         feed,
		log:          log.With().Str("component", "ws_handler").Logger(),
		upgrader:     buildUpgrader(allowedOrigins),
	}
}

// StatisticsStream godoc
// WS /ws/v1/quizzes/:quiz_id/statistics
// Sends a snapshot on connect and a new aggregate after every persisted
// completion. Clients may send {"action":"ping"} or {"action":"refresh"}.
func (h *WSHandler) StatisticsStream(c *gin.Context) {
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	reqCtx := c.Request.Context()

	stats, err := h.statsService.ForQuiz(reqCtx, quizID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("quiz_id", quizID.String()).Logger()
	wsLog.Info().Msg("Client connected")

	if err := ws.WriteTyped(conn, ws.StatsResponse{Event: ws.EventSnapshot, QuizID: quizID, Statistics: stats}); err != nil {
		return
	}

	pubsub := h.feed.Subscribe(reqCtx, quizID)
	defer pubsub.Close()
	feed := pubsub.Channel()

	// gorilla allows one concurrent reader and one concurrent writer, so the
	// reader only forwards actions and every write happens in the loop below.
	actions := make(chan ws.Action)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}
			select {
			case actions <- msg.Action:
			case <-reqCtx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-reqCtx.Done():
			return
		case <-done:
			return

		case action := <-actions:
			switch action {
			case ws.ActionPing:
				ws.WritePong(conn)
			case ws.ActionRefresh:
				h.push(conn, wsLog, quizID, 0)
			default:
				wsLog.Warn().Str("action", string(action)).Msg("Unknown action")
				ws.WriteError(conn, "unknown action: "+string(action))
			}

		case msg, ok := <-feed:
			if !ok {
				return
			}
			h.push(conn, wsLog, quizID, addedCount(msg.Payload))
		}
	}
}

func (h *WSHandler) push(conn *websocket.Conn, wsLog zerolog.Logger, quizID uuid.UUID, added int) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	stats, err := h.statsService.ForQuiz(ctx, quizID)
	if err != nil {
		wsLog.Warn().Err(err).Msg("Failed to refresh statistics")
		ws.WriteError(conn, "statistics unavailable")
		return
	}
	ws.WriteTyped(conn, ws.StatsResponse{Event: ws.EventStats, QuizID: quizID, Statistics: stats, Added: added})
}
