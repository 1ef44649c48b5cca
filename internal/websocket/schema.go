package websocket

import (
	"github.com/google/uuid"
	"github.com/stemsi/quiz-backend/internal/quiz"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing    Action = "ping"
	ActionRefresh Action = "refresh"
)

// RequestEnvelope is the only message shape a statistics client sends.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventSnapshot Event = "snapshot"
	EventStats    Event = "stats"
	EventPong     Event = "pong"
)

// StatsResponse carries the current aggregate of a quiz. Statistics is null
// until the quiz has its first completion. Added is the number of
// completions that triggered the push, zero for snapshots and refreshes.
type StatsResponse struct {
	Event      Event            `json:"event"`
	QuizID     uuid.UUID        `json:"quizId"`
	Statistics *quiz.Statistics `json:"statistics"`
	Added      int              `json:"added,omitempty"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
