package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stemsi/quiz-backend/internal/model"
)

// QuizStore persists quizzes. Missing quizzes are reported as repository.ErrNotFound.
type QuizStore interface {
	Create(ctx context.Context, q *model.Quiz) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
	Update(ctx context.Context, q *model.Quiz) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]model.Quiz, int, error)
}

// CompletionStore persists completions verbatim.
type CompletionStore interface {
	Create(ctx context.Context, c *model.Completion) error
	CreateBatch(ctx context.Context, batch []model.Completion) error
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Completion, error)
	CountByQuiz(ctx context.Context, quizID uuid.UUID) (int, error)
	CountByQuizzes(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

// RunnerCache holds respondent payloads. Get reports cache.ErrMiss when absent.
type RunnerCache interface {
	Set(ctx context.Context, p *model.RunnerPayload) error
	Get(ctx context.Context, quizID uuid.UUID) (*model.RunnerPayload, error)
	Delete(ctx context.Context, quizID uuid.UUID) error
}

// DraftStore holds authoring drafts. Get and Delete report cache.ErrMiss when absent.
type DraftStore interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Draft, error)
	Save(ctx context.Context, d *model.Draft) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompletionQueue hands completions to the background writer.
type CompletionQueue interface {
	Enqueue(ctx context.Context, c *model.Completion) error
}

// StatsPublisher announces newly persisted completions of a quiz.
type StatsPublisher interface {
	Publish(ctx context.Context, quizID uuid.UUID, added int) error
}
