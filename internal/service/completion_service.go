package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/metrics"
	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/quiz"
)

// SubmitResult is what a respondent gets back after finishing a quiz.
type SubmitResult struct {
	Completion   model.Completion `json:"completion"`
	Score        quiz.Score       `json:"score"`
	CorrectRatio float64          `json:"correctRatio"`
}

// CompletionService accepts submissions and reads stored completions.
type CompletionService struct {
	quizzes     QuizStore
	completions CompletionStore
	queue       CompletionQueue
	publisher   StatsPublisher
	now         func() time.Time
	log         zerolog.Logger
}

// NewCompletionService creates a new CompletionService.
func NewCompletionService(
	quizzes QuizStore,
	completions CompletionStore,
	queue CompletionQueue,
	publisher StatsPublisher,
	log zerolog.Logger,
) *CompletionService {
	return &CompletionService{
		quizzes:     quizzes,
		completions: completions,
		queue:       queue,
		publisher:   publisher,
		now:         time.Now,
		log:         log.With().Str("component", "completion_service").Logger(),
	}
}

// Submit grades the responses against the current quiz and hands the
// completion to the persistence queue. When the queue is unavailable the
// completion is written synchronously instead.
func (s *CompletionService) Submit(ctx context.Context, quizID uuid.UUID, req *model.SubmitCompletionRequest) (*SubmitResult, error) {
	q, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	responses := req.Responses
	if responses == nil {
		responses = []model.Response{}
	}
	timeTaken := 0
	if req.TimeTaken != nil {
		timeTaken = *req.TimeTaken
	}

	c := model.Completion{
		ID:          uuid.New(),
		QuizID:      quizID,
		Responses:   responses,
		TimeTaken:   timeTaken,
		CompletedAt: s.now().UTC(),
	}
	score := quiz.GradeCompletion(q, &c)

	if err := s.queue.Enqueue(ctx, &c); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("Completion queue unavailable, writing directly")
		if err := s.completions.Create(ctx, &c); err != nil {
			return nil, fmt.Errorf("persist completion: %w", err)
		}
		metrics.CompletionsPersisted.WithLabelValues(metrics.PathDirect).Inc()
		if err := s.publisher.Publish(ctx, quizID, 1); err != nil {
			s.log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("Failed to publish stats event")
		}
	}

	metrics.CompletionsSubmitted.Inc()
	metrics.CompletionScore.Observe(score.Ratio())

	return &SubmitResult{Completion: c, Score: score, CorrectRatio: score.Ratio()}, nil
}

// List returns the stored completions of a quiz in submission order.
// Completions of a deleted quiz are not reachable.
func (s *CompletionService) List(ctx context.Context, quizID uuid.UUID) ([]model.Completion, error) {
	if _, err := s.quizzes.GetByID(ctx, quizID); err != nil {
		return nil, err
	}
	completions, err := s.completions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	if completions == nil {
		completions = []model.Completion{}
	}
	return completions, nil
}

// Count returns how many completions a quiz has.
func (s *CompletionService) Count(ctx context.Context, quizID uuid.UUID) (int, error) {
	if _, err := s.quizzes.GetByID(ctx, quizID); err != nil {
		return 0, err
	}
	n, err := s.completions.CountByQuiz(ctx, quizID)
	if err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return n, nil
}
