package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/cache"
	"github.com/stemsi/quiz-backend/internal/metrics"
	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/quiz"
	"github.com/stemsi/quiz-backend/internal/response"
)

// QuizService handles quiz lifecycle and the respondent payload cache.
type QuizService struct {
	quizzes     QuizStore
	completions CompletionStore
	runner      RunnerCache
	pageSize    int
	log         zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	quizzes QuizStore,
	completions CompletionStore,
	runner RunnerCache,
	pageSize int,
	log zerolog.Logger,
) *QuizService {
	if pageSize < 1 {
		pageSize = 5
	}
	return &QuizService{
		quizzes:     quizzes,
		completions: completions,
		runner:      runner,
		pageSize:    pageSize,
		log:         log.With().Str("component", "quiz_service").Logger(),
	}
}

// Create validates q, assigns it a new id and stores it.
func (s *QuizService) Create(ctx context.Context, q *model.Quiz) error {
	if err := quiz.Validate(q); err != nil {
		return err
	}

	q.ID = uuid.New()
	q.Completions = nil
	if err := s.quizzes.Create(ctx, q); err != nil {
		return fmt.Errorf("create quiz: %w", err)
	}

	metrics.QuizzesPublished.Inc()
	s.warm(ctx, q)
	s.log.Info().Str("quiz_id", q.ID.String()).Int("questions", len(q.Questions)).Msg("Quiz created")
	return nil
}

// GetByID returns the full quiz, answer key included, with its completion count.
func (s *QuizService) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	n, err := s.completions.CountByQuiz(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count completions: %w", err)
	}
	q.Completions = &n
	return q, nil
}

// Update validates q and replaces the stored quiz with the same id.
// Existing completions are kept and are graded against the new version.
func (s *QuizService) Update(ctx context.Context, q *model.Quiz) error {
	if err := quiz.Validate(q); err != nil {
		return err
	}

	q.Completions = nil
	if err := s.quizzes.Update(ctx, q); err != nil {
		return err
	}

	s.warm(ctx, q)
	s.log.Info().Str("quiz_id", q.ID.String()).Msg("Quiz updated")
	return nil
}

// Delete removes a quiz and its cached payload. Completions stay in place.
func (s *QuizService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.quizzes.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.runner.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("Failed to drop cached payload")
	}
	s.log.Info().Str("quiz_id", id.String()).Msg("Quiz deleted")
	return nil
}

// List returns the page of quizzes starting at offset, each with its completion count.
func (s *QuizService) List(ctx context.Context, offset int) ([]model.Quiz, *response.Pagination, error) {
	if offset < 0 {
		offset = 0
	}

	quizzes, total, err := s.quizzes.List(ctx, offset, s.pageSize)
	if err != nil {
		return nil, nil, fmt.Errorf("list quizzes: %w", err)
	}
	if quizzes == nil {
		quizzes = []model.Quiz{}
	}

	ids := make([]uuid.UUID, len(quizzes))
	for i := range quizzes {
		ids[i] = quizzes[i].ID
	}
	counts, err := s.completions.CountByQuizzes(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("count completions: %w", err)
	}
	for i := range quizzes {
		n := counts[quizzes[i].ID]
		quizzes[i].Completions = &n
	}

	return quizzes, response.NewPagination(offset, s.pageSize, total), nil
}

// RunnerPayload returns the respondent view of a quiz, loading it into the
// cache on a miss.
func (s *QuizService) RunnerPayload(ctx context.Context, id uuid.UUID) (*model.RunnerPayload, error) {
	p, err := s.runner.Get(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("Payload cache read failed, using database")
	}

	q, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.warm(ctx, q)

	payload := model.NewRunnerPayload(q)
	return &payload, nil
}

// PrewarmRunnerCache loads every quiz's payload into Redis on startup.
func (s *QuizService) PrewarmRunnerCache(ctx context.Context) error {
	warmed := 0
	for offset := 0; ; offset += s.pageSize {
		quizzes, total, err := s.quizzes.List(ctx, offset, s.pageSize)
		if err != nil {
			return fmt.Errorf("list quizzes: %w", err)
		}
		for i := range quizzes {
			if s.warm(ctx, &quizzes[i]) {
				warmed++
			}
		}
		if len(quizzes) == 0 || offset+s.pageSize >= total {
			break
		}
	}

	s.log.Info().Int("warmed", warmed).Msg("Prewarming complete")
	return nil
}

// warm caches the respondent payload of q. Failures are logged; the payload
// is rebuilt from the database on the next miss.
func (s *QuizService) warm(ctx context.Context, q *model.Quiz) bool {
	payload := model.NewRunnerPayload(q)
	if err := s.runner.Set(ctx, &payload); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", q.ID.String()).Msg("Failed to cache payload")
		return false
	}
	return true
}
