package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stemsi/quiz-backend/internal/quiz"
)

// StatisticsService computes aggregate statistics of a quiz.
type StatisticsService struct {
	quizzes     QuizStore
	completions CompletionStore
	opts        quiz.StatsOptions
}

// NewStatisticsService creates a new StatisticsService.
func NewStatisticsService(quizzes QuizStore, completions CompletionStore, opts quiz.StatsOptions) *StatisticsService {
	return &StatisticsService{quizzes: quizzes, completions: completions, opts: opts}
}

// ForQuiz aggregates all completions of a quiz against its current version.
// It returns nil statistics when the quiz has no completions yet.
func (s *StatisticsService) ForQuiz(ctx context.Context, quizID uuid.UUID) (*quiz.Statistics, error) {
	q, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	completions, err := s.completions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	if len(completions) == 0 {
		return nil, nil
	}

	stats := quiz.Aggregate(q, completions, s.opts)
	return &stats, nil
}
