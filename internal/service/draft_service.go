package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/cache"
	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/quiz"
)

// ErrDraftNotFound is returned for unknown or expired drafts.
var ErrDraftNotFound = errors.New("draft not found")

// DraftService applies authoring operations to server-side drafts and
// publishes them as quizzes. Edits are not validated; publishing validates.
type DraftService struct {
	drafts  DraftStore
	quizzes *QuizService
	now     func() time.Time
	log     zerolog.Logger
}

// NewDraftService creates a new DraftService.
func NewDraftService(drafts DraftStore, quizzes *QuizService, log zerolog.Logger) *DraftService {
	return &DraftService{
		drafts:  drafts,
		quizzes: quizzes,
		now:     time.Now,
		log:     log.With().Str("component", "draft_service").Logger(),
	}
}

// Create starts a new draft, optionally pre-filled from req.
func (s *DraftService) Create(ctx context.Context, req *model.QuizRequest) (*model.Draft, error) {
	d := &model.Draft{ID: uuid.New(), Questions: []model.Question{}}
	if req != nil {
		q := req.Quiz()
		d.Name, d.Description, d.Questions = q.Name, q.Description, q.Questions
	}
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// FromQuiz starts a draft that edits an existing quiz.
func (s *DraftService) FromQuiz(ctx context.Context, quizID uuid.UUID) (*model.Draft, error) {
	q, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	d := &model.Draft{
		ID:          uuid.New(),
		QuizID:      &q.ID,
		Name:        q.Name,
		Description: q.Description,
		Questions:   q.Clone().Questions,
	}
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get returns a draft.
func (s *DraftService) Get(ctx context.Context, id uuid.UUID) (*model.Draft, error) {
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return d, nil
}

// Replace overwrites the name, description and questions of a draft.
func (s *DraftService) Replace(ctx context.Context, id uuid.UUID, req *model.QuizRequest) (*model.Draft, error) {
	return s.edit(ctx, id, func(d *model.Draft) error {
		q := req.Quiz()
		d.Name, d.Description, d.Questions = q.Name, q.Description, q.Questions
		return nil
	})
}

// Delete discards a draft.
func (s *DraftService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.drafts.Delete(ctx, id); err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return ErrDraftNotFound
		}
		return err
	}
	return nil
}

// AddQuestion appends a new question with the next free id.
func (s *DraftService) AddQuestion(ctx context.Context, id uuid.UUID, req *model.AddQuestionRequest) (*model.Draft, error) {
	return s.edit(ctx, id, func(d *model.Draft) error {
		q := quiz.NewQuestion(d.Questions)
		q.Text = req.Question
		if req.Type != "" {
			var err error
			if q, err = quiz.NormalizeType(q, req.Type); err != nil {
				return err
			}
		}
		d.Questions = append(d.Questions, q)
		return nil
	})
}

// UpdateQuestion edits the text and, for text questions, the expected answer.
func (s *DraftService) UpdateQuestion(ctx context.Context, id uuid.UUID, questionID int, req *model.UpdateQuestionRequest) (*model.Draft, error) {
	return s.editQuestion(ctx, id, questionID, func(q model.Question) (model.Question, error) {
		if req.Answer != nil {
			var err error
			if q, err = quiz.SetAnswer(q, *req.Answer); err != nil {
				return model.Question{}, err
			}
		}
		if req.Question != nil {
			q.Text = *req.Question
		}
		return q, nil
	})
}

// RemoveQuestion deletes a question. Remaining ids are not renumbered.
func (s *DraftService) RemoveQuestion(ctx context.Context, id uuid.UUID, questionID int) (*model.Draft, error) {
	return s.edit(ctx, id, func(d *model.Draft) error {
		questions, err := quiz.RemoveQuestion(d.Questions, questionID)
		if err != nil {
			return err
		}
		d.Questions = questions
		return nil
	})
}

// MoveQuestion moves a question to index, clamped to the list bounds.
func (s *DraftService) MoveQuestion(ctx context.Context, id uuid.UUID, questionID, index int) (*model.Draft, error) {
	return s.edit(ctx, id, func(d *model.Draft) error {
		questions, err := quiz.MoveQuestion(d.Questions, questionID, index)
		if err != nil {
			return err
		}
		d.Questions = questions
		return nil
	})
}

// ChangeType switches a question's type, discarding correctness data.
func (s *DraftService) ChangeType(ctx context.Context, id uuid.UUID, questionID int, t model.QuestionType) (*model.Draft, error) {
	return s.editQuestion(ctx, id, questionID, func(q model.Question) (model.Question, error) {
		return quiz.NormalizeType(q, t)
	})
}

// AddOption appends an empty option to a choice question.
func (s *DraftService) AddOption(ctx context.Context, id uuid.UUID, questionID int) (*model.Draft, error) {
	return s.editQuestion(ctx, id, questionID, quiz.AddOption)
}

// RemoveOption deletes an option and renumbers the rest.
func (s *DraftService) RemoveOption(ctx context.Context, id uuid.UUID, questionID, optionID int) (*model.Draft, error) {
	return s.editQuestion(ctx, id, questionID, func(q model.Question) (model.Question, error) {
		return quiz.RemoveOption(q, optionID)
	})
}

// SetOptionText changes the text of an option.
func (s *DraftService) SetOptionText(ctx context.Context, id uuid.UUID, questionID, optionID int, text string) (*model.Draft, error) {
	return s.editQuestion(ctx, id, questionID, func(q model.Question) (model.Question, error) {
		return quiz.SetOptionText(q, optionID, text)
	})
}

// ToggleCorrect flips whether an option is marked correct.
func (s *DraftService) ToggleCorrect(ctx context.Context, id uuid.UUID, questionID, optionID int) (*model.Draft, error) {
	return s.editQuestion(ctx, id, questionID, func(q model.Question) (model.Question, error) {
		return quiz.ToggleCorrect(q, optionID)
	})
}

// Publish validates the draft and stores it as a quiz: a new one, or the quiz
// the draft was started from. The draft is removed afterwards.
func (s *DraftService) Publish(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	q := d.Quiz()
	if d.QuizID != nil {
		err = s.quizzes.Update(ctx, &q)
	} else {
		err = s.quizzes.Create(ctx, &q)
	}
	if err != nil {
		return nil, err
	}

	if err := s.drafts.Delete(ctx, id); err != nil && !errors.Is(err, cache.ErrMiss) {
		s.log.Warn().Err(err).Str("draft_id", id.String()).Msg("Failed to remove published draft")
	}
	s.log.Info().Str("draft_id", id.String()).Str("quiz_id", q.ID.String()).Msg("Draft published")
	return &q, nil
}

// edit loads a draft, applies fn and saves the result. Concurrent edits of
// the same draft are last-writer-wins.
func (s *DraftService) edit(ctx context.Context, id uuid.UUID, fn func(d *model.Draft) error) (*model.Draft, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DraftService) editQuestion(ctx context.Context, id uuid.UUID, questionID int, fn func(model.Question) (model.Question, error)) (*model.Draft, error) {
	return s.edit(ctx, id, func(d *model.Draft) error {
		q, ok := quiz.FindQuestion(d.Questions, questionID)
		if !ok {
			return quiz.ErrQuestionNotFound
		}
		updated, err := fn(q)
		if err != nil {
			return err
		}
		questions, err := quiz.ReplaceQuestion(d.Questions, updated)
		if err != nil {
			return err
		}
		d.Questions = questions
		return nil
	})
}

func (s *DraftService) save(ctx context.Context, d *model.Draft) error {
	d.UpdatedAt = s.now().UTC()
	if err := s.drafts.Save(ctx, d); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}
