package model

import (
	"time"

	"github.com/google/uuid"
)

// Quiz is a named, ordered collection of questions.
type Quiz struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	Completions *int       `json:"completions,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy of the quiz.
func (q Quiz) Clone() Quiz {
	c := q
	c.Questions = make([]Question, len(q.Questions))
	for i, question := range q.Questions {
		c.Questions[i] = question.Clone()
	}
	if q.Completions != nil {
		n := *q.Completions
		c.Completions = &n
	}
	return c
}

// QuizRequest is the payload for creating or replacing a quiz. Presence checks
// beyond JSON shape are left to the quiz validator so authors get its messages.
type QuizRequest struct {
	Name        string     `json:"name" binding:"max=255"`
	Description string     `json:"description" binding:"max=2000"`
	Questions   []Question `json:"questions"`
}

// Quiz builds an unsaved quiz from the request.
func (r *QuizRequest) Quiz() Quiz {
	questions := r.Questions
	if questions == nil {
		questions = []Question{}
	}
	return Quiz{Name: r.Name, Description: r.Description, Questions: questions}
}

// RunnerPayload is the respondent-facing view of a quiz: no correctness data.
// It is cached in Redis and served to the quiz runner.
type RunnerPayload struct {
	QuizID      uuid.UUID           `json:"quizId"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Questions   []QuestionForRunner `json:"questions"`
}

// QuestionForRunner is a question without its answer key.
type QuestionForRunner struct {
	QuestionID int          `json:"questionId"`
	Question   string       `json:"question"`
	Type       QuestionType `json:"type"`
	Options    []Option     `json:"options,omitempty"`
}

// NewRunnerPayload strips the answer key from every question of q.
func NewRunnerPayload(q *Quiz) RunnerPayload {
	questions := make([]QuestionForRunner, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = QuestionForRunner{
			QuestionID: question.ID,
			Question:   question.Text,
			Type:       question.Type(),
			Options:    cloneOptions(question.Options()),
		}
	}
	return RunnerPayload{
		QuizID:      q.ID,
		Name:        q.Name,
		Description: q.Description,
		Questions:   questions,
	}
}
