package model

import (
	"time"

	"github.com/google/uuid"
)

// Draft is a quiz being authored. It may be incomplete and is only checked by
// the quiz validator when published.
type Draft struct {
	ID uuid.UUID `json:"id"`
	// QuizID is set when the draft edits an existing quiz; publishing then
	// replaces that quiz instead of creating a new one.
	QuizID      *uuid.UUID `json:"quizId,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Quiz builds the quiz a draft publishes to.
func (d *Draft) Quiz() Quiz {
	q := Quiz{
		Name:        d.Name,
		Description: d.Description,
		Questions:   make([]Question, len(d.Questions)),
	}
	for i, question := range d.Questions {
		q.Questions[i] = question.Clone()
	}
	if d.QuizID != nil {
		q.ID = *d.QuizID
	}
	return q
}

// AddQuestionRequest appends a question to a draft. Type defaults to text.
type AddQuestionRequest struct {
	Question string       `json:"question" binding:"max=1000"`
	Type     QuestionType `json:"type" binding:"omitempty,question_type"`
}

// UpdateQuestionRequest edits the free-text parts of a draft question.
// Nil fields are left untouched.
type UpdateQuestionRequest struct {
	Question *string `json:"question" binding:"omitempty,max=1000"`
	Answer   *string `json:"answer" binding:"omitempty,max=1000"`
}

// ChangeTypeRequest switches a draft question to another type.
type ChangeTypeRequest struct {
	Type QuestionType `json:"type" binding:"required,question_type"`
}

// MoveQuestionRequest moves a draft question to a zero-based position.
type MoveQuestionRequest struct {
	Index *int `json:"index" binding:"required,min=0"`
}

// OptionTextRequest sets an option's text.
type OptionTextRequest struct {
	Text string `json:"text" binding:"max=500"`
}
