package model

import (
	"encoding/json"
	"fmt"
)

// QuestionType enumerates the graded question kinds.
type QuestionType string

const (
	QuestionTypeText     QuestionType = "text"
	QuestionTypeSingle   QuestionType = "single"
	QuestionTypeMultiple QuestionType = "multiple"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeText, QuestionTypeSingle, QuestionTypeMultiple:
		return true
	}
	return false
}

// Option is a selectable choice of a single or multiple choice question.
// IDs are dense (1..N) within a question.
type Option struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Question is a single quiz item. Body carries the type-specific fields and is
// always one of *TextBody, *SingleBody or *MultipleBody.
type Question struct {
	ID   int
	Text string
	Body Body
}

// Body is the type-specific part of a Question.
type Body interface {
	Type() QuestionType
	clone() Body
}

// TextBody holds the expected free-text answer.
type TextBody struct {
	Answer string
}

// SingleBody holds the options of a single choice question.
// Correct is nil while no option is marked correct.
type SingleBody struct {
	Options []Option
	Correct *int
}

// MultipleBody holds the options of a multiple choice question and the set of correct ids.
type MultipleBody struct {
	Options []Option
	Correct []int
}

func (*TextBody) Type() QuestionType     { return QuestionTypeText }
func (*SingleBody) Type() QuestionType   { return QuestionTypeSingle }
func (*MultipleBody) Type() QuestionType { return QuestionTypeMultiple }

func (b *TextBody) clone() Body {
	c := *b
	return &c
}

func (b *SingleBody) clone() Body {
	c := &SingleBody{Options: cloneOptions(b.Options)}
	if b.Correct != nil {
		id := *b.Correct
		c.Correct = &id
	}
	return c
}

func (b *MultipleBody) clone() Body {
	return &MultipleBody{
		Options: cloneOptions(b.Options),
		Correct: append([]int{}, b.Correct...),
	}
}

// Type returns the question's type, or "" when the body is unset.
func (q Question) Type() QuestionType {
	if q.Body == nil {
		return ""
	}
	return q.Body.Type()
}

// Options returns the options of a choice question, nil for text questions.
func (q Question) Options() []Option {
	switch b := q.Body.(type) {
	case *SingleBody:
		return b.Options
	case *MultipleBody:
		return b.Options
	}
	return nil
}

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	c := Question{ID: q.ID, Text: q.Text}
	if q.Body != nil {
		c.Body = q.Body.clone()
	}
	return c
}

func cloneOptions(opts []Option) []Option {
	if opts == nil {
		return nil
	}
	return append(make([]Option, 0, len(opts)), opts...)
}

// questionWire is the flat JSON shape shared with clients.
type questionWire struct {
	QuestionID     int          `json:"questionId"`
	Question       string       `json:"question"`
	Type           QuestionType `json:"type"`
	Answer         *string      `json:"answer,omitempty"`
	Options        []Option     `json:"options,omitempty"`
	CorrectOption  *int         `json:"correctOption,omitempty"`
	CorrectOptions []int        `json:"correctOptions,omitempty"`
}

// MarshalJSON encodes the question in its flat wire form.
func (q Question) MarshalJSON() ([]byte, error) {
	w := questionWire{QuestionID: q.ID, Question: q.Text}
	switch b := q.Body.(type) {
	case *TextBody:
		w.Type = QuestionTypeText
		answer := b.Answer
		w.Answer = &answer
	case *SingleBody:
		w.Type = QuestionTypeSingle
		w.Options = nonNilOptions(b.Options)
		w.CorrectOption = b.Correct
	case *MultipleBody:
		w.Type = QuestionTypeMultiple
		w.Options = nonNilOptions(b.Options)
		w.CorrectOptions = append([]int{}, b.Correct...)
	default:
		return nil, fmt.Errorf("question %d has no body", q.ID)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the flat wire form. Fields that do not belong to the
// declared type are dropped.
func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	q.ID = w.QuestionID
	q.Text = w.Question

	switch w.Type {
	case QuestionTypeText:
		b := &TextBody{}
		if w.Answer != nil {
			b.Answer = *w.Answer
		}
		q.Body = b
	case QuestionTypeSingle:
		q.Body = &SingleBody{Options: nonNilOptions(w.Options), Correct: w.CorrectOption}
	case QuestionTypeMultiple:
		q.Body = &MultipleBody{Options: nonNilOptions(w.Options), Correct: append([]int{}, w.CorrectOptions...)}
	default:
		return fmt.Errorf("unsupported question type %q", w.Type)
	}
	return nil
}

func nonNilOptions(opts []Option) []Option {
	if opts == nil {
		return []Option{}
	}
	return opts
}
