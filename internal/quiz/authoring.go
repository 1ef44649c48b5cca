// Package quiz holds the pure quiz rules: authoring operations on questions,
// quiz validation, grading and statistics. Nothing here performs I/O.
package quiz

import (
	"errors"

	"github.com/stemsi/quiz-backend/internal/model"
)

// Authoring errors.
var (
	ErrLastOption        = errors.New("a question must keep at least one option")
	ErrOptionNotFound    = errors.New("option not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrNotChoiceQuestion = errors.New("question has no options")
	ErrNotTextQuestion   = errors.New("question has no free-text answer")
	ErrUnknownType       = errors.New("unknown question type")
)

// NewQuestion returns an empty text question whose id is one above the
// highest id in existing.
func NewQuestion(existing []model.Question) model.Question {
	next := 1
	for _, q := range existing {
		if q.ID >= next {
			next = q.ID + 1
		}
	}
	return model.Question{ID: next, Body: &model.TextBody{}}
}

// NormalizeType returns a copy of q switched to newType. Fields that do not
// apply to the new type are discarded; a choice question without prior
// options is seeded with one empty option.
func NormalizeType(q model.Question, newType model.QuestionType) (model.Question, error) {
	if !newType.Valid() {
		return model.Question{}, ErrUnknownType
	}

	out := q.Clone()
	if q.Type() == newType {
		return out, nil
	}

	options := out.Options()
	if len(options) == 0 {
		options = []model.Option{{ID: 1, Text: ""}}
	}

	switch newType {
	case model.QuestionTypeText:
		out.Body = &model.TextBody{}
	case model.QuestionTypeSingle:
		out.Body = &model.SingleBody{Options: options}
	case model.QuestionTypeMultiple:
		out.Body = &model.MultipleBody{Options: options, Correct: []int{}}
	}
	return out, nil
}

// SetAnswer sets the expected answer of a text question.
func SetAnswer(q model.Question, answer string) (model.Question, error) {
	out := q.Clone()
	b, ok := out.Body.(*model.TextBody)
	if !ok {
		return model.Question{}, ErrNotTextQuestion
	}
	b.Answer = answer
	return out, nil
}

// AddOption appends an empty option with the next dense id.
func AddOption(q model.Question) (model.Question, error) {
	out := q.Clone()
	switch b := out.Body.(type) {
	case *model.SingleBody:
		b.Options = append(b.Options, model.Option{ID: len(b.Options) + 1})
	case *model.MultipleBody:
		b.Options = append(b.Options, model.Option{ID: len(b.Options) + 1})
	default:
		return model.Question{}, ErrNotChoiceQuestion
	}
	return out, nil
}

// SetOptionText replaces the text of option id.
func SetOptionText(q model.Question, id int, text string) (model.Question, error) {
	out := q.Clone()
	options := out.Options()
	if options == nil {
		return model.Question{}, ErrNotChoiceQuestion
	}
	idx := optionIndex(options, id)
	if idx < 0 {
		return model.Question{}, ErrOptionNotFound
	}
	options[idx].Text = text
	return out, nil
}

// RemoveOption deletes option id and renumbers the remaining options densely
// from 1. Correct-answer references are rewritten: a single choice loses its
// selection when it pointed at the removed option; a multiple choice drops the
// removed id and shifts higher ids down by one to follow the renumbering.
func RemoveOption(q model.Question, id int) (model.Question, error) {
	out := q.Clone()
	options := out.Options()
	if options == nil {
		return model.Question{}, ErrNotChoiceQuestion
	}
	if optionIndex(options, id) < 0 {
		return model.Question{}, ErrOptionNotFound
	}
	if len(options) == 1 {
		return model.Question{}, ErrLastOption
	}

	renumbered := make([]model.Option, 0, len(options)-1)
	for _, o := range options {
		if o.ID == id {
			continue
		}
		renumbered = append(renumbered, model.Option{ID: len(renumbered) + 1, Text: o.Text})
	}

	switch b := out.Body.(type) {
	case *model.SingleBody:
		b.Options = renumbered
		if b.Correct != nil && *b.Correct == id {
			b.Correct = nil
		}
	case *model.MultipleBody:
		b.Options = renumbered
		correct := make([]int, 0, len(b.Correct))
		for _, c := range b.Correct {
			switch {
			case c == id:
			case c > id:
				correct = append(correct, c-1)
			default:
				correct = append(correct, c)
			}
		}
		b.Correct = correct
	}
	return out, nil
}

// ToggleCorrect flips the correctness of option id. Selecting the already
// correct option of a single choice question clears it, leaving no correct
// option until another is chosen.
func ToggleCorrect(q model.Question, id int) (model.Question, error) {
	out := q.Clone()
	options := out.Options()
	if options == nil {
		return model.Question{}, ErrNotChoiceQuestion
	}
	if optionIndex(options, id) < 0 {
		return model.Question{}, ErrOptionNotFound
	}

	switch b := out.Body.(type) {
	case *model.SingleBody:
		if b.Correct != nil && *b.Correct == id {
			b.Correct = nil
		} else {
			b.Correct = &id
		}
	case *model.MultipleBody:
		next := make([]int, 0, len(b.Correct)+1)
		found := false
		for _, c := range b.Correct {
			if c == id {
				found = true
				continue
			}
			next = append(next, c)
		}
		if !found {
			next = append(next, id)
		}
		b.Correct = next
	}
	return out, nil
}

// RemoveQuestion returns questions without the one identified by id.
// Remaining question ids are left untouched.
func RemoveQuestion(questions []model.Question, id int) ([]model.Question, error) {
	idx := questionIndex(questions, id)
	if idx < 0 {
		return nil, ErrQuestionNotFound
	}
	out := make([]model.Question, 0, len(questions)-1)
	for i, q := range questions {
		if i != idx {
			out = append(out, q.Clone())
		}
	}
	return out, nil
}

// MoveQuestion moves question id to position index, clamped to the list bounds.
func MoveQuestion(questions []model.Question, id, index int) ([]model.Question, error) {
	from := questionIndex(questions, id)
	if from < 0 {
		return nil, ErrQuestionNotFound
	}
	if index < 0 {
		index = 0
	}
	if index >= len(questions) {
		index = len(questions) - 1
	}

	rest := make([]model.Question, 0, len(questions))
	for i, q := range questions {
		if i != from {
			rest = append(rest, q.Clone())
		}
	}
	out := make([]model.Question, 0, len(questions))
	out = append(out, rest[:index]...)
	out = append(out, questions[from].Clone())
	out = append(out, rest[index:]...)
	return out, nil
}

// ReplaceQuestion swaps the question with q.ID for q.
func ReplaceQuestion(questions []model.Question, q model.Question) ([]model.Question, error) {
	idx := questionIndex(questions, q.ID)
	if idx < 0 {
		return nil, ErrQuestionNotFound
	}
	out := make([]model.Question, len(questions))
	for i := range questions {
		out[i] = questions[i].Clone()
	}
	out[idx] = q.Clone()
	return out, nil
}

// FindQuestion returns the question with id.
func FindQuestion(questions []model.Question, id int) (model.Question, bool) {
	idx := questionIndex(questions, id)
	if idx < 0 {
		return model.Question{}, false
	}
	return questions[idx], true
}

func optionIndex(options []model.Option, id int) int {
	for i, o := range options {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func questionIndex(questions []model.Question, id int) int {
	for i, q := range questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}
