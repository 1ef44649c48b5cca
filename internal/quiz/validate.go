package quiz

import (
	"fmt"
	"strings"

	"github.com/stemsi/quiz-backend/internal/model"
)

// ValidationError describes the first rule a candidate quiz violates.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Fields returns the error as a field → message map for API responses.
func (e *ValidationError) Fields() map[string]string {
	return map[string]string{e.Field: e.Message}
}

func fail(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks a candidate quiz before it is created or updated and
// returns a *ValidationError for the first failing rule, or nil.
// Rules are checked in order: name, description, question count, then each
// question in display order.
func Validate(q *model.Quiz) error {
	if strings.TrimSpace(q.Name) == "" {
		return fail("name", "Quiz name cannot be empty")
	}
	if strings.TrimSpace(q.Description) == "" {
		return fail("description", "Description cannot be empty")
	}
	if len(q.Questions) == 0 {
		return fail("questions", "Quiz must have at least one question")
	}

	seen := make(map[int]struct{}, len(q.Questions))
	for i, question := range q.Questions {
		if err := validateQuestion(i, question); err != nil {
			return err
		}
		if _, dup := seen[question.ID]; dup {
			return fail(fmt.Sprintf("questions[%d].questionId", i), "Question %d has a duplicate question id", i+1)
		}
		seen[question.ID] = struct{}{}
	}
	return nil
}

func validateQuestion(i int, q model.Question) *ValidationError {
	n := i + 1
	prefix := fmt.Sprintf("questions[%d]", i)

	if strings.TrimSpace(q.Text) == "" {
		return fail(prefix+".question", "Question %d text cannot be empty", n)
	}

	switch b := q.Body.(type) {
	case *model.TextBody:
		if strings.TrimSpace(b.Answer) == "" {
			return fail(prefix+".answer", "Answer for question %d cannot be empty", n)
		}
		return nil

	case *model.SingleBody:
		if err := validateOptions(prefix, n, b.Options); err != nil {
			return err
		}
		if b.Correct == nil {
			return fail(prefix+".correctOption", "Question %d (single choice) must have one correct option selected", n)
		}
		if optionIndex(b.Options, *b.Correct) < 0 {
			return fail(prefix+".correctOption", "Question %d correct option must reference an existing option", n)
		}
		return nil

	case *model.MultipleBody:
		if err := validateOptions(prefix, n, b.Options); err != nil {
			return err
		}
		if len(b.Correct) == 0 {
			return fail(prefix+".correctOptions", "Question %d (multiple choice) must have at least one correct option selected", n)
		}
		for _, id := range b.Correct {
			if optionIndex(b.Options, id) < 0 {
				return fail(prefix+".correctOptions", "Question %d correct option must reference an existing option", n)
			}
		}
		return nil
	}

	return fail(prefix+".type", "Question %d has an unsupported type", n)
}

func validateOptions(prefix string, n int, options []model.Option) *ValidationError {
	if len(options) == 0 {
		return fail(prefix+".options", "Question %d must have at least one option", n)
	}
	for j, o := range options {
		if strings.TrimSpace(o.Text) == "" {
			return fail(fmt.Sprintf("%s.options[%d].text", prefix, j), "Option text for question %d cannot be empty", n)
		}
	}
	return nil
}
