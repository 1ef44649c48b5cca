package model

import (
	"bytes"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
)

// MaxTimeTaken is the largest time_taken the completions table can hold.
const MaxTimeTaken = math.MaxInt32

// Completion is one respondent's submission against a quiz. It is immutable
// once stored and never carries correctness data of its own.
type Completion struct {
	ID          uuid.UUID  `json:"id"`
	QuizID      uuid.UUID  `json:"quizId"`
	Responses   []Response `json:"responses"`
	TimeTaken   int        `json:"timeTaken"`
	CompletedAt time.Time  `json:"completedAt"`
}

// Response is the answer given to one question.
type Response struct {
	QuestionID int    `json:"questionId"`
	Answer     Answer `json:"answer"`
}

// Answer is a raw respondent answer. Its shape depends on the question it
// refers to: a string for text, an option id for single choice and a list of
// option ids for multiple choice. It is stored verbatim and decoded only when graded.
type Answer json.RawMessage

// TextAnswer builds an Answer holding a string.
func TextAnswer(s string) Answer { return mustAnswer(s) }

// OptionAnswer builds an Answer holding a single option id.
func OptionAnswer(id int) Answer { return mustAnswer(id) }

// OptionsAnswer builds an Answer holding a set of option ids.
func OptionsAnswer(ids ...int) Answer {
	if ids == nil {
		ids = []int{}
	}
	return mustAnswer(ids)
}

func mustAnswer(v any) Answer {
	raw, _ := json.Marshal(v)
	return Answer(raw)
}

// IsZero reports whether the answer is absent or JSON null.
func (a Answer) IsZero() bool {
	trimmed := bytes.TrimSpace(a)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Text decodes the answer as a string.
func (a Answer) Text() (string, bool) {
	if a.IsZero() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(a, &s); err != nil {
		return "", false
	}
	return s, true
}

// Option decodes the answer as a single option id.
func (a Answer) Option() (int, bool) {
	if a.IsZero() {
		return 0, false
	}
	var id int
	if err := json.Unmarshal(a, &id); err != nil {
		return 0, false
	}
	return id, true
}

// Options decodes the answer as a list of option ids.
func (a Answer) Options() ([]int, bool) {
	if a.IsZero() {
		return nil, false
	}
	var ids []int
	if err := json.Unmarshal(a, &ids); err != nil {
		return nil, false
	}
	return ids, true
}

// MarshalJSON writes the raw answer, or null when empty.
func (a Answer) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return []byte("null"), nil
	}
	return a, nil
}

// UnmarshalJSON keeps a copy of the raw answer.
func (a *Answer) UnmarshalJSON(data []byte) error {
	*a = append((*a)[0:0], data...)
	return nil
}

// SubmitCompletionRequest is the payload a respondent sends when finishing a quiz.
type SubmitCompletionRequest struct {
	Responses []Response `json:"responses" binding:"required,dive"`
	TimeTaken *int       `json:"timeTaken" binding:"required,min=0,max=2147483647"`
}
