package quiz

import (
	"strings"

	"github.com/stemsi/quiz-backend/internal/model"
)

// Score is the outcome of grading one set of answers against a quiz.
type Score struct {
	CorrectCount int `json:"correctCount"`
	Total        int `json:"total"`
}

// Ratio returns CorrectCount/Total, or 0 for an empty quiz.
func (s Score) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(s.Total)
}

// Grade reports whether answer is correct for q. An answer whose shape does
// not fit the question type is incorrect.
func Grade(q model.Question, answer model.Answer) bool {
	switch b := q.Body.(type) {
	case *model.TextBody:
		text, ok := answer.Text()
		if !ok {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(text), strings.TrimSpace(b.Answer))

	case *model.SingleBody:
		id, ok := answer.Option()
		if !ok || b.Correct == nil {
			return false
		}
		return id == *b.Correct

	case *model.MultipleBody:
		ids, ok := answer.Options()
		if !ok {
			return false
		}
		return sameSelection(ids, b.Correct)
	}
	return false
}

// sameSelection is all-or-nothing: equal length, every chosen id is correct
// and every correct id was chosen.
func sameSelection(chosen, correct []int) bool {
	if len(chosen) != len(correct) {
		return false
	}
	return containsAll(correct, chosen) && containsAll(chosen, correct)
}

func containsAll(set, ids []int) bool {
	lookup := make(map[int]struct{}, len(set))
	for _, id := range set {
		lookup[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := lookup[id]; !ok {
			return false
		}
	}
	return true
}

// GradeQuiz grades every question of q in order. Questions without an answer
// count as incorrect.
func GradeQuiz(q *model.Quiz, answers map[int]model.Answer) Score {
	score := Score{Total: len(q.Questions)}
	for _, question := range q.Questions {
		answer, ok := answers[question.ID]
		if !ok {
			continue
		}
		if Grade(question, answer) {
			score.CorrectCount++
		}
	}
	return score
}

// AnswersByQuestion indexes responses by question id. When a question was
// answered more than once the first response wins.
func AnswersByQuestion(responses []model.Response) map[int]model.Answer {
	answers := make(map[int]model.Answer, len(responses))
	for _, r := range responses {
		if _, seen := answers[r.QuestionID]; seen {
			continue
		}
		answers[r.QuestionID] = r.Answer
	}
	return answers
}

// GradeCompletion grades a stored completion against the live quiz.
func GradeCompletion(q *model.Quiz, c *model.Completion) Score {
	return GradeQuiz(q, AnswersByQuestion(c.Responses))
}
