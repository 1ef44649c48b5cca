package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stemsi/quiz-backend/internal/model"
)

func TestGradeText(t *testing.T) {
	q := model.Question{ID: 1, Text: "Capital of France?", Body: &model.TextBody{Answer: "Paris"}}

	tests := []struct {
		name   string
		answer model.Answer
		want   bool
	}{
		{"exact", model.TextAnswer("Paris"), true},
		{"case and surrounding space", model.TextAnswer("  paris "), true},
		{"different word", model.TextAnswer("Lyon"), false},
		{"inner whitespace matters", model.TextAnswer("Pa ris"), false},
		{"empty", model.TextAnswer(""), false},
		{"number instead of text", model.OptionAnswer(1), false},
		{"null", model.Answer("null"), false},
		{"absent", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grade(q, tt.answer))
		})
	}
}

func TestGradeSingle(t *testing.T) {
	q := model.Question{ID: 1, Body: &model.SingleBody{
		Options: []model.Option{{ID: 1, Text: "A"}, {ID: 2, Text: "B"}},
		Correct: intPtr(2),
	}}

	assert.True(t, Grade(q, model.OptionAnswer(2)))
	assert.False(t, Grade(q, model.OptionAnswer(1)))
	assert.False(t, Grade(q, model.TextAnswer("2")))
	assert.False(t, Grade(q, model.OptionsAnswer(2)))
	assert.False(t, Grade(q, model.Answer("2.5")))

	unset := model.Question{ID: 2, Body: &model.SingleBody{Options: []model.Option{{ID: 1, Text: "A"}}}}
	assert.False(t, Grade(unset, model.OptionAnswer(1)))
}

func TestGradeMultipleIsAllOrNothing(t *testing.T) {
	q := model.Question{ID: 1, Body: &model.MultipleBody{
		Options: []model.Option{{ID: 1, Text: "A"}, {ID: 2, Text: "B"}, {ID: 3, Text: "C"}},
		Correct: []int{1, 2},
	}}

	tests := []struct {
		name   string
		answer model.Answer
		want   bool
	}{
		{"superset", model.OptionsAnswer(1, 2, 3), false},
		{"exact", model.OptionsAnswer(1, 2), true},
		{"order irrelevant", model.OptionsAnswer(2, 1), true},
		{"partial overlap", model.OptionsAnswer(1), false},
		{"same size different set", model.OptionsAnswer(1, 3), false},
		{"duplicates do not fill the set", model.OptionsAnswer(1, 1), false},
		{"empty selection", model.OptionsAnswer(), false},
		{"scalar instead of list", model.OptionAnswer(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Grade(q, tt.answer))
		})
	}
}

func TestGradeIsPure(t *testing.T) {
	q := model.Question{ID: 1, Body: &model.MultipleBody{
		Options: []model.Option{{ID: 1, Text: "A"}, {ID: 2, Text: "B"}},
		Correct: []int{2, 1},
	}}
	answer := model.OptionsAnswer(1, 2)

	first := Grade(q, answer)
	second := Grade(q, answer)
	assert.Equal(t, first, second)
	assert.Equal(t, []int{2, 1}, q.Body.(*model.MultipleBody).Correct)
	assert.Equal(t, model.OptionsAnswer(1, 2), answer)
}

func TestGradeQuiz(t *testing.T) {
	q := validQuiz()

	t.Run("all correct", func(t *testing.T) {
		answers := map[int]model.Answer{
			1: model.TextAnswer("paris"),
			2: model.OptionAnswer(1),
			3: model.OptionsAnswer(3, 1),
		}
		assert.Equal(t, Score{CorrectCount: 3, Total: 3}, GradeQuiz(q, answers))
	})

	t.Run("missing answers are incorrect", func(t *testing.T) {
		answers := map[int]model.Answer{2: model.OptionAnswer(1)}
		score := GradeQuiz(q, answers)
		assert.Equal(t, Score{CorrectCount: 1, Total: 3}, score)
		assert.InDelta(t, 1.0/3.0, score.Ratio(), 1e-9)
	})

	t.Run("answers for unknown questions are ignored", func(t *testing.T) {
		answers := map[int]model.Answer{42: model.TextAnswer("Paris")}
		assert.Equal(t, Score{CorrectCount: 0, Total: 3}, GradeQuiz(q, answers))
	})

	t.Run("empty quiz", func(t *testing.T) {
		score := GradeQuiz(&model.Quiz{}, nil)
		assert.Equal(t, Score{}, score)
		assert.Zero(t, score.Ratio())
	})
}

func TestAnswersByQuestionFirstResponseWins(t *testing.T) {
	responses := []model.Response{
		{QuestionID: 1, Answer: model.TextAnswer("Paris")},
		{QuestionID: 1, Answer: model.TextAnswer("Lyon")},
		{QuestionID: 2, Answer: model.OptionAnswer(1)},
	}

	answers := AnswersByQuestion(responses)
	assert.Len(t, answers, 2)
	text, ok := answers[1].Text()
	assert.True(t, ok)
	assert.Equal(t, "Paris", text)
}

func TestGradeCompletionMatchesGradeQuiz(t *testing.T) {
	q := validQuiz()
	c := &model.Completion{
		Responses: []model.Response{
			{QuestionID: 3, Answer: model.OptionsAnswer(1, 3)},
			{QuestionID: 1, Answer: model.TextAnswer("Rome")},
		},
		TimeTaken:   30,
		CompletedAt: time.Now(),
	}

	assert.Equal(t, GradeQuiz(q, AnswersByQuestion(c.Responses)), GradeCompletion(q, c))
	assert.Equal(t, Score{CorrectCount: 1, Total: 3}, GradeCompletion(q, c))
}
