package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stemsi/quiz-backend/internal/model"
)

func twoQuestionQuiz() *model.Quiz {
	return &model.Quiz{
		Name:        "Pair",
		Description: "Two questions",
		Questions: []model.Question{
			{ID: 1, Text: "2+2?", Body: &model.TextBody{Answer: "4"}},
			{ID: 2, Text: "Pick B", Body: &model.SingleBody{
				Options: []model.Option{{ID: 1, Text: "A"}, {ID: 2, Text: "B"}},
				Correct: intPtr(2),
			}},
		},
	}
}

func TestAggregateAveragesPerCompletionRatios(t *testing.T) {
	q := twoQuestionQuiz()
	day := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	completions := []model.Completion{
		{
			Responses: []model.Response{
				{QuestionID: 1, Answer: model.TextAnswer("4")},
				{QuestionID: 2, Answer: model.OptionAnswer(2)},
			},
			TimeTaken:   40,
			CompletedAt: day,
		},
		{
			Responses: []model.Response{
				{QuestionID: 1, Answer: model.TextAnswer("5")},
				{QuestionID: 2, Answer: model.OptionAnswer(1)},
			},
			TimeTaken:   20,
			CompletedAt: day.Add(time.Hour),
		},
	}

	stats := Aggregate(q, completions, StatsOptions{Location: time.UTC})

	assert.Equal(t, 2, stats.Completions)
	assert.InDelta(t, 30.0, stats.AvgTimeSeconds, 1e-9)
	assert.InDelta(t, 0.5, stats.AvgCorrectRatio, 1e-9)
	assert.Equal(t, []DayCount{{Date: "3/5/2024", Count: 2}}, stats.CompletionsPerDay)
}

func TestAggregateCountsUnansweredCompletions(t *testing.T) {
	q := twoQuestionQuiz()
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

	// 0/2, 1/2 and 2/2.
	completions := []model.Completion{
		{CompletedAt: now},
		{Responses: []model.Response{{QuestionID: 2, Answer: model.OptionAnswer(2)}}, CompletedAt: now},
		{Responses: []model.Response{
			{QuestionID: 1, Answer: model.TextAnswer(" 4 ")},
			{QuestionID: 2, Answer: model.OptionAnswer(2)},
		}, CompletedAt: now},
	}

	stats := Aggregate(q, completions, StatsOptions{Location: time.UTC})
	assert.InDelta(t, 0.5, stats.AvgCorrectRatio, 1e-9)
}

func TestAggregateDaysKeepFirstSeenOrder(t *testing.T) {
	q := twoQuestionQuiz()
	mar7 := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	mar5 := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	completions := []model.Completion{
		{TimeTaken: 10, CompletedAt: mar7},
		{TimeTaken: 10, CompletedAt: mar5},
		{TimeTaken: 10, CompletedAt: mar7.Add(2 * time.Hour)},
	}

	stats := Aggregate(q, completions, StatsOptions{Location: time.UTC, DateLayout: "2006-01-02"})
	assert.Equal(t, []DayCount{
		{Date: "2024-03-07", Count: 2},
		{Date: "2024-03-05", Count: 1},
	}, stats.CompletionsPerDay)
}

func TestAggregateUsesConfiguredLocation(t *testing.T) {
	q := twoQuestionQuiz()
	lateUTC := time.Date(2024, 3, 5, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	stats := Aggregate(q, []model.Completion{{CompletedAt: lateUTC}}, StatsOptions{Location: tokyo})
	assert.Equal(t, []DayCount{{Date: "3/6/2024", Count: 1}}, stats.CompletionsPerDay)
}

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(twoQuestionQuiz(), nil, StatsOptions{})
	assert.Equal(t, Statistics{CompletionsPerDay: []DayCount{}}, stats)
}

func TestAggregateQuizWithoutQuestions(t *testing.T) {
	stats := Aggregate(&model.Quiz{}, []model.Completion{{TimeTaken: 8, CompletedAt: time.Now()}}, StatsOptions{})
	assert.Zero(t, stats.AvgCorrectRatio)
	assert.InDelta(t, 8.0, stats.AvgTimeSeconds, 1e-9)
}
