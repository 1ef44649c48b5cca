package service

import "github.com/stemsi/quiz-backend/internal/model"

func intPtr(n int) *int { return &n }

func sampleQuiz() *model.Quiz {
	return &model.Quiz{
		Name:        "Capitals",
		Description: "European capitals",
		Questions: []model.Question{
			{ID: 1, Text: "Capital of France?", Body: &model.TextBody{Answer: "Paris"}},
			{ID: 2, Text: "Capital of Italy?", Body: &model.SingleBody{
				Options: []model.Option{{ID: 1, Text: "Rome"}, {ID: 2, Text: "Milan"}},
				Correct: intPtr(1),
			}},
		},
	}
}
