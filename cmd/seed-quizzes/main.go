package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/quiz-backend/internal/cache"
	"github.com/stemsi/quiz-backend/internal/config"
	"github.com/stemsi/quiz-backend/internal/database"
	"github.com/stemsi/quiz-backend/internal/logger"
	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/repository"
	"github.com/stemsi/quiz-backend/internal/service"
)

const completionsPerQuiz = 25

func intPtr(n int) *int { return &n }

func sampleQuizzes() []model.Quiz {
	return []model.Quiz{
		{
			Name:        "European Capitals",
			Description: "How well do you know the capitals of Europe?",
			Questions: []model.Question{
				{ID: 1, Text: "What is the capital of France?", Body: &model.TextBody{Answer: "Paris"}},
				{ID: 2, Text: "What is the capital of Italy?", Body: &model.SingleBody{
					Options: []model.Option{{ID: 1, Text: "Milan"}, {ID: 2, Text: "Rome"}, {ID: 3, Text: "Naples"}},
					Correct: intPtr(2),
				}},
				{ID: 3, Text: "Which of these cities are capitals?", Body: &model.MultipleBody{
					Options: []model.Option{{ID: 1, Text: "Madrid"}, {ID: 2, Text: "Barcelona"}, {ID: 3, Text: "Lisbon"}, {ID: 4, Text: "Porto"}},
					Correct: []int{1, 3},
				}},
			},
		},
		{
			Name:        "Go Basics",
			Description: "A short warm-up on the Go language.",
			Questions: []model.Question{
				{ID: 1, Text: "Which keyword starts a goroutine?", Body: &model.TextBody{Answer: "go"}},
				{ID: 2, Text: "What is the zero value of a map?", Body: &model.SingleBody{
					Options: []model.Option{{ID: 1, Text: "An empty map"}, {ID: 2, Text: "nil"}},
					Correct: intPtr(2),
				}},
				{ID: 3, Text: "Which types are reference-like?", Body: &model.MultipleBody{
					Options: []model.Option{{ID: 1, Text: "slice"}, {ID: 2, Text: "array"}, {ID: 3, Text: "map"}, {ID: 4, Text: "channel"}},
					Correct: []int{1, 3, 4},
				}},
			},
		},
	}
}

// randomResponses answers every question, right about two times out of three.
func randomResponses(q *model.Quiz) []model.Response {
	out := make([]model.Response, 0, len(q.Questions))
	for _, question := range q.Questions {
		right := rand.IntN(3) != 0
		var answer model.Answer
		switch body := question.Body.(type) {
		case *model.TextBody:
			if right {
				answer = model.TextAnswer(body.Answer)
			} else {
				answer = model.TextAnswer("no idea")
			}
		case *model.SingleBody:
			if right {
				answer = model.OptionAnswer(*body.Correct)
			} else {
				answer = model.OptionAnswer(body.Options[rand.IntN(len(body.Options))].ID)
			}
		case *model.MultipleBody:
			if right {
				answer = model.OptionsAnswer(body.Correct...)
			} else {
				answer = model.OptionsAnswer(body.Options[0].ID)
			}
		}
		out = append(out, model.Response{QuestionID: question.ID, Answer: answer})
	}
	return out
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	quizRepo := repository.NewQuizRepository(pool)
	completionRepo := repository.NewCompletionRepository(pool)
	quizService := service.NewQuizService(quizRepo, completionRepo, cache.NewRunnerCache(rdb, cfg.RunnerCacheTTL), cfg.QuizPageSize, log)

	quizzes := sampleQuizzes()
	fmt.Printf("=== Seeding %d quizzes ===\n", len(quizzes))

	for i := range quizzes {
		q := &quizzes[i]
		if err := quizService.Create(ctx, q); err != nil {
			log.Fatal().Err(err).Str("quiz", q.Name).Msg("Failed to create quiz")
		}

		// Spread completions over the last week so per-day statistics have shape.
		now := time.Now().UTC()
		batch := make([]model.Completion, completionsPerQuiz)
		for j := range batch {
			batch[j] = model.Completion{
				ID:          uuid.New(),
				QuizID:      q.ID,
				Responses:   randomResponses(q),
				TimeTaken:   20 + rand.IntN(160),
				CompletedAt: now.Add(-time.Duration(rand.IntN(7*24)) * time.Hour),
			}
		}
		if err := completionRepo.CreateBatch(ctx, batch); err != nil {
			log.Fatal().Err(err).Str("quiz", q.Name).Msg("Failed to seed completions")
		}

		fmt.Printf("Created %q (%s) with %d completions\n", q.Name, q.ID, completionsPerQuiz)
	}

	fmt.Println("\nSeed completed!")
}
