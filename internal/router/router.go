package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/quiz-backend/internal/config"
	"github.com/stemsi/quiz-backend/internal/handler"
	"github.com/stemsi/quiz-backend/internal/metrics"
	"github.com/stemsi/quiz-backend/internal/middleware"
	"github.com/stemsi/quiz-backend/internal/response"
)

// runnerMaxAge is how long clients may cache the respondent payload.
const runnerMaxAge = 60

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Health     *handler.HealthHandler
	Quiz       *handler.QuizHandler
	Completion *handler.CompletionHandler
	Statistics *handler.StatisticsHandler
	Draft      *handler.DraftHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Metrics())
	router.Use(middleware.Brotli())

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	router.GET("/health", handlers.Health.Health)
	router.GET("/metrics", metrics.PrometheusHandler())

	// Submissions are limited per IP.
	submitLimiter := middleware.NewRateLimiter(cfg.SubmitRatePerMinute, time.Minute)

	// ─── 1. Quizzes ────────────────────────────────────────────────────
	quizzes := router.Group("/api/v1/quizzes")
	{
		quizzes.GET("", handlers.Quiz.ListQuizzes)
		quizzes.POST("", handlers.Quiz.CreateQuiz)
		quizzes.GET("/:quiz_id", handlers.Quiz.GetQuiz)
		quizzes.PUT("/:quiz_id", handlers.Quiz.UpdateQuiz)
		quizzes.DELETE("/:quiz_id", handlers.Quiz.DeleteQuiz)
		quizzes.POST("/:quiz_id/draft", handlers.Draft.CreateDraftFromQuiz)

		quizzes.GET("/:quiz_id/run", middleware.CacheControl(runnerMaxAge), handlers.Quiz.RunQuiz)

		quizzes.POST("/:quiz_id/completions", submitLimiter.Middleware(), handlers.Completion.SubmitCompletion)
		quizzes.GET("/:quiz_id/completions", handlers.Completion.ListCompletions)
		quizzes.GET("/:quiz_id/completions/count", handlers.Completion.CountCompletions)

		quizzes.GET("/:quiz_id/statistics", middleware.NoStore(), handlers.Statistics.GetStatistics)
		quizzes.GET("/:quiz_id/statistics/stream", handlers.Statistics.StreamStatisticsSSE)
	}

	// ─── 2. Drafts ─────────────────────────────────────────────────────
	drafts := router.Group("/api/v1/drafts")
	drafts.Use(middleware.NoStore())
	{
		drafts.POST("", handlers.Draft.CreateDraft)
		drafts.GET("/:draft_id", handlers.Draft.GetDraft)
		drafts.PUT("/:draft_id", handlers.Draft.ReplaceDraft)
		drafts.DELETE("/:draft_id", handlers.Draft.DeleteDraft)
		drafts.POST("/:draft_id/publish", handlers.Draft.PublishDraft)

		drafts.POST("/:draft_id/questions", handlers.Draft.AddQuestion)
		drafts.PUT("/:draft_id/questions/:question_id", handlers.Draft.UpdateQuestion)
		drafts.DELETE("/:draft_id/questions/:question_id", handlers.Draft.RemoveQuestion)
		drafts.POST("/:draft_id/questions/:question_id/move", handlers.Draft.MoveQuestion)
		drafts.PUT("/:draft_id/questions/:question_id/type", handlers.Draft.ChangeType)

		drafts.POST("/:draft_id/questions/:question_id/options", handlers.Draft.AddOption)
		drafts.PUT("/:draft_id/questions/:question_id/options/:option_id", handlers.Draft.SetOptionText)
		drafts.DELETE("/:draft_id/questions/:question_id/options/:option_id", handlers.Draft.RemoveOption)
		drafts.POST("/:draft_id/questions/:question_id/options/:option_id/toggle", handlers.Draft.ToggleCorrect)
	}

	// ─── 3. WebSocket ──────────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/quizzes/:quiz_id/statistics", handlers.WS.StatisticsStream)
	}

	return router
}
