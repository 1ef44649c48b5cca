package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/cache"
	"github.com/stemsi/quiz-backend/internal/config"
	"github.com/stemsi/quiz-backend/internal/database"
	"github.com/stemsi/quiz-backend/internal/handler"
	"github.com/stemsi/quiz-backend/internal/logger"
	"github.com/stemsi/quiz-backend/internal/quiz"
	"github.com/stemsi/quiz-backend/internal/repository"
	"github.com/stemsi/quiz-backend/internal/router"
	"github.com/stemsi/quiz-backend/internal/service"
	"github.com/stemsi/quiz-backend/internal/validator"
	"github.com/stemsi/quiz-backend/internal/worker"
)

// workerDrainTimeout bounds how long shutdown waits for the completion worker.
const workerDrainTimeout = 10 * time.Second

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Quiz Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories & Caches ─────────────────────────────
	quizRepo := repository.NewQuizRepository(pool)
	completionRepo := repository.NewCompletionRepository(pool)

	runnerCache := cache.NewRunnerCache(rdb, cfg.RunnerCacheTTL)
	draftStore := cache.NewDraftStore(rdb, cfg.DraftTTL)
	completionQueue := cache.NewCompletionQueue(rdb)
	statsFeed := cache.NewStatsFeed(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	quizService := service.NewQuizService(quizRepo, completionRepo, runnerCache, cfg.QuizPageSize, log)
	completionService := service.NewCompletionService(quizRepo, completionRepo, completionQueue, statsFeed, log)
	statsService := service.NewStatisticsService(quizRepo, completionRepo, quiz.StatsOptions{
		Location:   cfg.StatsLocation(),
		DateLayout: cfg.StatsDateLayout,
	})
	draftService := service.NewDraftService(draftStore, quizService, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Health:     handler.NewHealthHandler(database.NewPinger(pool, rdb), completionQueue, log),
		Quiz:       handler.NewQuizHandler(quizService, log),
		Completion: handler.NewCompletionHandler(completionService, log),
		Statistics: handler.NewStatisticsHandler(statsService, statsFeed, log),
		Draft:      handler.NewDraftHandler(draftService, log),
		WS:         handler.NewWSHandler(statsService, statsFeed, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	completionWorker := worker.NewCompletionWorker(rdb, completionRepo, statsFeed, log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		completionWorker.Start(workerCtx)
	}()

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load every respondent payload into Redis BEFORE accepting traffic.
	if err := quizService.PrewarmRunnerCache(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the completion worker and wait for its final flush.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(workerDrainTimeout):
		log.Warn().Msg("Completion worker did not drain in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
