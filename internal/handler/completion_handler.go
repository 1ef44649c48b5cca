package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/response"
	"github.com/stemsi/quiz-backend/internal/service"
)

// CompletionHandler handles respondent submissions and completion listings.
type CompletionHandler struct {
	completionService *service.CompletionService
	log               zerolog.Logger
}

// NewCompletionHandler creates a new CompletionHandler.
func NewCompletionHandler(completionService *service.CompletionService, log zerolog.Logger) *CompletionHandler {
	return &CompletionHandler{
		completionService: completionService,
		log:               log.With().Str("component", "completion_handler").Logger(),
	}
}

// SubmitCompletion godoc
// POST /api/v1/quizzes/:quiz_id/completions
// Grades a submission and records it.
func (h *CompletionHandler) SubmitCompletion(c *gin.Context) {
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	var req model.SubmitCompletionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.completionService.Submit(c.Request.Context(), quizID, &req)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// ListCompletions godoc
// GET /api/v1/quizzes/:quiz_id/completions
func (h *CompletionHandler) ListCompletions(c *gin.Context) {
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	completions, err := h.completionService.List(c.Request.Context(), quizID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"completions": completions})
}

// CountCompletions godoc
// GET /api/v1/quizzes/:quiz_id/completions/count
func (h *CompletionHandler) CountCompletions(c *gin.Context) {
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	count, err := h.completionService.Count(c.Request.Context(), quizID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"count": count})
}
