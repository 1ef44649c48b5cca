package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/response"
	"github.com/stemsi/quiz-backend/internal/service"
)

// QuizHandler handles quiz CRUD and the respondent payload.
type QuizHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, log zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		log:         log.With().Str("component", "quiz_handler").Logger(),
	}
}

// ListQuizzes godoc
// GET /api/v1/quizzes?offset=N
// Lists one page of quizzes in creation order, with completion counts.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"offset": "offset must be a non-negative integer"})
		return
	}

	quizzes, pagination, err := h.quizService.List(c.Request.Context(), offset)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"quizzes": quizzes}, pagination)
}

// CreateQuiz godoc
// POST /api/v1/quizzes
// Validates and stores a new quiz.
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req model.QuizRequest
	if !bindJSON(c, &req) {
		return
	}

	q := req.Quiz()
	if err := h.quizService.Create(c.Request.Context(), &q); err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": q})
}

// GetQuiz godoc
// GET /api/v1/quizzes/:quiz_id
// Returns the full quiz including its answer key.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	q, err := h.quizService.GetByID(c.Request.Context(), id)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": q})
}

// UpdateQuiz godoc
// PUT /api/v1/quizzes/:quiz_id
// Replaces a quiz after validating it.
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	id, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	var req model.QuizRequest
	if !bindJSON(c, &req) {
		return
	}

	q := req.Quiz()
	q.ID = id
	if err := h.quizService.Update(c.Request.Context(), &q); err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": q})
}

// DeleteQuiz godoc
// DELETE /api/v1/quizzes/:quiz_id
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	id, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), id); err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "quiz deleted successfully"})
}

// RunQuiz godoc
// GET /api/v1/quizzes/:quiz_id/run
// Returns the respondent view of a quiz, without correctness data.
func (h *QuizHandler) RunQuiz(c *gin.Context) {
	id, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	payload, err := h.quizService.RunnerPayload(c.Request.Context(), id)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": payload})
}
