package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/model"
	"github.com/stemsi/quiz-backend/internal/response"
	"github.com/stemsi/quiz-backend/internal/service"
)

// DraftHandler handles the authoring workflow: drafts are edited step by
// step and published as quizzes.
type DraftHandler struct {
	draftService *service.DraftService
	log          zerolog.Logger
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(draftService *service.DraftService, log zerolog.Logger) *DraftHandler {
	return &DraftHandler{
		draftService: draftService,
		log:          log.With().Str("component", "draft_handler").Logger(),
	}
}

// CreateDraft godoc
// POST /api/v1/drafts
// Starts an empty draft, or one pre-filled from the request body.
func (h *DraftHandler) CreateDraft(c *gin.Context) {
	var req *model.QuizRequest
	if c.Request.ContentLength != 0 {
		req = &model.QuizRequest{}
		if !bindJSON(c, req) {
			return
		}
	}

	d, err := h.draftService.Create(c.Request.Context(), req)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"draft": d})
}

// CreateDraftFromQuiz godoc
// POST /api/v1/quizzes/:quiz_id/draft
// Starts a draft that edits an existing quiz.
func (h *DraftHandler) CreateDraftFromQuiz(c *gin.Context) {
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	d, err := h.draftService.FromQuiz(c.Request.Context(), quizID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"draft": d})
}

// GetDraft godoc
// GET /api/v1/drafts/:draft_id
func (h *DraftHandler) GetDraft(c *gin.Context) {
	id, ok := uuidParam(c, "draft_id")
	if !ok {
		return
	}

	d, err := h.draftService.Get(c.Request.Context(), id)
	h.reply(c, d, err)
}

// ReplaceDraft godoc
// PUT /api/v1/drafts/:draft_id
func (h *DraftHandler) ReplaceDraft(c *gin.Context) {
	id, ok := uuidParam(c, "draft_id")
	if !ok {
		return
	}

	var req model.QuizRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.draftService.Replace(c.Request.Context(), id, &req)
	h.reply(c, d, err)
}

// DeleteDraft godoc
// DELETE /api/v1/drafts/:draft_id
func (h *DraftHandler) DeleteDraft(c *gin.Context) {
	id, ok := uuidParam(c, "draft_id")
	if !ok {
		return
	}

	if err := h.draftService.Delete(c.Request.Context(), id); err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "draft deleted successfully"})
}

// AddQuestion godoc
// POST /api/v1/drafts/:draft_id/questions
func (h *DraftHandler) AddQuestion(c *gin.Context) {
	id, ok := uuidParam(c, "draft_id")
	if !ok {
		return
	}

	var req model.AddQuestionRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	d, err := h.draftService.AddQuestion(c.Request.Context(), id, &req)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"draft": d})
}

// UpdateQuestion godoc
// PUT /api/v1/drafts/:draft_id/questions/:question_id
// Edits the question text and, for text questions, the expected answer.
func (h *DraftHandler) UpdateQuestion(c *gin.Context) {
	id, questionID, ok := h.questionParams(c)
	if !ok {
		return
	}

	var req model.UpdateQuestionRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.draftService.UpdateQuestion(c.Request.Context(), id, questionID, &req)
	h.reply(c, d, err)
}

// RemoveQuestion godoc
// DELETE /api/v1/drafts/:draft_id/questions/:question_id
func (h *DraftHandler) RemoveQuestion(c *gin.Context) {
	id, questionID, ok := h.questionParams(c)
	if !ok {
		return
	}

	d, err := h.draftService.RemoveQuestion(c.Request.Context(), id, questionID)
	h.reply(c, d, err)
}

// MoveQuestion godoc
// POST /api/v1/drafts/:draft_id/questions/:question_id/move
func (h *DraftHandler) MoveQuestion(c *gin.Context) {
	id, questionID, ok := h.questionParams(c)
	if !ok {
		return
	}

	var req model.MoveQuestionRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.draftService.MoveQuestion(c.Request.Context(), id, questionID, *req.Index)
	h.reply(c, d, err)
}

// ChangeType godoc
// PUT /api/v1/drafts/:draft_id/questions/:question_id/type
func (h *DraftHandler) ChangeType(c *gin.Context) {
	id, questionID, ok := h.questionParams(c)
	if !ok {
		return
	}

	var req model.ChangeTypeRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.draftService.ChangeType(c.Request.Context(), id, questionID, req.Type)
	h.reply(c, d, err)
}

// AddOption godoc
// POST /api/v1/drafts/:draft_id/questions/:question_id/options
func (h *DraftHandler) AddOption(c *gin.Context) {
	id, questionID, ok := h.questionParams(c)
	if !ok {
		return
	}

	d, err := h.draftService.AddOption(c.Request.Context(), id, questionID)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"draft": d})
}

// RemoveOption godoc
// DELETE /api/v1/drafts/:draft_id/questions/:question_id/options/:option_id
func (h *DraftHandler) RemoveOption(c *gin.Context) {
	id, questionID, optionID, ok := h.optionParams(c)
	if !ok {
		return
	}

	d, err := h.draftService.RemoveOption(c.Request.Context(), id, questionID, optionID)
	h.reply(c, d, err)
}

// SetOptionText godoc
// PUT /api/v1/drafts/:draft_id/questions/:question_id/options/:option_id
func (h *DraftHandler) SetOptionText(c *gin.Context) {
	id, questionID, optionID, ok := h.optionParams(c)
	if !ok {
		return
	}

	var req model.OptionTextRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.draftService.SetOptionText(c.Request.Context(), id, questionID, optionID, req.Text)
	h.reply(c, d, err)
}

// ToggleCorrect godoc
// POST /api/v1/drafts/:draft_id/questions/:question_id/options/:option_id/toggle
func (h *DraftHandler) ToggleCorrect(c *gin.Context) {
	id, questionID, optionID, ok := h.optionParams(c)
	if !ok {
		return
	}

	d, err := h.draftService.ToggleCorrect(c.Request.Context(), id, questionID, optionID)
	h.reply(c, d, err)
}

// PublishDraft godoc
// POST /api/v1/drafts/:draft_id/publish
// Validates the draft and stores it as a quiz. The draft is removed.
func (h *DraftHandler) PublishDraft(c *gin.Context) {
	id, ok := uuidParam(c, "draft_id")
	if !ok {
		return
	}

	q, err := h.draftService.Publish(c.Request.Context(), id)
	if err != nil {
		failFromError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": q})
}

func (h *DraftHandler) reply(c *gin.Context, d *model.Draft, err error) {
	if err != nil {
		failFromError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"draft": d})
}

func (h *DraftHandler) questionParams(c *gin.Context) (uuid.UUID, int, bool) {
	id, ok := uuidParam(c, "draft_id")
	if !ok {
		return uuid.Nil, 0, false
	}
	questionID, ok := intParam(c, "question_id")
	if !ok {
		return uuid.Nil, 0, false
	}
	return id, questionID, true
}

func (h *DraftHandler) optionParams(c *gin.Context) (uuid.UUID, int, int, bool) {
	id, questionID, ok := h.questionParams(c)
	if !ok {
		return uuid.Nil, 0, 0, false
	}
	optionID, ok := intParam(c, "option_id")
	if !ok {
		return uuid.Nil, 0, 0, false
	}
	return id, questionID, optionID, true
}
