package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/quiz-backend/internal/quiz"
	"github.com/stemsi/quiz-backend/internal/repository"
	"github.com/stemsi/quiz-backend/internal/response"
	"github.com/stemsi/quiz-backend/internal/service"
	"github.com/stemsi/quiz-backend/internal/validator"
)

// failFromError maps domain and storage errors to the response envelope.
// Unknown errors are logged and reported as 500.
func failFromError(c *gin.Context, log zerolog.Logger, err error) {
	var ve *quiz.ValidationError
	switch {
	case errors.As(err, &ve):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, ve.Message, ve.Fields())
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrDraftNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrDraftNotFound)
	case errors.Is(err, quiz.ErrQuestionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrQuestionNotFound)
	case errors.Is(err, quiz.ErrOptionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrOptionNotFound)
	case errors.Is(err, quiz.ErrLastOption):
		response.Fail(c, http.StatusBadRequest, response.ErrLastOption)
	case errors.Is(err, quiz.ErrNotChoiceQuestion):
		response.Fail(c, http.StatusBadRequest, response.ErrNotChoiceQuestion)
	case errors.Is(err, quiz.ErrNotTextQuestion):
		response.Fail(c, http.StatusBadRequest, response.ErrNotTextQuestion)
	case errors.Is(err, quiz.ErrUnknownType):
		response.Fail(c, http.StatusBadRequest, response.ErrUnknownType)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// bindJSON binds the body into dst and writes a 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if fields := validator.Bind(c, dst); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return false
	}
	return true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return n, true
}
