package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/quiz-backend/internal/model"
)

func (env *testEnv) draft(t *testing.T, method, path string, body interface{}) model.Draft {
	t.Helper()
	code, e := env.do(t, method, path, body)
	require.Less(t, code, 300, "unexpected status %d: %+v", code, e.Error)

	var d model.Draft
	decodeData(t, e, "draft", &d)
	return d
}

func TestDraftAuthoringFlow(t *testing.T) {
	env := newTestEnv()

	d := env.draft(t, http.MethodPost, "/api/v1/drafts", nil)
	assert.Empty(t, d.Questions)
	base := "/api/v1/drafts/" + d.ID.String()

	d = env.draft(t, http.MethodPut, base, map[string]string{"name": "Colors", "description": "Primary colors"})
	assert.Equal(t, "Colors", d.Name)

	d = env.draft(t, http.MethodPost, base+"/questions", map[string]string{"question": "Pick red", "type": "single"})
	require.Len(t, d.Questions, 1)
	q := "/questions/1"
	assert.Equal(t, model.QuestionTypeSingle, d.Questions[0].Type())

	d = env.draft(t, http.MethodPost, base+q+"/options", nil)
	require.Len(t, d.Questions[0].Options(), 2)

	env.draft(t, http.MethodPut, base+q+"/options/1", map[string]string{"text": "Red"})
	env.draft(t, http.MethodPut, base+q+"/options/2", map[string]string{"text": "Blue"})
	d = env.draft(t, http.MethodPost, base+q+"/options/1/toggle", nil)
	assert.Equal(t, 1, *d.Questions[0].Body.(*model.SingleBody).Correct)

	d = env.draft(t, http.MethodPost, base+"/questions", map[string]string{"question": "Say blue"})
	require.Len(t, d.Questions, 2)
	assert.Equal(t, 2, d.Questions[1].ID)
	env.draft(t, http.MethodPut, base+"/questions/2", map[string]string{"answer": "blue"})

	d = env.draft(t, http.MethodPost, base+"/questions/2/move", map[string]int{"index": 0})
	assert.Equal(t, []int{2, 1}, []int{d.Questions[0].ID, d.Questions[1].ID})

	code, e := env.do(t, http.MethodPost, base+"/publish", nil)
	require.Equal(t, http.StatusCreated, code, "%+v", e.Error)
	var published model.Quiz
	decodeData(t, e, "quiz", &published)
	assert.Equal(t, "Colors", published.Name)
	assert.Len(t, published.Questions, 2)

	code, e = env.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "DRAFT_NOT_FOUND", e.Error.Code)
}

func TestDraftPublishRejectsIncompleteDraft(t *testing.T) {
	env := newTestEnv()
	d := env.draft(t, http.MethodPost, "/api/v1/drafts", map[string]string{"name": "Half done", "description": "D"})

	code, e := env.do(t, http.MethodPost, "/api/v1/drafts/"+d.ID.String()+"/publish", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Quiz must have at least one question", e.Error.Message)

	code, _ = env.do(t, http.MethodGet, "/api/v1/drafts/"+d.ID.String(), nil)
	assert.Equal(t, http.StatusOK, code, "a rejected draft is kept")
}

func TestDraftFromQuizUpdatesThatQuiz(t *testing.T) {
	env := newTestEnv()
	created := env.createQuiz(t)

	d := env.draft(t, http.MethodPost, "/api/v1/quizzes/"+created.ID.String()+"/draft", nil)
	require.NotNil(t, d.QuizID)
	assert.Equal(t, created.ID, *d.QuizID)
	base := "/api/v1/drafts/" + d.ID.String()

	env.draft(t, http.MethodPut, base+"/questions/1", map[string]string{"question": "Capital city of France?"})

	code, e := env.do(t, http.MethodPost, base+"/publish", nil)
	require.Equal(t, http.StatusCreated, code)
	var published model.Quiz
	decodeData(t, e, "quiz", &published)
	assert.Equal(t, created.ID, published.ID)

	stored, err := env.quizzes.GetByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Capital city of France?", stored.Questions[0].Text)

	code, _ = env.do(t, http.MethodPost, "/api/v1/quizzes/"+uuid.NewString()+"/draft", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDraftEditErrors(t *testing.T) {
	env := newTestEnv()
	d := env.draft(t, http.MethodPost, "/api/v1/drafts", nil)
	base := "/api/v1/drafts/" + d.ID.String()
	env.draft(t, http.MethodPost, base+"/questions", map[string]string{"question": "Q", "type": "multiple"})
	env.draft(t, http.MethodPost, base+"/questions", map[string]string{"question": "T"})

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"unknown question", http.MethodDelete, base + "/questions/9", nil, http.StatusNotFound, "QUESTION_NOT_FOUND"},
		{"unknown option", http.MethodPost, base + "/questions/1/options/7/toggle", nil, http.StatusNotFound, "OPTION_NOT_FOUND"},
		{"last option", http.MethodDelete, base + "/questions/1/options/1", nil, http.StatusBadRequest, "LAST_OPTION"},
		{"options on text question", http.MethodPost, base + "/questions/2/options", nil, http.StatusBadRequest, "NOT_CHOICE_QUESTION"},
		{"answer on choice question", http.MethodPut, base + "/questions/1", map[string]string{"answer": "x"}, http.StatusBadRequest, "NOT_TEXT_QUESTION"},
		{"bad type", http.MethodPut, base + "/questions/1/type", map[string]string{"type": "essay"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"move without index", http.MethodPost, base + "/questions/1/move", map[string]string{}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"non numeric question id", http.MethodDelete, base + "/questions/abc", nil, http.StatusBadRequest, "INVALID_ID"},
		{"unknown draft", http.MethodGet, "/api/v1/drafts/" + uuid.NewString(), nil, http.StatusNotFound, "DRAFT_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, e := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, code)
			require.NotNil(t, e.Error)
			assert.Equal(t, tt.code, e.Error.Code)
		})
	}
}

func TestDeleteDraft(t *testing.T) {
	env := newTestEnv()
	d := env.draft(t, http.MethodPost, "/api/v1/drafts", nil)

	code, _ := env.do(t, http.MethodDelete, "/api/v1/drafts/"+d.ID.String(), nil)
	assert.Equal(t, http.StatusOK, code)

	code, e := env.do(t, http.MethodDelete, "/api/v1/drafts/"+d.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "DRAFT_NOT_FOUND", e.Error.Code)
}
