package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/spanish-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/spanish-quiz-bot/internal/service"
	"github.com/aliskhannn/spanish-quiz-bot/internal/storage"
)

var (
	errTooManyRequests = errors.New("too many requests")
	errInvalidSession  = errors.New("invalid session id")
	errInvalidIndex    = errors.New("chapter index must be a number")
)

// sessionKeyPrefix keeps browser sessions apart from Telegram ones in the shared store.
const sessionKeyPrefix = "web:"

type QuizHandler struct {
	logger *zap.Logger
	quiz   QuizService
}

func NewQuizHandler(logger *zap.Logger, quiz QuizService) *QuizHandler {
	return &QuizHandler{logger: logger, quiz: quiz}
}

type answerRequest struct {
	Option string `json:"option" binding:"required"`
}

// GET /quizData.json
func (h *QuizHandler) ContentDocument(c *gin.Context) {
	content := h.quiz.Content()
	if content.Empty() {
		RespondError(c, http.StatusServiceUnavailable, "no_content", entities.ErrNoContent, nil)
		return
	}
	RespondOK(c, content)
}

// POST /api/sessions
func (h *QuizHandler) CreateSession(c *gin.Context) {
	id := uuid.NewString()

	view, err := h.quiz.Start(sessionKeyPrefix + id)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "create_session_failed", err, nil)
		return
	}

	h.logger.Debug("web session created", zap.String("session_id", id))
	c.JSON(http.StatusCreated, ViewEnvelope{ID: id, View: view})
}

// GET /api/sessions/:id
func (h *QuizHandler) GetSession(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}
	view, err := h.quiz.View(key)
	h.respond(c, view, err)
}

// DELETE /api/sessions/:id
func (h *QuizHandler) DeleteSession(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}
	h.quiz.Delete(key)
	c.Status(http.StatusNoContent)
}

// POST /api/sessions/:id/chapters/:index
func (h *QuizHandler) SelectChapter(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", errInvalidIndex, nil)
		return
	}

	view, err := h.quiz.SelectChapter(key, index)
	h.respond(c, view, err)
}

// POST /api/sessions/:id/answer
func (h *QuizHandler) SelectAnswer(c *gin.Context) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err, nil)
		return
	}

	view, err := h.quiz.SelectAnswer(key, req.Option)
	h.respond(c, view, err)
}

// POST /api/sessions/:id/advance
func (h *QuizHandler) Advance(c *gin.Context) { h.action(c, h.quiz.Advance) }

// POST /api/sessions/:id/retry
func (h *QuizHandler) Retry(c *gin.Context) { h.action(c, h.quiz.Retry) }

// POST /api/sessions/:id/proceed
func (h *QuizHandler) Proceed(c *gin.Context) { h.action(c, h.quiz.Proceed) }

// POST /api/sessions/:id/home
func (h *QuizHandler) BackToHome(c *gin.Context) { h.action(c, h.quiz.BackToHome) }

// POST /api/sessions/:id/summary
func (h *QuizHandler) ShowSummary(c *gin.Context) { h.action(c, h.quiz.ShowSummary) }

func (h *QuizHandler) action(c *gin.Context, fn func(key string) (service.View, error)) {
	key, ok := sessionKey(c)
	if !ok {
		return
	}
	view, err := fn(key)
	h.respond(c, view, err)
}

func (h *QuizHandler) respond(c *gin.Context, view service.View, err error) {
	switch {
	case err == nil:
		RespondOK(c, ViewEnvelope{View: view})
	case errors.Is(err, storage.ErrSessionNotFound):
		RespondError(c, http.StatusNotFound, "session_not_found", err, nil)
	case errors.Is(err, entities.ErrNoContent):
		RespondError(c, http.StatusServiceUnavailable, "no_content", err, &view)
	case service.IsSuppressed(err):
		RespondError(c, http.StatusConflict, "action_ignored", err, &view)
	case errors.Is(err, entities.ErrChapterNotFound), errors.Is(err, entities.ErrOptionNotFound):
		RespondError(c, http.StatusBadRequest, "out_of_range", err, &view)
	default:
		h.logger.Error("quiz action failed", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "internal_error", err, nil)
	}
}

// sessionKey resolves the :id parameter or writes a 404.
func sessionKey(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusNotFound, "session_not_found", errInvalidSession, nil)
		return "", false
	}
	return sessionKeyPrefix + id.String(), true
}
