package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/spanish-quiz-bot/internal/service"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope carries the error and, when a session exists, its unchanged view.
type ErrorEnvelope struct {
	Error APIError      `json:"error"`
	View  *service.View `json:"view,omitempty"`
}

type ViewEnvelope struct {
	ID   string       `json:"id,omitempty"`
	View service.View `json:"view"`
}

func RespondError(c *gin.Context, status int, code string, err error, view *service.View) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
		View: view,
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
