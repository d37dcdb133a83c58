package telegram

import (
	"errors"
	"strconv"

	"github.com/aliskhannn/spanish-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/spanish-quiz-bot/internal/service"
)

// sessionKey keeps Telegram sessions apart from web ones in the shared store.
func sessionKey(userID int64) string {
	return "tg:" + strconv.FormatInt(userID, 10)
}

// toastFor returns the popup shown for a rejected button press.
func toastFor(err error) string {
	switch {
	case errors.Is(err, entities.ErrChapterLocked):
		return msgChapterLocked
	case errors.Is(err, entities.ErrAlreadyAnswered):
		return msgAlreadyAnswered
	case errors.Is(err, service.ErrStaleAction):
		return msgStaleButton
	case isNoContent(err):
		return msgNoContent
	default:
		return ""
	}
}

func isNoContent(err error) bool {
	return errors.Is(err, entities.ErrNoContent)
}
