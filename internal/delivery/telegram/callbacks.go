package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/spanish-quiz-bot/internal/service"
	"github.com/aliskhannn/spanish-quiz-bot/internal/storage"
)

func (h *Handler) handleCallback(_ context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	key := sessionKey(cb.From.ID)
	data := decodeCallback(cb.Data)

	view, err := h.dispatchCallback(key, data)
	if errors.Is(err, storage.ErrSessionNotFound) {
		// The session expired or the bot restarted: begin again on the chapter list.
		view, err = h.quiz.Start(key)
	}

	if err != nil {
		if !service.IsSuppressed(err) && !isNoContent(err) {
			h.logger.Warn("callback rejected",
				zap.Int64("user_id", cb.From.ID),
				zap.String("data", cb.Data),
				zap.Error(err),
			)
		}
		h.answerCallback(cb.ID, toastFor(err))
		return
	}

	text, kb := renderView(view)
	edit := newEdit(cb.Message.Chat.ID, cb.Message.MessageID, text)
	if kb != nil {
		edit.ReplyMarkup = kb
	}
	h.edit(edit)

	// Remove the user's "clock".
	h.answerCallback(cb.ID, "")
}

func (h *Handler) dispatchCallback(key string, data callbackData) (service.View, error) {
	switch data.Action {
	case actionChapter:
		p, err := data.ints(1)
		if err != nil {
			return service.View{}, err
		}
		return h.quiz.SelectChapter(key, p[0])

	case actionAnswer:
		p, err := data.ints(3)
		if err != nil {
			return service.View{}, err
		}
		return h.quiz.SelectOption(key, p[0], p[1], p[2])

	case actionNext:
		return h.quiz.Advance(key)
	case actionRetry:
		return h.quiz.Retry(key)
	case actionProceed:
		return h.quiz.Proceed(key)
	case actionHome:
		return h.quiz.BackToHome(key)
	case actionSummary:
		return h.quiz.ShowSummary(key)
	default:
		return service.View{}, errMalformedCallback
	}
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

// edit applies an in-place screen update. Pressing Home on the chapter list or
// Summary on the summary renders the same screen again, and Telegram rejects
// such edits as not modified.
func (h *Handler) edit(c tgbotapi.EditMessageTextConfig) {
	_, err := h.bot.Send(c)
	switch {
	case err == nil:
	case strings.Contains(err.Error(), "message is not modified"):
		h.logger.Debug("screen unchanged", zap.Int("message_id", c.MessageID))
	default:
		h.logger.Error("failed to edit telegram message",
			zap.Int("message_id", c.MessageID),
			zap.Error(err),
		)
	}
}
