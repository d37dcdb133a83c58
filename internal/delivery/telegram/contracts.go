package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/spanish-quiz-bot/internal/service"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type QuizService interface {
	Start(key string) (service.View, error)
	Restart(key string) service.View
	Exists(key string) bool
	SelectChapter(key string, chapter int) (service.View, error)
	SelectOption(key string, chapter, questionNum, option int) (service.View, error)
	Advance(key string) (service.View, error)
	Retry(key string) (service.View, error)
	Proceed(key string) (service.View, error)
	BackToHome(key string) (service.View, error)
	ShowSummary(key string) (service.View, error)
}
