package web

import (
	"github.com/aliskhannn/spanish-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/spanish-quiz-bot/internal/service"
)

type QuizService interface {
	Content() *entities.Content
	Start(key string) (service.View, error)
	Delete(key string)
	View(key string) (service.View, error)
	SelectChapter(key string, chapter int) (service.View, error)
	SelectAnswer(key, option string) (service.View, error)
	Advance(key string) (service.View, error)
	Retry(key string) (service.View, error)
	Proceed(key string) (service.View, error)
	BackToHome(key string) (service.View, error)
	ShowSummary(key string) (service.View, error)
}
