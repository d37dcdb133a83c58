package service

import (
	"context"

	"github.com/aliskhannn/spanish-quiz-bot/internal/domain/entities"
)

// ContentSource loads the quiz document once.
type ContentSource interface {
	Load(ctx context.Context) (*entities.Content, error)
}

// SessionStore keeps one quiz session per key and serializes access to it.
type SessionStore interface {
	Store(key string, session *entities.QuizSession)
	With(key string, fn func(*entities.QuizSession) error) error
	WithOrCreate(key string, create func() *entities.QuizSession, fn func(*entities.QuizSession) error) error
	Exists(key string) bool
	Delete(key string)
}
