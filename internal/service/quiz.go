package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/aliskhannn/spanish-quiz-bot/internal/domain/entities"
)

// ErrStaleAction is returned when an action targets a question that is no
// longer on screen, e.g. a button pressed on an old message.
var ErrStaleAction = errors.New("action refers to a question no longer on screen")

// QuizConfig holds the rules applied to every new session.
type QuizConfig struct {
	Policy        entities.PassPolicy
	QuestionLimit int // questions per chapter attempt, 0 means all
}

type QuizService struct {
	logger    *zap.Logger
	store     SessionStore
	cfg       QuizConfig
	content   atomic.Pointer[entities.Content]
	newRandom func() entities.Randomizer
}

func NewQuizService(logger *zap.Logger, store SessionStore, cfg QuizConfig) *QuizService {
	s := &QuizService{
		logger:    logger,
		store:     store,
		cfg:       cfg,
		newRandom: entities.NewRandomizer,
	}
	s.content.Store(&entities.Content{})
	return s
}

// LoadContent loads the quiz document from src. On failure the error is
// logged and returned, and the service keeps serving the no-content screen.
func (s *QuizService) LoadContent(ctx context.Context, src ContentSource) error {
	content, err := src.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load quiz content", zap.Error(err))
		return fmt.Errorf("load content: %w", err)
	}

	s.content.Store(content)

	questions := 0
	for _, ch := range content.Chapters {
		questions += len(ch.Questions)
	}
	s.logger.Info("quiz content loaded",
		zap.Int("chapters", len(content.Chapters)),
		zap.Int("questions", questions),
	)

	return nil
}

// Content returns the loaded quiz document, empty until LoadContent succeeds.
func (s *QuizService) Content() *entities.Content {
	return s.content.Load()
}

// Start returns the session stored under key, creating it on first contact.
func (s *QuizService) Start(key string) (View, error) {
	var v View
	err := s.store.WithOrCreate(key, s.newSession, func(q *entities.QuizSession) error {
		v = BuildView(q)
		return nil
	})
	return v, err
}

// Restart replaces the session stored under key with a fresh one.
func (s *QuizService) Restart(key string) View {
	q := s.newSession()
	s.store.Store(key, q)

	s.logger.Debug("quiz session restarted", zap.String("session", key))
	return BuildView(q)
}

// Exists reports whether a session is stored under key.
func (s *QuizService) Exists(key string) bool {
	return s.store.Exists(key)
}

// Delete drops the session stored under key.
func (s *QuizService) Delete(key string) {
	s.store.Delete(key)
}

// View returns the current screen of the session stored under key.
func (s *QuizService) View(key string) (View, error) {
	var v View
	err := s.store.With(key, func(q *entities.QuizSession) error {
		v = BuildView(q)
		return nil
	})
	return v, err
}

func (s *QuizService) SelectChapter(key string, chapter int) (View, error) {
	return s.apply(key, "select_chapter", func(q *entities.QuizSession) error {
		return q.SelectChapter(chapter)
	}, zap.Int("chapter", chapter))
}

func (s *QuizService) SelectAnswer(key, option string) (View, error) {
	return s.apply(key, "select_answer", func(q *entities.QuizSession) error {
		return q.SelectAnswer(option)
	}, zap.String("option", option))
}

// SelectOption answers the question at position questionNum (1-based) of
// chapter with its shuffled option at index option. The position guards
// against buttons of questions that are no longer on screen.
func (s *QuizService) SelectOption(key string, chapter, questionNum, option int) (View, error) {
	return s.apply(key, "select_option", func(q *entities.QuizSession) error {
		if q.Screen() != entities.ScreenQuestion ||
			q.CurrentChapter() != chapter ||
			q.CurrentQuestionIndex()+1 != questionNum {
			return ErrStaleAction
		}
		return q.SelectOption(option)
	},
		zap.Int("chapter", chapter),
		zap.Int("question", questionNum),
		zap.Int("option", option),
	)
}

func (s *QuizService) Advance(key string) (View, error) {
	return s.apply(key, "advance", (*entities.QuizSession).Advance)
}

func (s *QuizService) Retry(key string) (View, error) {
	return s.apply(key, "retry", (*entities.QuizSession).Retry)
}

func (s *QuizService) Proceed(key string) (View, error) {
	return s.apply(key, "proceed", (*entities.QuizSession).Proceed)
}

func (s *QuizService) BackToHome(key string) (View, error) {
	return s.apply(key, "back_to_home", (*entities.QuizSession).BackToHome)
}

func (s *QuizService) ShowSummary(key string) (View, error) {
	return s.apply(key, "show_summary", (*entities.QuizSession).ShowSummary)
}

// IsSuppressed reports whether err is an expected navigation no-op: the
// action is ignored and the screen stays as it was.
func IsSuppressed(err error) bool {
	return errors.Is(err, entities.ErrChapterLocked) ||
		errors.Is(err, entities.ErrAlreadyAnswered) ||
		errors.Is(err, entities.ErrNoAnswerSelected) ||
		errors.Is(err, entities.ErrChapterPassed) ||
		errors.Is(err, entities.ErrChapterNotPassed) ||
		errors.Is(err, entities.ErrInvalidTransition) ||
		errors.Is(err, ErrStaleAction)
}

// apply runs one transition and returns the resulting view. The view is
// filled even when the transition fails, so callers can re-render.
func (s *QuizService) apply(
	key, action string,
	fn func(*entities.QuizSession) error,
	fields ...zap.Field,
) (View, error) {
	var v View

	err := s.store.With(key, func(q *entities.QuizSession) error {
		from := q.Screen()
		err := fn(q)
		v = BuildView(q)

		fields = append(fields,
			zap.String("session", key),
			zap.String("action", action),
			zap.String("from", string(from)),
			zap.String("to", string(v.Screen)),
		)
		switch {
		case err == nil:
			s.logger.Debug("quiz transition", fields...)
		case IsSuppressed(err) || errors.Is(err, entities.ErrNoContent):
			s.logger.Debug("quiz action ignored", append(fields, zap.Error(err))...)
		default:
			s.logger.Error("quiz action failed", append(fields, zap.Error(err))...)
		}

		return err
	})

	return v, err
}

func (s *QuizService) newSession() *entities.QuizSession {
	return entities.NewQuizSession(s.Content(), entities.SessionOptions{
		Policy:        s.cfg.Policy,
		QuestionLimit: s.cfg.QuestionLimit,
		Random:        s.newRandom(),
	})
}
