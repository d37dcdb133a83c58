package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aliskhannn/spanish-quiz-bot/internal/domain/entities"
)

var ErrSessionNotFound = errors.New("quiz session not found")

type sessionEntry struct {
	mu       sync.Mutex
	session  *entities.QuizSession
	lastSeen atomic.Int64 // unix nanoseconds
}

// SessionStore provides in-memory storage for quiz sessions by key.
// Each session is mutated by one caller at a time.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	now      func() time.Time
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		now:      time.Now,
	}
}

// Store saves a session under key, replacing any previous one.
func (s *SessionStore) Store(key string, session *entities.QuizSession) {
	e := &sessionEntry{session: session}
	e.lastSeen.Store(s.now().UnixNano())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = e
}

// With runs fn on the session stored under key while holding its lock.
func (s *SessionStore) With(key string, fn func(*entities.QuizSession) error) error {
	e := s.get(key)
	if e == nil {
		return ErrSessionNotFound
	}
	return s.run(e, fn)
}

// WithOrCreate is like With but stores create() first when key is unknown.
func (s *SessionStore) WithOrCreate(
	key string,
	create func() *entities.QuizSession,
	fn func(*entities.QuizSession) error,
) error {
	e := s.get(key)
	if e == nil {
		s.mu.Lock()
		e = s.sessions[key]
		if e == nil {
			e = &sessionEntry{session: create()}
			s.sessions[key] = e
		}
		s.mu.Unlock()
	}
	return s.run(e, fn)
}

// Exists reports whether a session is stored under key.
func (s *SessionStore) Exists(key string) bool {
	return s.get(key) != nil
}

// Delete removes the session stored under key.
func (s *SessionStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

// Len returns the number of stored sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than ttl and returns how many were removed.
func (s *SessionStore) Sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.sessions {
		if e.lastSeen.Load() < cutoff {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps idle sessions every interval until ctx is done.
// onSweep, if set, receives the number of sessions removed by each sweep.
func (s *SessionStore) RunJanitor(ctx context.Context, interval, ttl time.Duration, onSweep func(removed int)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed := s.Sweep(ttl)
			if onSweep != nil {
				onSweep(removed)
			}
		}
	}
}

func (s *SessionStore) get(key string) *sessionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[key]
}

func (s *SessionStore) run(e *sessionEntry, fn func(*entities.QuizSession) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastSeen.Store(s.now().UnixNano())
	return fn(e.session)
}
