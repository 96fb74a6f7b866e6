package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/thywilljoshua/docu-learn/internal/study"
)

// SessionStore is an in-memory implementation of study.SessionRepository.
// Entries expire ttl after their last write; expired entries are dropped
// lazily on access.
type SessionStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]entry
}

type entry struct {
	session   study.Session
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return NewSessionStoreWithClock(ttl, time.Now)
}

// NewSessionStoreWithClock allows deterministic expiry in tests.
func NewSessionStoreWithClock(ttl time.Duration, now func() time.Time) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		now:      now,
		sessions: make(map[string]entry),
	}
}

func (s *SessionStore) Create(_ context.Context, session study.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.sessions[session.ID] = s.entryLocked(session)
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (study.Session, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || s.expired(e) {
		return study.Session{}, study.ErrSessionNotFound
	}
	return clone(e.session), nil
}

func (s *SessionStore) Update(_ context.Context, id string, fn func(*study.Session) error) (study.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok || s.expired(e) {
		delete(s.sessions, id)
		return study.Session{}, study.ErrSessionNotFound
	}
	session := clone(e.session)
	if err := fn(&session); err != nil {
		return study.Session{}, err
	}
	s.sessions[id] = s.entryLocked(session)
	return clone(session), nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	if !ok || s.expired(e) {
		return study.ErrSessionNotFound
	}
	return nil
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.sessions)
}

func (s *SessionStore) entryLocked(session study.Session) entry {
	e := entry{session: clone(session)}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	return e
}

func (s *SessionStore) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

func (s *SessionStore) sweepLocked() {
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
		}
	}
}

// clone copies the activity map so callers never share it with the store.
func clone(session study.Session) study.Session {
	session.Activities = maps.Clone(session.Activities)
	return session
}
