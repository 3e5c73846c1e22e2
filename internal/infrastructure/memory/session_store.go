package memory

import (
	"context"
	"sync"
	"time"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
)

// SessionStore keeps sessions in process memory. Expired sessions are
// invisible to Get and are removed by Prune.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]entities.Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]entities.Session),
		now:      time.Now,
	}
}

func (s *SessionStore) Create(_ context.Context, session *entities.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*entities.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok || sess.Expired(s.now()) {
		return nil, domainerrors.ErrNotFound
	}
	return &sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Prune removes sessions that expired at or before now and returns how many were dropped.
func (s *SessionStore) Prune(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions, expired or not.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
