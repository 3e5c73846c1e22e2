package cache

import (
	"context"
	"errors"
	"time"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
	pkgredis "agrichain.backend/pkg/redis"
)

// SessionStore adapts the encrypted Redis store to the domain interface.
// The Redis TTL is the session's remaining lifetime.
type SessionStore struct {
	store *pkgredis.SessionStore
	now   func() time.Time
}

func NewSessionStore(store *pkgredis.SessionStore) *SessionStore {
	return &SessionStore{store: store, now: time.Now}
}

func (s *SessionStore) Create(ctx context.Context, session *entities.Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return domainerrors.ErrInvalidInput
	}
	return s.store.CreateSession(ctx, session.ID, &pkgredis.SessionData{
		UserID:    session.UserID,
		Username:  session.Username,
		Role:      string(session.Role),
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}, ttl)
}

func (s *SessionStore) Get(ctx context.Context, id string) (*entities.Session, error) {
	data, err := s.store.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, pkgredis.ErrSessionNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	sess := &entities.Session{
		ID:        id,
		UserID:    data.UserID,
		Username:  data.Username,
		Role:      entities.UserRole(data.Role),
		CreatedAt: data.CreatedAt,
		ExpiresAt: data.ExpiresAt,
	}
	if sess.Expired(s.now()) {
		return nil, domainerrors.ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.store.DeleteSession(ctx, id)
}
