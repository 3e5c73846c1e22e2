package repositories

import (
	"context"

	"agrichain.backend/internal/domain/entities"
)

// SessionStore keeps authenticated sessions. Get returns
// domainerrors.ErrNotFound for unknown or expired sessions.
type SessionStore interface {
	Create(ctx context.Context, session *entities.Session) error
	Get(ctx context.Context, id string) (*entities.Session, error)
	Delete(ctx context.Context, id string) error
}
