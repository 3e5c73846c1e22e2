package repositories

import (
	"context"
	"time"

	"agrichain.backend/internal/domain/entities"
)

// UserRepository defines user data operations. Lookups return
// domainerrors.ErrNotFound when the user does not exist.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id int64) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// PasswordResetRepository stores hashed reset tokens
type PasswordResetRepository interface {
	Create(ctx context.Context, token *entities.PasswordResetToken) error
	GetActiveByHash(ctx context.Context, tokenHash string, now time.Time) (*entities.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id int64, usedAt time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
