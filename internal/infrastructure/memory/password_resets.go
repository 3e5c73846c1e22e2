package memory

import (
	"context"
	"time"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
)

// PasswordResetRepository keeps hashed reset tokens in memory.
type PasswordResetRepository struct {
	s *Store
}

func NewPasswordResetRepository(s *Store) *PasswordResetRepository {
	return &PasswordResetRepository{s: s}
}

func (r *PasswordResetRepository) Create(ctx context.Context, token *entities.PasswordResetToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextResetTokenID++
	token.ID = r.s.nextResetTokenID
	token.CreatedAt = r.s.now()
	c := *token
	r.s.resetTokens[token.ID] = &c
	id := token.ID
	record(ctx, func() { delete(r.s.resetTokens, id) })
	return nil
}

func (r *PasswordResetRepository) GetActiveByHash(_ context.Context, tokenHash string, now time.Time) (*entities.PasswordResetToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.resetTokens {
		if t.TokenHash == tokenHash && t.Usable(now) {
			c := *t
			return &c, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

// MarkUsed claims an unused token. A token that was already redeemed
// reports ErrNotFound.
func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id int64, usedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.resetTokens[id]
	if !ok || t.UsedAt != nil {
		return domainerrors.ErrNotFound
	}
	at := usedAt
	t.UsedAt = &at
	record(ctx, func() { t.UsedAt = nil })
	return nil
}

// DeleteExpired drops tokens that expired before the cutoff, used or not.
func (r *PasswordResetRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, t := range r.s.resetTokens {
		if t.ExpiresAt.Before(before) {
			delete(r.s.resetTokens, id)
			n++
		}
	}
	return n, nil
}
