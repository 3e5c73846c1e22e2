package memory

import (
	"context"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
)

// VerificationRepository is an append-only log of verification records.
type VerificationRepository struct {
	s *Store
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(s *Store) *VerificationRepository {
	return &VerificationRepository{s: s}
}

// Create stamps verifiedAt and appends a copy of v.
func (r *VerificationRepository) Create(ctx context.Context, v *entities.Verification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextVerificationID++
	v.ID = r.s.nextVerificationID
	if v.VerifiedAt.IsZero() {
		v.VerifiedAt = r.s.now()
	}
	r.s.verifications[v.ID] = v.Clone()
	id := v.ID
	record(ctx, func() { delete(r.s.verifications, id) })
	return nil
}

// GetByID gets a verification by ID
func (r *VerificationRepository) GetByID(_ context.Context, id int64) (*entities.Verification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.verifications[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return v.Clone(), nil
}

// ListByEntity returns all records for an entity in insertion order
func (r *VerificationRepository) ListByEntity(_ context.Context, entityType entities.EntityType, entityID int64) ([]*entities.Verification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entities.Verification, 0)
	for _, id := range sortedKeys(r.s.verifications) {
		v := r.s.verifications[id]
		if v.EntityType == entityType && v.EntityID == entityID {
			out = append(out, v.Clone())
		}
	}
	return out, nil
}
