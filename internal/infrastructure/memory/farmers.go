package memory

import (
	"context"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
)

// FarmerRepository implements farmer profile operations
type FarmerRepository struct {
	s *Store
}

// NewFarmerRepository creates a new farmer repository
func NewFarmerRepository(s *Store) *FarmerRepository {
	return &FarmerRepository{s: s}
}

// Create stores a copy of farmer under the next id.
func (r *FarmerRepository) Create(ctx context.Context, farmer *entities.Farmer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextFarmerID++
	farmer.ID = r.s.nextFarmerID
	r.s.farmers[farmer.ID] = farmer.Clone()
	id := farmer.ID
	record(ctx, func() { delete(r.s.farmers, id) })
	return nil
}

// GetByID gets a farmer by ID
func (r *FarmerRepository) GetByID(_ context.Context, id int64) (*entities.Farmer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.farmers[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return f.Clone(), nil
}

// GetByUserID gets the farmer profile owned by a user
func (r *FarmerRepository) GetByUserID(_ context.Context, userID int64) (*entities.Farmer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range sortedKeys(r.s.farmers) {
		if f := r.s.farmers[id]; f.UserID == userID {
			return f.Clone(), nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

// List returns all farmers ordered by id
func (r *FarmerRepository) List(_ context.Context) ([]*entities.Farmer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entities.Farmer, 0, len(r.s.farmers))
	for _, id := range sortedKeys(r.s.farmers) {
		out = append(out, r.s.farmers[id].Clone())
	}
	return out, nil
}

// Update merges input into the stored farmer
func (r *FarmerRepository) Update(ctx context.Context, id int64, input *entities.UpdateFarmerInput) (*entities.Farmer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.farmers[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	old := f.Clone()
	updated := f.Clone()
	input.Apply(updated)
	r.s.farmers[id] = updated
	record(ctx, func() { r.s.farmers[id] = old })
	return updated.Clone(), nil
}
