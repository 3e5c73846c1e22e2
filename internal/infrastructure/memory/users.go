package memory

import (
	"context"
	"strings"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
)

// UserRepository implements user data operations
type UserRepository struct {
	s *Store
}

// NewUserRepository creates a new user repository
func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

// Create assigns the next id and creation time and stores a copy of user.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return domainerrors.ErrAlreadyExists
		}
	}

	r.s.nextUserID++
	user.ID = r.s.nextUserID
	user.CreatedAt = r.s.now()

	stored := *user
	r.s.users[user.ID] = &stored
	id := user.ID
	record(ctx, func() { delete(r.s.users, id) })
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(_ context.Context, id int64) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	c := *u
	return &c, nil
}

// GetByUsername gets a user by exact username
func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.Username == username })
}

// GetByEmail gets a user by email, ignoring case
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	if email == "" {
		return nil, domainerrors.ErrNotFound
	}
	return r.find(func(u *entities.User) bool { return strings.EqualFold(u.Email, email) })
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	old := u.PasswordHash
	u.PasswordHash = passwordHash
	record(ctx, func() { u.PasswordHash = old })
	return nil
}

func (r *UserRepository) find(match func(*entities.User) bool) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, id := range sortedKeys(r.s.users) {
		if u := r.s.users[id]; match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}
