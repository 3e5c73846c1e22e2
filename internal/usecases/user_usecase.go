package usecases

import (
	"context"
	"errors"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
	"agrichain.backend/internal/domain/repositories"
	"agrichain.backend/pkg/crypto"
)

var hashPassword = crypto.HashPassword

// UserUsecase handles account creation and lookup
type UserUsecase struct {
	userRepo repositories.UserRepository
}

func NewUserUsecase(userRepo repositories.UserRepository) *UserUsecase {
	return &UserUsecase{userRepo: userRepo}
}

// CreateUser stores a new account with a bcrypt hash of the password.
func (u *UserUsecase) CreateUser(ctx context.Context, input *entities.CreateUserInput) (*entities.User, error) {
	if err := input.Normalize(); err != nil {
		return nil, asValidation(err)
	}
	return createUser(ctx, u.userRepo, input)
}

// GetUser returns the user without its password hash exposed.
func (u *UserUsecase) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

func createUser(ctx context.Context, repo repositories.UserRepository, input *entities.CreateUserInput) (*entities.User, error) {
	_, err := repo.GetByUsername(ctx, input.Username)
	if err == nil {
		return nil, domainerrors.Conflict("Username already exists")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:          input.Username,
		PasswordHash:      hash,
		Name:              input.Name,
		Email:             input.Email,
		Role:              input.Role,
		Location:          input.Location,
		ProfileImage:      input.ProfileImage,
		BlockchainAddress: input.BlockchainAddress,
	}
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("Username already exists")
		}
		return nil, err
	}
	return user, nil
}
