package usecases

import (
	"context"
	"errors"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
	"agrichain.backend/internal/domain/repositories"
)

// FarmerUsecase handles farmer profile business logic
type FarmerUsecase struct {
	farmerRepo repositories.FarmerRepository
	userRepo   repositories.UserRepository
	uow        repositories.UnitOfWork
}

// NewFarmerUsecase creates a new farmer usecase
func NewFarmerUsecase(
	farmerRepo repositories.FarmerRepository,
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
) *FarmerUsecase {
	return &FarmerUsecase{
		farmerRepo: farmerRepo,
		userRepo:   userRepo,
		uow:        uow,
	}
}

func (u *FarmerUsecase) ListFarmers(ctx context.Context) ([]*entities.Farmer, error) {
	return u.farmerRepo.List(ctx)
}

func (u *FarmerUsecase) GetFarmer(ctx context.Context, id int64) (*entities.Farmer, error) {
	farmer, err := u.farmerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, farmerNotFound(err)
	}
	return farmer, nil
}

// CreateFarmer attaches a profile to an existing user. A user can own at
// most one profile; the check and insert share a unit of work.
func (u *FarmerUsecase) CreateFarmer(ctx context.Context, input *entities.CreateFarmerInput) (*entities.Farmer, error) {
	if err := input.Validate(); err != nil {
		return nil, asValidation(err)
	}

	farmer := input.ToFarmer()
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if _, err := u.userRepo.GetByID(txCtx, input.UserID); err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.BadRequest("User not found")
			}
			return err
		}

		_, err := u.farmerRepo.GetByUserID(txCtx, input.UserID)
		if err == nil {
			return domainerrors.Conflict("Farmer profile already exists for this user")
		}
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}
		return u.farmerRepo.Create(txCtx, farmer)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("Farmer profile already exists for this user")
		}
		return nil, err
	}
	return farmer, nil
}

func (u *FarmerUsecase) UpdateFarmer(ctx context.Context, id int64, input *entities.UpdateFarmerInput) (*entities.Farmer, error) {
	farmer, err := u.farmerRepo.Update(ctx, id, input)
	if err != nil {
		return nil, farmerNotFound(err)
	}
	return farmer, nil
}

func farmerNotFound(err error) error {
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.NotFound("Farmer not found")
	}
	return err
}
