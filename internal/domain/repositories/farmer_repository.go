package repositories

import (
	"context"

	"agrichain.backend/internal/domain/entities"
)

// FarmerRepository defines farmer profile operations
type FarmerRepository interface {
	Create(ctx context.Context, farmer *entities.Farmer) error
	GetByID(ctx context.Context, id int64) (*entities.Farmer, error)
	GetByUserID(ctx context.Context, userID int64) (*entities.Farmer, error)
	List(ctx context.Context) ([]*entities.Farmer, error)
	Update(ctx context.Context, id int64, input *entities.UpdateFarmerInput) (*entities.Farmer, error)
}
