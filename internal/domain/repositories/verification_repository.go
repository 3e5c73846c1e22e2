package repositories

import (
	"context"

	"agrichain.backend/internal/domain/entities"
)

// VerificationRepository is append-only: records are never updated or removed.
type VerificationRepository interface {
	Create(ctx context.Context, verification *entities.Verification) error
	GetByID(ctx context.Context, id int64) (*entities.Verification, error)
	// ListByEntity returns records in insertion order.
	ListByEntity(ctx context.Context, entityType entities.EntityType, entityID int64) ([]*entities.Verification, error)
}
