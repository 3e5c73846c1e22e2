package repositories

import (
	"context"

	"agrichain.backend/internal/domain/entities"
)

// ProductRepository defines product listing operations
type ProductRepository interface {
	Create(ctx context.Context, product *entities.Product) error
	GetByID(ctx context.Context, id int64) (*entities.Product, error)
	List(ctx context.Context, filter entities.ProductFilter) ([]*entities.Product, error)
	Search(ctx context.Context, query string) ([]*entities.Product, error)
	Update(ctx context.Context, id int64, input *entities.UpdateProductInput) (*entities.Product, error)
	// Delete reports whether a product existed and was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}
