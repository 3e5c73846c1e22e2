package usecases

import (
	"context"
	"errors"
	"strings"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
	"agrichain.backend/internal/domain/repositories"
	"agrichain.backend/pkg/qr"
)

var encodeQR = qr.Encode

// ProductUsecase handles product listing business logic
type ProductUsecase struct {
	productRepo   repositories.ProductRepository
	farmerRepo    repositories.FarmerRepository
	publicBaseURL string
}

// NewProductUsecase creates a new product usecase
func NewProductUsecase(
	productRepo repositories.ProductRepository,
	farmerRepo repositories.FarmerRepository,
	publicBaseURL string,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:   productRepo,
		farmerRepo:    farmerRepo,
		publicBaseURL: publicBaseURL,
	}
}

func (u *ProductUsecase) ListProducts(ctx context.Context, filter entities.ProductFilter) ([]*entities.Product, error) {
	return u.productRepo.List(ctx, filter)
}

// SearchProducts matches query against name, description, category and
// location. A blank query matches every product.
func (u *ProductUsecase) SearchProducts(ctx context.Context, query string) ([]*entities.Product, error) {
	return u.productRepo.Search(ctx, strings.TrimSpace(query))
}

func (u *ProductUsecase) GetProduct(ctx context.Context, id int64) (*entities.Product, error) {
	product, err := u.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, productNotFound(err)
	}
	return product, nil
}

// CreateProduct stores a product for an existing farmer.
func (u *ProductUsecase) CreateProduct(ctx context.Context, input *entities.CreateProductInput) (*entities.Product, error) {
	if err := u.requireFarmer(ctx, input.FarmerID); err != nil {
		return nil, err
	}
	product := input.ToProduct()
	if err := u.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies a partial update. Moving a product to another
// farmer requires that farmer to exist.
func (u *ProductUsecase) UpdateProduct(ctx context.Context, id int64, input *entities.UpdateProductInput) (*entities.Product, error) {
	if input.FarmerID != nil {
		if err := u.requireFarmer(ctx, *input.FarmerID); err != nil {
			return nil, err
		}
	}
	product, err := u.productRepo.Update(ctx, id, input)
	if err != nil {
		return nil, productNotFound(err)
	}
	return product, nil
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, id int64) error {
	deleted, err := u.productRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domainerrors.NotFound("Product not found")
	}
	return nil
}

// ProductQRCode renders a PNG pointing at the product's public verification page.
func (u *ProductUsecase) ProductQRCode(ctx context.Context, id int64, size int) ([]byte, error) {
	if _, err := u.GetProduct(ctx, id); err != nil {
		return nil, err
	}
	return encodeQR(qr.VerifyURL(u.publicBaseURL, string(entities.EntityTypeProduct), id), size)
}

func (u *ProductUsecase) requireFarmer(ctx context.Context, farmerID int64) error {
	_, err := u.farmerRepo.GetByID(ctx, farmerID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.BadRequest("Farmer not found")
	}
	return err
}

func productNotFound(err error) error {
	if errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.NotFound("Product not found")
	}
	return err
}
