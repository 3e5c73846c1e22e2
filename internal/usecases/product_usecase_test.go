package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
	"agrichain.backend/internal/usecases"
	"agrichain.backend/pkg/qr"
)

func seedFarmer(t *testing.T, f *memoryFixture) *entities.Farmer {
	t.Helper()
	ctx := context.Background()
	user := &entities.User{Username: "farmer", PasswordHash: "x", Role: entities.UserRoleFarmer}
	require.NoError(t, f.users.Create(ctx, user))
	farmer := &entities.Farmer{UserID: user.ID, FarmName: null.StringFrom("Green Acres")}
	require.NoError(t, f.farmers.Create(ctx, farmer))
	return farmer
}

func honeyInput(farmerID int64) *entities.CreateProductInput {
	price := 450.0
	return &entities.CreateProductInput{
		Name:          "Wild Honey",
		Description:   "Raw forest honey",
		Price:         &price,
		Unit:          "500g",
		FarmerID:      farmerID,
		Location:      "Coorg, Karnataka",
		Category:      "Honey",
		FarmingMethod: "Wild harvested",
	}
}

func TestProductUsecase_CRUD(t *testing.T) {
	f := newMemoryFixture()
	farmer := seedFarmer(t, f)
	uc := usecases.NewProductUsecase(f.products, f.farmers, "http://localhost:8080")
	ctx := context.Background()

	created, err := uc.CreateProduct(ctx, honeyInput(farmer.ID))
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	listed, err := uc.ListProducts(ctx, entities.ProductFilter{FarmerID: farmer.ID, Category: "Honey"})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	found, err := uc.SearchProducts(ctx, "  KARNATAKA ")
	require.NoError(t, err)
	require.Len(t, found, 1)

	none, err := uc.SearchProducts(ctx, "saffron")
	require.NoError(t, err)
	assert.Empty(t, none)

	price := 500.0
	updated, err := uc.UpdateProduct(ctx, created.ID, &entities.UpdateProductInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 500.0, updated.Price)
	assert.Equal(t, "Wild Honey", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, uc.DeleteProduct(ctx, created.ID))
	_, err = uc.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = uc.DeleteProduct(ctx, created.ID)
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Product not found", appErr.Message)
}

func TestProductUsecase_CreateRequiresFarmer(t *testing.T) {
	f := newMemoryFixture()
	uc := usecases.NewProductUsecase(f.products, f.farmers, "")

	_, err := uc.CreateProduct(context.Background(), honeyInput(99))
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Farmer not found", appErr.Message)

	all, err := f.products.List(context.Background(), entities.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProductUsecase_UpdateChecksNewFarmer(t *testing.T) {
	productRepo := new(MockProductRepository)
	farmerRepo := new(MockFarmerRepository)
	uc := usecases.NewProductUsecase(productRepo, farmerRepo, "")

	farmerID := int64(7)
	farmerRepo.On("GetByID", mock.Anything, farmerID).Return(nil, domainerrors.ErrNotFound).Once()

	_, err := uc.UpdateProduct(context.Background(), 1, &entities.UpdateProductInput{FarmerID: &farmerID})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductUsecase_UpdateMissing(t *testing.T) {
	f := newMemoryFixture()
	uc := usecases.NewProductUsecase(f.products, f.farmers, "")

	name := "x"
	_, err := uc.UpdateProduct(context.Background(), 5, &entities.UpdateProductInput{Name: &name})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestProductUsecase_RepositoryErrorsPassThrough(t *testing.T) {
	productRepo := new(MockProductRepository)
	farmerRepo := new(MockFarmerRepository)
	uc := usecases.NewProductUsecase(productRepo, farmerRepo, "")
	boom := errors.New("db down")

	productRepo.On("GetByID", mock.Anything, int64(1)).Return(nil, boom).Once()
	productRepo.On("Delete", mock.Anything, int64(1)).Return(false, boom).Once()
	farmerRepo.On("GetByID", mock.Anything, int64(2)).Return(nil, boom).Once()

	_, err := uc.GetProduct(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, uc.DeleteProduct(context.Background(), 1), boom)
	_, err = uc.CreateProduct(context.Background(), honeyInput(2))
	assert.ErrorIs(t, err, boom)
}

func TestProductUsecase_QRCodeRoundTrip(t *testing.T) {
	f := newMemoryFixture()
	farmer := seedFarmer(t, f)
	uc := usecases.NewProductUsecase(f.products, f.farmers, "https://agri.example/")
	ctx := context.Background()

	p, err := uc.CreateProduct(ctx, honeyInput(farmer.ID))
	require.NoError(t, err)

	png, err := uc.ProductQRCode(ctx, p.ID, 0)
	require.NoError(t, err)

	text, err := qr.Decode(png)
	require.NoError(t, err)
	assert.Equal(t, qr.VerifyURL("https://agri.example", "product", p.ID), text)

	target, err := qr.ParsePayload(text)
	require.NoError(t, err)
	assert.Equal(t, p.ID, target.EntityID)

	_, err = uc.ProductQRCode(ctx, p.ID+100, 0)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
