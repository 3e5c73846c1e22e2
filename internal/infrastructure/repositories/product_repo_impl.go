package repositories

import (
	"context"

	"gorm.io/gorm"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
	"agrichain.backend/internal/infrastructure/models"
)

// ProductRepository implements product operations
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *entities.Product) error {
	m := toProductModel(product)
	m.ID = 0
	m.CreatedAt = product.CreatedAt
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	product.ID = m.ID
	product.HarvestDate = dbNullTime(m.HarvestDate)
	product.CreatedAt = dbTime(m.CreatedAt)
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*entities.Product, error) {
	var m models.Product
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateReadError(err)
	}
	return toProductEntity(&m), nil
}

// List returns products matching every set field of filter
func (r *ProductRepository) List(ctx context.Context, filter entities.ProductFilter) ([]*entities.Product, error) {
	query := GetDB(ctx, r.db)
	if filter.FarmerID != 0 {
		query = query.Where("farmer_id = ?", filter.FarmerID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	return r.find(query)
}

// Search matches query case-insensitively against name, description,
// category and location.
func (r *ProductRepository) Search(ctx context.Context, query string) ([]*entities.Product, error) {
	q := GetDB(ctx, r.db)
	if query != "" {
		p := containsPattern(query)
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\' OR LOWER(location) LIKE ? ESCAPE '\'`, p, p, p, p)
	}
	return r.find(q)
}

// Update applies a partial update in one transaction and returns the result.
func (r *ProductRepository) Update(ctx context.Context, id int64, input *entities.UpdateProductInput) (*entities.Product, error) {
	var updated *entities.Product
	err := GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var m models.Product
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			return translateReadError(err)
		}
		p := toProductEntity(&m)
		input.Apply(p)
		p.HarvestDate = dbNullTime(p.HarvestDate)

		result := tx.Model(&models.Product{}).Where("id = ?", id).
			Select("*").Omit("id", "created_at").
			Updates(toProductModel(p))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrNotFound
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete permanently removes a product and reports whether it existed
func (r *ProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := GetDB(ctx, r.db).Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ProductRepository) find(query *gorm.DB) ([]*entities.Product, error) {
	var rows []models.Product
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Product, 0, len(rows))
	for i := range rows {
		out = append(out, toProductEntity(&rows[i]))
	}
	return out, nil
}

func toProductModel(p *entities.Product) *models.Product {
	return &models.Product{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Unit:           p.Unit,
		ImageURL:       p.ImageURL,
		FarmerID:       p.FarmerID,
		Location:       p.Location,
		Category:       p.Category,
		FarmingMethod:  p.FarmingMethod,
		HarvestDate:    p.HarvestDate,
		Certifications: p.Certifications,
		IsVerified:     p.IsVerified,
		BlockchainHash: p.BlockchainHash,
		QRCode:         p.QRCode,
	}
}

func toProductEntity(m *models.Product) *entities.Product {
	return &entities.Product{
		ID:             m.ID,
		Name:           m.Name,
		Description:    m.Description,
		Price:          m.Price,
		Unit:           m.Unit,
		ImageURL:       m.ImageURL,
		FarmerID:       m.FarmerID,
		Location:       m.Location,
		Category:       m.Category,
		FarmingMethod:  m.FarmingMethod,
		HarvestDate:    dbNullTime(m.HarvestDate),
		Certifications: []string(m.Certifications),
		IsVerified:     m.IsVerified,
		BlockchainHash: m.BlockchainHash,
		QRCode:         m.QRCode,
		CreatedAt:      dbTime(m.CreatedAt),
	}
}
