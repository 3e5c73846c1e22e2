package repositories

import (
	"context"

	"gorm.io/gorm"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
	"agrichain.backend/internal/infrastructure/models"
)

// FarmerRepository implements farmer profile operations
type FarmerRepository struct {
	db *gorm.DB
}

// NewFarmerRepository creates a new farmer repository
func NewFarmerRepository(db *gorm.DB) *FarmerRepository {
	return &FarmerRepository{db: db}
}

func (r *FarmerRepository) Create(ctx context.Context, farmer *entities.Farmer) error {
	m := toFarmerModel(farmer)
	m.ID = 0
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	farmer.ID = m.ID
	return nil
}

func (r *FarmerRepository) GetByID(ctx context.Context, id int64) (*entities.Farmer, error) {
	var m models.Farmer
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateReadError(err)
	}
	return toFarmerEntity(&m), nil
}

func (r *FarmerRepository) GetByUserID(ctx context.Context, userID int64) (*entities.Farmer, error) {
	var m models.Farmer
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, translateReadError(err)
	}
	return toFarmerEntity(&m), nil
}

// List returns every farmer ordered by id
func (r *FarmerRepository) List(ctx context.Context) ([]*entities.Farmer, error) {
	var rows []models.Farmer
	if err := GetDB(ctx, r.db).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Farmer, 0, len(rows))
	for i := range rows {
		out = append(out, toFarmerEntity(&rows[i]))
	}
	return out, nil
}

// Update applies a partial update in one transaction and returns the result.
func (r *FarmerRepository) Update(ctx context.Context, id int64, input *entities.UpdateFarmerInput) (*entities.Farmer, error) {
	var updated *entities.Farmer
	err := GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var m models.Farmer
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			return translateReadError(err)
		}
		f := toFarmerEntity(&m)
		input.Apply(f)

		result := tx.Model(&models.Farmer{}).Where("id = ?", id).
			Select("*").Omit("id", "user_id").
			Updates(toFarmerModel(f))
		if result.Error != nil {
			return translateWriteError(result.Error)
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrNotFound
		}
		updated = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func toFarmerModel(f *entities.Farmer) *models.Farmer {
	return &models.Farmer{
		ID:                         f.ID,
		UserID:                     f.UserID,
		FarmName:                   f.FarmName,
		Description:                f.Description,
		Experience:                 f.Experience,
		Certifications:             f.Certifications,
		IsVerified:                 f.IsVerified,
		BlockchainVerificationHash: f.BlockchainVerificationHash,
		Rating:                     f.Rating,
		FarmerSince:                f.FarmerSince,
	}
}

func toFarmerEntity(m *models.Farmer) *entities.Farmer {
	return &entities.Farmer{
		ID:                         m.ID,
		UserID:                     m.UserID,
		FarmName:                   m.FarmName,
		Description:                m.Description,
		Experience:                 m.Experience,
		Certifications:             []string(m.Certifications),
		IsVerified:                 m.IsVerified,
		BlockchainVerificationHash: m.BlockchainVerificationHash,
		Rating:                     m.Rating,
		FarmerSince:                m.FarmerSince,
	}
}
