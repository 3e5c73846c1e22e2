package repositories

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"agrichain.backend/internal/domain/entities"
	"agrichain.backend/internal/infrastructure/models"
)

// VerificationRepository is an append-only store of verification records
type VerificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(ctx context.Context, v *entities.Verification) error {
	if v.VerifiedAt.IsZero() {
		v.VerifiedAt = time.Now().UTC()
	}
	data := "null"
	if len(v.VerificationData) > 0 {
		data = string(v.VerificationData)
	}
	m := &models.Verification{
		EntityType:       string(v.EntityType),
		EntityID:         v.EntityID,
		TransactionHash:  v.TransactionHash,
		BlockNumber:      v.BlockNumber,
		Network:          v.Network,
		VerifiedAt:       v.VerifiedAt,
		VerificationData: data,
		Attestation:      v.Attestation,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	v.ID = m.ID
	v.VerifiedAt = dbTime(m.VerifiedAt)
	return nil
}

func (r *VerificationRepository) GetByID(ctx context.Context, id int64) (*entities.Verification, error) {
	var m models.Verification
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateReadError(err)
	}
	return toVerificationEntity(&m), nil
}

// ListByEntity returns the records for one entity in insertion order
func (r *VerificationRepository) ListByEntity(ctx context.Context, entityType entities.EntityType, entityID int64) ([]*entities.Verification, error) {
	var rows []models.Verification
	err := GetDB(ctx, r.db).
		Where("entity_type = ? AND entity_id = ?", string(entityType), entityID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*entities.Verification, 0, len(rows))
	for i := range rows {
		out = append(out, toVerificationEntity(&rows[i]))
	}
	return out, nil
}

func toVerificationEntity(m *models.Verification) *entities.Verification {
	var data json.RawMessage
	if m.VerificationData != "" && m.VerificationData != "null" {
		data = json.RawMessage(m.VerificationData)
	}
	return &entities.Verification{
		ID:               m.ID,
		EntityType:       entities.EntityType(m.EntityType),
		EntityID:         m.EntityID,
		TransactionHash:  m.TransactionHash,
		BlockNumber:      m.BlockNumber,
		Network:          m.Network,
		VerifiedAt:       dbTime(m.VerifiedAt),
		VerificationData: data,
		Attestation:      m.Attestation,
	}
}
