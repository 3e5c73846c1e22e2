package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type Verification struct {
	ID               int64       `gorm:"primaryKey;autoIncrement"`
	EntityType       string      `gorm:"type:varchar(20);not null;index:idx_verifications_entity"`
	EntityID         int64       `gorm:"not null;index:idx_verifications_entity"`
	TransactionHash  string      `gorm:"type:varchar(100);not null"`
	BlockNumber      int64       `gorm:"not null"`
	Network          string      `gorm:"type:varchar(50);not null"`
	VerifiedAt       time.Time   `gorm:"not null"`
	VerificationData string      `gorm:"type:jsonb"`
	Attestation      null.String `gorm:"type:text"`
}
