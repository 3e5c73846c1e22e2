package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
)

type Product struct {
	ID             int64          `gorm:"primaryKey;autoIncrement"`
	Name           string         `gorm:"type:varchar(200);not null"`
	Description    string         `gorm:"type:text;not null"`
	Price          float64        `gorm:"type:double precision;not null"`
	Unit           string         `gorm:"type:varchar(50);not null"`
	ImageURL       null.String    `gorm:"type:text"`
	FarmerID       int64          `gorm:"not null;index"`
	Location       string         `gorm:"type:text;not null"`
	Category       string         `gorm:"type:varchar(100);not null;index"`
	FarmingMethod  string         `gorm:"type:text;not null"`
	HarvestDate    null.Time      `gorm:"type:timestamptz"`
	Certifications pq.StringArray `gorm:"type:text[]"`
	IsVerified     bool           `gorm:"not null;default:false"`
	BlockchainHash null.String    `gorm:"type:text"`
	QRCode         null.String    `gorm:"column:qr_code;type:text"`
	CreatedAt      time.Time
}
