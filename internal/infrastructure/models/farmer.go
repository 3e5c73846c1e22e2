package models

import (
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
)

type Farmer struct {
	ID                         int64          `gorm:"primaryKey;autoIncrement"`
	UserID                     int64          `gorm:"not null;uniqueIndex"`
	FarmName                   null.String    `gorm:"type:text"`
	Description                null.String    `gorm:"type:text"`
	Experience                 null.String    `gorm:"type:text"`
	Certifications             pq.StringArray `gorm:"type:text[]"`
	IsVerified                 bool           `gorm:"not null;default:false"`
	BlockchainVerificationHash null.String    `gorm:"type:text"`
	Rating                     null.Float64   `gorm:"type:double precision"`
	FarmerSince                null.Int       `gorm:"type:integer"`
}
