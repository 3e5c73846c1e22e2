package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

type User struct {
	ID                int64       `gorm:"primaryKey;autoIncrement"`
	Username          string      `gorm:"type:varchar(64);uniqueIndex;not null"`
	PasswordHash      string      `gorm:"type:varchar(255);not null"`
	Name              string      `gorm:"type:varchar(100);not null;default:''"`
	Email             string      `gorm:"type:varchar(255);index"`
	Role              string      `gorm:"type:varchar(20);not null;default:'consumer'"`
	Location          null.String `gorm:"type:text"`
	ProfileImage      null.String `gorm:"type:text"`
	BlockchainAddress null.String `gorm:"type:varchar(42)"`
	CreatedAt         time.Time
}

type PasswordResetToken struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	UserID    int64      `gorm:"not null;index"`
	TokenHash string     `gorm:"type:char(64);uniqueIndex;not null"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	UsedAt    *time.Time `gorm:"type:timestamptz"`
	CreatedAt time.Time
}
