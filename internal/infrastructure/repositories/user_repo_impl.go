package repositories

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
	"agrichain.backend/internal/infrastructure/models"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and writes back the generated id and timestamp.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		Username:          user.Username,
		PasswordHash:      user.PasswordHash,
		Name:              user.Name,
		Email:             user.Email,
		Role:              string(user.Role),
		Location:          user.Location,
		ProfileImage:      user.ProfileImage,
		BlockchainAddress: user.BlockchainAddress,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	user.ID = m.ID
	user.CreatedAt = dbTime(m.CreatedAt)
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByUsername gets a user by exact username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.first(ctx, "username = ?", username)
}

// GetByEmail matches email case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	if email == "" {
		return nil, domainerrors.ErrNotFound
	}
	return r.first(ctx, "LOWER(email) = ?", strings.ToLower(email))
}

// UpdatePassword replaces the stored hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	result := GetDB(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where(query, args...).Order("id").First(&m).Error; err != nil {
		return nil, translateReadError(err)
	}
	return toUserEntity(&m), nil
}

func toUserEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:                m.ID,
		Username:          m.Username,
		PasswordHash:      m.PasswordHash,
		Name:              m.Name,
		Email:             m.Email,
		Role:              entities.UserRole(m.Role),
		Location:          m.Location,
		ProfileImage:      m.ProfileImage,
		BlockchainAddress: m.BlockchainAddress,
		CreatedAt:         dbTime(m.CreatedAt),
	}
}

// PasswordResetRepository persists hashed reset tokens
type PasswordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, token *entities.PasswordResetToken) error {
	m := &models.PasswordResetToken{
		UserID:    token.UserID,
		TokenHash: token.TokenHash,
		ExpiresAt: token.ExpiresAt,
		UsedAt:    token.UsedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	token.ID = m.ID
	token.CreatedAt = dbTime(m.CreatedAt)
	return nil
}

func (r *PasswordResetRepository) GetActiveByHash(ctx context.Context, tokenHash string, now time.Time) (*entities.PasswordResetToken, error) {
	var m models.PasswordResetToken
	err := GetDB(ctx, r.db).
		Where("token_hash = ? AND used_at IS NULL AND expires_at > ?", tokenHash, now).
		First(&m).Error
	if err != nil {
		return nil, translateReadError(err)
	}
	return &entities.PasswordResetToken{
		ID:        m.ID,
		UserID:    m.UserID,
		TokenHash: m.TokenHash,
		ExpiresAt: dbTime(m.ExpiresAt),
		UsedAt:    dbTimePtr(m.UsedAt),
		CreatedAt: dbTime(m.CreatedAt),
	}, nil
}

func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id int64, usedAt time.Time) error {
	result := GetDB(ctx, r.db).Model(&models.PasswordResetToken{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", usedAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteExpired removes tokens that expired before the cutoff, used or not.
func (r *PasswordResetRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := GetDB(ctx, r.db).Where("expires_at < ?", before).Delete(&models.PasswordResetToken{})
	return result.RowsAffected, result.Error
}
