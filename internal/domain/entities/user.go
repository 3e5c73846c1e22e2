package entities

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/volatiletech/null/v8"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleConsumer UserRole = "consumer"
	UserRoleFarmer   UserRole = "farmer"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == UserRoleConsumer || r == UserRoleFarmer
}

// User represents a user entity
type User struct {
	ID                int64       `json:"id"`
	Username          string      `json:"username"`
	PasswordHash      string      `json:"-"`
	Name              string      `json:"name"`
	Email             string      `json:"email"`
	Role              UserRole    `json:"role"`
	Location          null.String `json:"location"`
	ProfileImage      null.String `json:"profileImage"`
	BlockchainAddress null.String `json:"blockchainAddress"`
	CreatedAt         time.Time   `json:"createdAt"`
}

// CreateUserInput represents input for creating a user. Only the username and
// password are mandatory; profile fields default to empty values.
type CreateUserInput struct {
	Username          string      `json:"username" binding:"required,max=64"`
	Password          string      `json:"password" binding:"required,max=72"`
	Name              string      `json:"name" binding:"max=100"`
	Email             string      `json:"email" binding:"omitempty,email"`
	Role              UserRole    `json:"role" binding:"omitempty,oneof=consumer farmer"`
	Location          null.String `json:"location"`
	ProfileImage      null.String `json:"profileImage"`
	BlockchainAddress null.String `json:"blockchainAddress"`

	// Optional farm profile used when registering with role "farmer".
	FarmName null.String `json:"farmName"`
}

// Normalize fills defaults and checks fields the binder cannot express.
func (in *CreateUserInput) Normalize() error {
	if in.Role == "" {
		in.Role = UserRoleConsumer
	}
	if in.BlockchainAddress.Valid && !common.IsHexAddress(in.BlockchainAddress.String) {
		return &FieldError{Field: "blockchainAddress", Reason: "must be a 0x-prefixed 20 byte hex address"}
	}
	return nil
}

// LoginInput represents input for user login
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordInput starts a password reset.
type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordInput completes a password reset.
type ResetPasswordInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72"`
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Reason
}
