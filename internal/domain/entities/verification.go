package entities

import (
	"encoding/json"
	"time"

	"github.com/volatiletech/null/v8"
)

// EntityType names the kind of record a verification points at.
type EntityType string

const (
	EntityTypeProduct EntityType = "product"
	EntityTypeFarmer  EntityType = "farmer"
)

// Valid reports whether t is a verifiable entity type.
func (t EntityType) Valid() bool {
	return t == EntityTypeProduct || t == EntityTypeFarmer
}

// Verification is an append-only ledger reference for a product or farmer.
type Verification struct {
	ID               int64           `json:"id"`
	EntityType       EntityType      `json:"entityType"`
	EntityID         int64           `json:"entityId"`
	TransactionHash  string          `json:"transactionHash"`
	BlockNumber      int64           `json:"blockNumber"`
	Network          string          `json:"network"`
	VerifiedAt       time.Time       `json:"verifiedAt"`
	VerificationData json.RawMessage `json:"verificationData"`
	Attestation      null.String     `json:"attestation,omitempty"`
}

// Clone returns a deep copy.
func (v *Verification) Clone() *Verification {
	c := *v
	if v.VerificationData != nil {
		c.VerificationData = append(json.RawMessage(nil), v.VerificationData...)
	}
	return &c
}

// CreateVerificationInput represents a raw verification record submitted by a client.
type CreateVerificationInput struct {
	EntityType       EntityType      `json:"entityType" binding:"required,oneof=product farmer"`
	EntityID         int64           `json:"entityId" binding:"required,gt=0"`
	TransactionHash  string          `json:"transactionHash" binding:"required,max=100"`
	BlockNumber      int64           `json:"blockNumber" binding:"required,gt=0"`
	Network          string          `json:"network" binding:"required,max=50"`
	VerificationData json.RawMessage `json:"verificationData"`
}

// ToVerification builds the record to be stored.
func (in *CreateVerificationInput) ToVerification() *Verification {
	v := &Verification{
		EntityType:      in.EntityType,
		EntityID:        in.EntityID,
		TransactionHash: in.TransactionHash,
		BlockNumber:     in.BlockNumber,
		Network:         in.Network,
	}
	if len(in.VerificationData) > 0 {
		v.VerificationData = append(json.RawMessage(nil), in.VerificationData...)
	}
	return v
}

// AttestInput asks the server to anchor and sign a new verification.
type AttestInput struct {
	EntityType       EntityType      `json:"entityType" binding:"required,oneof=product farmer"`
	EntityID         int64           `json:"entityId" binding:"required,gt=0"`
	VerificationData json.RawMessage `json:"verificationData"`
}

// VerificationResult is the summary a consumer sees after scanning or looking up an entity.
type VerificationResult struct {
	IsVerified       bool            `json:"isVerified"`
	VerificationID   int64           `json:"verificationId,omitempty"`
	TransactionHash  string          `json:"transactionHash,omitempty"`
	BlockNumber      int64           `json:"blockNumber,omitempty"`
	Network          string          `json:"network,omitempty"`
	Timestamp        *time.Time      `json:"timestamp,omitempty"`
	VerificationData json.RawMessage `json:"verificationData,omitempty"`
	SignatureValid   *bool           `json:"signatureValid,omitempty"`
	Error            string          `json:"error,omitempty"`
}
