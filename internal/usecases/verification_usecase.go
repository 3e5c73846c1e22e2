package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	jose "github.com/go-jose/go-jose/v3"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
	"agrichain.backend/internal/domain/repositories"
	"agrichain.backend/internal/infrastructure/blockchain"
	"agrichain.backend/pkg/metrics"
	"agrichain.backend/pkg/qr"
)

var (
	decodeQR      = qr.Decode
	parseQRText   = qr.ParsePayload
	errNoAttestor = errors.New("attestation signer not configured")
)

// Attestor signs and checks attestation tokens.
type Attestor interface {
	Sign(claims any) (string, error)
	Verify(token string, out any) error
	JWKS() jose.JSONWebKeySet
}

// AttestationClaims is the signed payload of an attestation.
type AttestationClaims struct {
	EntityType  entities.EntityType `json:"entityType"`
	EntityID    int64               `json:"entityId"`
	Digest      string              `json:"digest"`
	TxHash      string              `json:"txHash"`
	BlockNumber int64               `json:"blockNumber"`
	Network     string              `json:"network"`
	IssuedAt    int64               `json:"iat"`
}

// ScanResult is the outcome of decoding an uploaded QR image.
type ScanResult struct {
	EntityType entities.EntityType `json:"entityType"`
	EntityID   int64               `json:"entityId"`
	*entities.VerificationResult
}

// VerificationUsecase manages verification records and their attestations.
type VerificationUsecase struct {
	verificationRepo repositories.VerificationRepository
	productRepo      repositories.ProductRepository
	farmerRepo       repositories.FarmerRepository
	uow              repositories.UnitOfWork
	anchor           blockchain.Anchor
	attestor         Attestor
	now              func() time.Time
}

func NewVerificationUsecase(
	verificationRepo repositories.VerificationRepository,
	productRepo repositories.ProductRepository,
	farmerRepo repositories.FarmerRepository,
	uow repositories.UnitOfWork,
	anchor blockchain.Anchor,
	attestor Attestor,
) *VerificationUsecase {
	return &VerificationUsecase{
		verificationRepo: verificationRepo,
		productRepo:      productRepo,
		farmerRepo:       farmerRepo,
		uow:              uow,
		anchor:           anchor,
		attestor:         attestor,
		now:              time.Now,
	}
}

// CreateVerification appends a client-supplied record as is.
func (u *VerificationUsecase) CreateVerification(ctx context.Context, input *entities.CreateVerificationInput) (*entities.Verification, error) {
	if !input.EntityType.Valid() {
		return nil, domainerrors.ErrUnsupportedEntity
	}
	v := input.ToVerification()
	if err := u.verificationRepo.Create(ctx, v); err != nil {
		return nil, err
	}
	metrics.VerificationsRecorded.WithLabelValues(string(v.EntityType), "api").Inc()
	return v, nil
}

func (u *VerificationUsecase) GetVerification(ctx context.Context, id int64) (*entities.Verification, error) {
	v, err := u.verificationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("Verification not found")
		}
		return nil, err
	}
	return v, nil
}

// ListByEntity returns every record for the entity in insertion order.
func (u *VerificationUsecase) ListByEntity(ctx context.Context, entityType entities.EntityType, entityID int64) ([]*entities.Verification, error) {
	if !entityType.Valid() {
		return nil, domainerrors.ErrUnsupportedEntity
	}
	return u.verificationRepo.ListByEntity(ctx, entityType, entityID)
}

// Verify reports the most recent record for the entity. Records carrying an
// attestation only count as verified when the signature checks out and its
// claims match the stored record.
func (u *VerificationUsecase) Verify(ctx context.Context, entityType entities.EntityType, entityID int64) (*entities.VerificationResult, error) {
	records, err := u.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		metrics.VerificationChecks.WithLabelValues(string(entityType), "missing").Inc()
		return &entities.VerificationResult{
			IsVerified: false,
			Error:      fmt.Sprintf("No blockchain verification found for this %s.", entityType),
		}, nil
	}

	latest := records[0]
	for _, r := range records[1:] {
		if r.VerifiedAt.After(latest.VerifiedAt) || (r.VerifiedAt.Equal(latest.VerifiedAt) && r.ID > latest.ID) {
			latest = r
		}
	}

	result := resultFrom(latest)
	outcome := "verified"
	if latest.Attestation.Valid {
		valid := u.checkAttestation(latest)
		result.SignatureValid = &valid
		if !valid {
			result.IsVerified = false
			result.Error = "Attestation does not match the recorded verification."
			outcome = "invalid_signature"
		}
	}
	metrics.VerificationChecks.WithLabelValues(string(entityType), outcome).Inc()
	return result, nil
}

// Attest anchors a digest of the entity and its data, signs the resulting
// record and marks the entity verified.
func (u *VerificationUsecase) Attest(ctx context.Context, input *entities.AttestInput) (*entities.VerificationResult, error) {
	if !input.EntityType.Valid() {
		return nil, domainerrors.ErrUnsupportedEntity
	}
	if u.attestor == nil {
		return nil, errNoAttestor
	}
	if err := u.requireEntity(ctx, input.EntityType, input.EntityID); err != nil {
		return nil, err
	}

	data, err := canonicalJSON(input.VerificationData)
	if err != nil {
		return nil, domainerrors.Validation("verificationData must be valid JSON")
	}

	verifiedAt := u.now().UTC().Truncate(time.Second)
	digest := blockchain.Digest(digestPayload(input.EntityType, input.EntityID, data, verifiedAt))

	receipt, err := u.anchor.Anchor(ctx, digest)
	if err != nil {
		return nil, err
	}

	claims := AttestationClaims{
		EntityType:  input.EntityType,
		EntityID:    input.EntityID,
		Digest:      digest.Hex(),
		TxHash:      receipt.TransactionHash,
		BlockNumber: receipt.BlockNumber,
		Network:     receipt.Network,
		IssuedAt:    verifiedAt.Unix(),
	}
	token, err := u.attestor.Sign(claims)
	if err != nil {
		return nil, err
	}

	v := &entities.Verification{
		EntityType:      input.EntityType,
		EntityID:        input.EntityID,
		TransactionHash: receipt.TransactionHash,
		BlockNumber:     receipt.BlockNumber,
		Network:         receipt.Network,
		VerifiedAt:      verifiedAt,
	}
	if len(input.VerificationData) > 0 {
		v.VerificationData = data
	}
	v.Attestation.SetValid(token)

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.verificationRepo.Create(txCtx, v); err != nil {
			return err
		}
		return u.markVerified(txCtx, v)
	})
	if err != nil {
		return nil, err
	}

	metrics.VerificationsRecorded.WithLabelValues(string(v.EntityType), "attest").Inc()
	result := resultFrom(v)
	valid := true
	result.SignatureValid = &valid
	return result, nil
}

// Scan decodes a QR image and verifies the entity it points at.
func (u *VerificationUsecase) Scan(ctx context.Context, image []byte) (*ScanResult, error) {
	text, err := decodeQR(image)
	if err != nil {
		if errors.Is(err, qr.ErrUndecodable) {
			return nil, domainerrors.BadRequest("Could not read a QR code from the image")
		}
		return nil, err
	}
	target, err := parseQRText(text)
	if err != nil {
		return nil, domainerrors.BadRequest("QR code does not reference a verifiable entity")
	}

	entityType := entities.EntityType(target.EntityType)
	result, err := u.Verify(ctx, entityType, target.EntityID)
	if err != nil {
		return nil, err
	}
	return &ScanResult{EntityType: entityType, EntityID: target.EntityID, VerificationResult: result}, nil
}

// JWKS exposes the attestation public keys.
func (u *VerificationUsecase) JWKS() jose.JSONWebKeySet {
	if u.attestor == nil {
		return jose.JSONWebKeySet{Keys: []jose.JSONWebKey{}}
	}
	return u.attestor.JWKS()
}

func (u *VerificationUsecase) requireEntity(ctx context.Context, entityType entities.EntityType, id int64) error {
	switch entityType {
	case entities.EntityTypeProduct:
		if _, err := u.productRepo.GetByID(ctx, id); err != nil {
			return productNotFound(err)
		}
	case entities.EntityTypeFarmer:
		if _, err := u.farmerRepo.GetByID(ctx, id); err != nil {
			return farmerNotFound(err)
		}
	}
	return nil
}

func (u *VerificationUsecase) markVerified(ctx context.Context, v *entities.Verification) error {
	verified := true
	hash := v.TransactionHash
	switch v.EntityType {
	case entities.EntityTypeProduct:
		_, err := u.productRepo.Update(ctx, v.EntityID, &entities.UpdateProductInput{IsVerified: &verified, BlockchainHash: &hash})
		return err
	case entities.EntityTypeFarmer:
		_, err := u.farmerRepo.Update(ctx, v.EntityID, &entities.UpdateFarmerInput{IsVerified: &verified, BlockchainVerificationHash: &hash})
		return err
	}
	return nil
}

func (u *VerificationUsecase) checkAttestation(v *entities.Verification) bool {
	if u.attestor == nil {
		return false
	}
	var claims AttestationClaims
	if err := u.attestor.Verify(v.Attestation.String, &claims); err != nil {
		return false
	}
	data, err := canonicalJSON(v.VerificationData)
	if err != nil {
		return false
	}
	digest := blockchain.Digest(digestPayload(v.EntityType, v.EntityID, data, v.VerifiedAt.UTC().Truncate(time.Second)))

	return claims.EntityType == v.EntityType &&
		claims.EntityID == v.EntityID &&
		claims.TxHash == v.TransactionHash &&
		claims.BlockNumber == v.BlockNumber &&
		claims.Network == v.Network &&
		claims.IssuedAt == v.VerifiedAt.Unix() &&
		claims.Digest == digest.Hex()
}

func resultFrom(v *entities.Verification) *entities.VerificationResult {
	ts := v.VerifiedAt
	return &entities.VerificationResult{
		IsVerified:       true,
		VerificationID:   v.ID,
		TransactionHash:  v.TransactionHash,
		BlockNumber:      v.BlockNumber,
		Network:          v.Network,
		Timestamp:        &ts,
		VerificationData: v.VerificationData,
	}
}

// canonicalJSON re-encodes raw with sorted keys so that the digest survives
// storage engines that reorder or reformat JSON.
func canonicalJSON(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return json.RawMessage("null"), nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func digestPayload(entityType entities.EntityType, id int64, data json.RawMessage, at time.Time) []byte {
	payload, _ := json.Marshal(struct {
		EntityType entities.EntityType `json:"entityType"`
		EntityID   int64               `json:"entityId"`
		Data       json.RawMessage     `json:"verificationData"`
		IssuedAt   int64               `json:"iat"`
	}{entityType, id, data, at.Unix()})
	return payload
}
