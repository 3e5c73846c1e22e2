// Package seed loads the demo marketplace data used by local deployments.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
	"agrichain.backend/internal/domain/repositories"
	"agrichain.backend/pkg/crypto"
)

const (
	DemoUsername = "rajesh_kumar"
	DemoPassword = "password123"
)

// Repositories groups the stores the demo data is written to.
type Repositories struct {
	Users         repositories.UserRepository
	Farmers       repositories.FarmerRepository
	Products      repositories.ProductRepository
	Verifications repositories.VerificationRepository
	UnitOfWork    repositories.UnitOfWork
}

var hashPassword = crypto.HashPassword

// DemoData inserts one farmer with a product and a verification. It is a
// no-op when the demo user already exists.
func DemoData(ctx context.Context, r Repositories) error {
	_, err := r.Users.GetByUsername(ctx, DemoUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return fmt.Errorf("check demo user: %w", err)
	}

	hash, err := hashPassword(DemoPassword)
	if err != nil {
		return err
	}

	return r.UnitOfWork.Do(ctx, func(ctx context.Context) error {
		user := &entities.User{
			Username:     DemoUsername,
			PasswordHash: hash,
			Name:         "Rajesh Kumar",
			Email:        "rajesh@example.com",
			Role:         entities.UserRoleFarmer,
			Location:     null.StringFrom("Coorg, Karnataka, India"),
			ProfileImage: null.StringFrom("https://images.unsplash.com/photo-1591280063444-d3c514eb6e13"),
		}
		if err := r.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("create demo user: %w", err)
		}

		farmer := &entities.Farmer{
			UserID:                     user.ID,
			FarmName:                   null.StringFrom("Rajesh's Natural Honey Farm"),
			Description:                null.StringFrom("I specialize in producing pure, wild forest honey using sustainable harvesting methods."),
			Experience:                 null.StringFrom("I have been practicing natural farming since 2008, with a focus on honey and spices."),
			Certifications:             []string{"India Organic Certified (2020)"},
			IsVerified:                 true,
			BlockchainVerificationHash: null.StringFrom("0x8a21f92e"),
			Rating:                     null.Float64From(4.8),
			FarmerSince:                null.IntFrom(2008),
		}
		if err := r.Farmers.Create(ctx, farmer); err != nil {
			return fmt.Errorf("create demo farmer: %w", err)
		}

		product := &entities.Product{
			Name:           "Wild Forest Honey",
			Description:    "Pure, unprocessed honey from the untouched forests of Coorg",
			Price:          450,
			Unit:           "500g",
			ImageURL:       null.StringFrom("https://images.unsplash.com/photo-1601493700631-2b16ec4b4716"),
			FarmerID:       farmer.ID,
			Location:       "Coorg, Karnataka",
			Category:       "Honey",
			FarmingMethod:  "Wild harvesting",
			HarvestDate:    null.TimeFrom(time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)),
			Certifications: []string{"Organic Certified", "Chemical-Free"},
			IsVerified:     true,
			BlockchainHash: null.StringFrom("0x8a21f92e"),
		}
		if err := r.Products.Create(ctx, product); err != nil {
			return fmt.Errorf("create demo product: %w", err)
		}

		data, _ := json.Marshal(map[string]string{
			"certificationBody": "India Organic",
			"verificationDate":  "2023-06-20",
			"validUntil":        "2024-06-20",
		})
		verification := &entities.Verification{
			EntityType:       entities.EntityTypeProduct,
			EntityID:         product.ID,
			TransactionHash:  "0x8a21f92e",
			BlockNumber:      18293711,
			Network:          "Ethereum",
			VerificationData: data,
		}
		if err := r.Verifications.Create(ctx, verification); err != nil {
			return fmt.Errorf("create demo verification: %w", err)
		}
		return nil
	})
}
