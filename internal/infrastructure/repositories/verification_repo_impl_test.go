package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
)

func TestVerificationRepository_AppendAndList(t *testing.T) {
	db := newTestDB(t)
	createSchema(t, db)
	repo := NewVerificationRepository(db)
	ctx := context.Background()

	first := &entities.Verification{
		EntityType:       entities.EntityTypeProduct,
		EntityID:         1,
		TransactionHash:  "0x8a21f92e",
		BlockNumber:      18293711,
		Network:          "Ethereum",
		VerificationData: json.RawMessage(`{"certificationBody":"India Organic"}`),
	}
	require.NoError(t, repo.Create(ctx, first))
	require.False(t, first.VerifiedAt.IsZero())

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	second := &entities.Verification{
		EntityType:      entities.EntityTypeProduct,
		EntityID:        1,
		TransactionHash: "0xbeef",
		BlockNumber:     18300000,
		Network:         "Ethereum",
		VerifiedAt:      at,
		Attestation:     null.StringFrom("a.b.c"),
	}
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, &entities.Verification{EntityType: entities.EntityTypeFarmer, EntityID: 1, TransactionHash: "0x1", Network: "Ethereum"}))

	list, err := repo.ListByEntity(ctx, entities.EntityTypeProduct, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, first.ID, list[0].ID)
	require.JSONEq(t, `{"certificationBody":"India Organic"}`, string(list[0].VerificationData))
	require.Nil(t, list[1].VerificationData)
	require.Equal(t, "a.b.c", list[1].Attestation.String)
	require.True(t, at.Equal(list[1].VerifiedAt))

	empty, err := repo.ListByEntity(ctx, entities.EntityTypeProduct, 2)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	got, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, "0xbeef", got.TransactionHash)

	_, err = repo.GetByID(ctx, 404)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
