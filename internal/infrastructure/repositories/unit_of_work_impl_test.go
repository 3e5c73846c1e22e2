package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"agrichain.backend/internal/domain/entities"
	domainRepos "agrichain.backend/internal/domain/repositories"
)

func TestUnitOfWork_DoCommitAndRollback(t *testing.T) {
	db := newTestDB(t)
	createSchema(t, db)
	u := &UnitOfWorkImpl{db: db}
	users := NewUserRepository(db)

	err := u.Do(context.Background(), func(ctx context.Context) error {
		return users.Create(ctx, &entities.User{Username: "alice", PasswordHash: "h", Role: entities.UserRoleConsumer})
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Table("users").Count(&count).Error)
	require.Equal(t, int64(1), count)

	err = u.Do(context.Background(), func(ctx context.Context) error {
		if err := users.Create(ctx, &entities.User{Username: "bob", PasswordHash: "h", Role: entities.UserRoleFarmer}); err != nil {
			return err
		}
		return errors.New("force rollback")
	})
	require.Error(t, err)

	require.NoError(t, db.Table("users").Count(&count).Error)
	require.Equal(t, int64(1), count, "second insert must be rolled back")
}

func TestUnitOfWork_NestedDoJoinsOuterTransaction(t *testing.T) {
	db := newTestDB(t)
	createSchema(t, db)
	u := &UnitOfWorkImpl{db: db}
	users := NewUserRepository(db)

	err := u.Do(context.Background(), func(ctx context.Context) error {
		outer := GetDB(ctx, db)
		return u.Do(ctx, func(inner context.Context) error {
			require.Same(t, outer, GetDB(inner, db))
			if err := users.Create(inner, &entities.User{Username: "carol", PasswordHash: "h", Role: entities.UserRoleConsumer}); err != nil {
				return err
			}
			return errors.New("inner failure")
		})
	})
	require.EqualError(t, err, "inner failure")

	_, err = users.GetByUsername(context.Background(), "carol")
	require.Error(t, err)
}

func TestUnitOfWork_GetDB(t *testing.T) {
	db := newTestDB(t)
	u := &UnitOfWorkImpl{db: db}
	require.NotNil(t, u.GetDB(context.Background()))

	tx := db.Begin()
	txCtx := context.WithValue(context.Background(), txKey, tx)
	require.Equal(t, tx, u.GetDB(txCtx))
	tx.Rollback()
}

func TestUnitOfWork_DoBeginFailure(t *testing.T) {
	db := newTestDB(t)
	u := &UnitOfWorkImpl{db: db}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = u.Do(context.Background(), func(context.Context) error { return nil })
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to begin transaction")
}

func TestUnitOfWork_DoCommitFailure_WithHook(t *testing.T) {
	db := newTestDB(t)
	createSchema(t, db)
	u := &UnitOfWorkImpl{db: db}

	origCommit := commitTx
	t.Cleanup(func() { commitTx = origCommit })
	commitTx = func(tx *gorm.DB) error {
		tx.Rollback()
		return errors.New("forced commit fail")
	}

	ran := false
	err := u.Do(context.Background(), func(ctx context.Context) error {
		domainRepos.AfterCommit(ctx, func(context.Context) { ran = true })
		return NewUserRepository(db).Create(ctx, &entities.User{Username: "dave", PasswordHash: "h", Role: entities.UserRoleConsumer})
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to commit transaction")
	require.False(t, ran, "hooks must not run when commit fails")
}

func TestUnitOfWork_AfterCommitHooks(t *testing.T) {
	db := newTestDB(t)
	createSchema(t, db)
	u := &UnitOfWorkImpl{db: db}
	users := NewUserRepository(db)

	var seen int64
	err := u.Do(context.Background(), func(ctx context.Context) error {
		domainRepos.AfterCommit(ctx, func(ctx context.Context) {
			// the committed row is visible outside the transaction
			require.NoError(t, GetDB(ctx, db).Table("users").Count(&seen).Error)
		})
		return users.Create(ctx, &entities.User{Username: "erin", PasswordHash: "h", Role: entities.UserRoleConsumer})
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), seen)

	ran := false
	err = u.Do(context.Background(), func(ctx context.Context) error {
		domainRepos.AfterCommit(ctx, func(context.Context) { ran = true })
		return errors.New("force rollback")
	})
	require.Error(t, err)
	require.False(t, ran)
}
