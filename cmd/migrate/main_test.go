package main

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"agrichain.backend/internal/config"
	"agrichain.backend/internal/infrastructure/models"
)

func withHooks(t *testing.T) {
	t.Helper()
	origLoadDotenv, origLoadCfg, origOpenDB, origNewGorm, origAutoMigrate := loadDotenv, loadCfg, openDB, newGorm, autoMigrate
	t.Cleanup(func() {
		loadDotenv, loadCfg, openDB, newGorm, autoMigrate = origLoadDotenv, origLoadCfg, origOpenDB, origNewGorm, origAutoMigrate
	})

	loadDotenv = func(...string) error { return nil }
	loadCfg = func() *config.Config { return &config.Config{Database: config.DatabaseConfig{DBName: "agrichain"}} }
	openDB = func(config.DatabaseConfig) (*sql.DB, error) {
		return sql.Open("sqlite3", "file:migrate_test?mode=memory&cache=shared")
	}
	newGorm = func(db *sql.DB) (*gorm.DB, error) {
		return gorm.Open(sqlite.Dialector{Conn: db}, &gorm.Config{})
	}
}

func TestRun_MigratesAllModels(t *testing.T) {
	withHooks(t)
	var got []interface{}
	autoMigrate = func(_ *gorm.DB, dst ...interface{}) error {
		got = dst
		return nil
	}

	require.NoError(t, run())
	assert.Len(t, got, len(models.All()))
}

func TestRun_Errors(t *testing.T) {
	t.Run("connect", func(t *testing.T) {
		withHooks(t)
		openDB = func(config.DatabaseConfig) (*sql.DB, error) { return nil, errors.New("refused") }
		assert.EqualError(t, run(), "failed to connect to database: refused")
	})
	t.Run("gorm", func(t *testing.T) {
		withHooks(t)
		newGorm = func(*sql.DB) (*gorm.DB, error) { return nil, errors.New("dialect") }
		assert.EqualError(t, run(), "dialect")
	})
	t.Run("migrate", func(t *testing.T) {
		withHooks(t)
		autoMigrate = func(*gorm.DB, ...interface{}) error { return errors.New("locked") }
		assert.EqualError(t, run(), "migration failed: locked")
	})
}
