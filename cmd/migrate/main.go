// Command migrate creates or updates the PostgreSQL schema.
package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"agrichain.backend/internal/config"
	"agrichain.backend/internal/infrastructure/datasources/postgres"
	"agrichain.backend/internal/infrastructure/models"
)

var (
	loadDotenv  = godotenv.Load
	loadCfg     = config.Load
	openDB      = postgres.NewConnection
	newGorm     = postgres.NewGorm
	autoMigrate = func(db *gorm.DB, dst ...interface{}) error { return db.AutoMigrate(dst...) }
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := loadCfg()

	sqlDB, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func(db *sql.DB) { _ = db.Close() }(sqlDB)

	db, err := newGorm(sqlDB)
	if err != nil {
		return err
	}

	tables := models.All()
	if err := autoMigrate(db, tables...); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Printf("Migrated %d tables in %s", len(tables), cfg.Database.DBName)
	return nil
}
