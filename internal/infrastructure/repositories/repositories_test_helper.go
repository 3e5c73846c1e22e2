package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

// createSchema mirrors the postgres tables; arrays are stored as TEXT in
// the pq literal form.
func createSchema(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		email TEXT,
		role TEXT NOT NULL DEFAULT 'consumer',
		location TEXT,
		profile_image TEXT,
		blockchain_address TEXT,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE farmers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL UNIQUE,
		farm_name TEXT,
		description TEXT,
		experience TEXT,
		certifications TEXT,
		is_verified BOOLEAN NOT NULL DEFAULT 0,
		blockchain_verification_hash TEXT,
		rating REAL,
		farmer_since INTEGER
	);`)
	mustExec(t, db, `CREATE TABLE products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		price REAL NOT NULL,
		unit TEXT NOT NULL,
		image_url TEXT,
		farmer_id INTEGER NOT NULL,
		location TEXT NOT NULL,
		category TEXT NOT NULL,
		farming_method TEXT NOT NULL,
		harvest_date DATETIME,
		certifications TEXT,
		is_verified BOOLEAN NOT NULL DEFAULT 0,
		blockchain_hash TEXT,
		qr_code TEXT,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE verifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entity_type TEXT NOT NULL,
		entity_id INTEGER NOT NULL,
		transaction_hash TEXT NOT NULL,
		block_number INTEGER NOT NULL,
		network TEXT NOT NULL,
		verified_at DATETIME NOT NULL,
		verification_data TEXT,
		attestation TEXT
	);`)
	mustExec(t, db, `CREATE TABLE password_reset_tokens (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		used_at DATETIME,
		created_at DATETIME
	);`)
}
