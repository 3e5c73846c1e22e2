package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Session    SessionConfig
	Auth       AuthConfig
	Blockchain BlockchainConfig
	Cache      CacheConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port          string
	Env           string
	PublicBaseURL string
	ProtectWrites bool
}

// StorageConfig selects the backing store.
type StorageConfig struct {
	Driver   string
	SeedDemo bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration. An empty URL disables Redis.
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// SessionConfig holds cookie session settings
type SessionConfig struct {
	Secret        string
	Store         string
	EncryptionKey string
	TTL           time.Duration
	PruneInterval time.Duration
}

// AuthConfig holds password reset settings
type AuthConfig struct {
	ResetTokenTTL time.Duration
}

// BlockchainConfig holds ledger anchoring settings
type BlockchainConfig struct {
	RPCURL            string
	Network           string
	AttestationKeyHex string
}

// CacheConfig holds read-through cache settings
type CacheConfig struct {
	ProductTTL time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          getEnv("SERVER_PORT", "8080"),
			Env:           getEnv("SERVER_ENV", "development"),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
			ProtectWrites: getEnvAsBool("PROTECT_WRITES", false),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
			SeedDemo: getEnvAsBool("SEED_DEMO_DATA", true),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "agrichain"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		Session: SessionConfig{
			Secret:        getEnv("SESSION_SECRET", ""),
			Store:         strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
			EncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", ""),
			TTL:           getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			PruneInterval: getEnvAsDuration("SESSION_PRUNE_INTERVAL", 10*time.Minute),
		},
		Auth: AuthConfig{
			ResetTokenTTL: getEnvAsDuration("RESET_TOKEN_TTL", time.Hour),
		},
		Blockchain: BlockchainConfig{
			RPCURL:            getEnv("EVM_RPC_URL", ""),
			Network:           getEnv("BLOCKCHAIN_NETWORK", "Ethereum"),
			AttestationKeyHex: strings.TrimPrefix(getEnv("ATTESTATION_KEY_HEX", ""), "0x"),
		},
		Cache: CacheConfig{
			ProductTTL: getEnvAsDuration("PRODUCT_CACHE_TTL", 10*time.Minute),
		},
	}
}

// IsProduction reports whether secure cookies and JSON logs apply.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Session.Secret) < 32 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 32 characters"))
	}
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}
	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("SESSION_STORE=redis requires REDIS_URL"))
		}
		if key, err := hex.DecodeString(c.Session.EncryptionKey); err != nil || len(key) != 32 {
			errs = append(errs, errors.New("SESSION_ENCRYPTION_KEY must be 64 hex characters"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Auth.ResetTokenTTL <= 0 {
		errs = append(errs, errors.New("RESET_TOKEN_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
