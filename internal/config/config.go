package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"
)

type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Firebase
	FirebaseProjectID string
	FirebaseAPIKey    string // Identity Toolkit, used by the dashboard CLI

	// Document store
	StoreBackend string
	DatabaseURL  string // postgres backend only

	// Cloud Storage
	StorageBucket string

	// Rate Limiting
	RateLimitRPS int

	// CORS
	AllowedOrigins []string
}

// Load reads the environment, after loading .env if present. Variables
// already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseAPIKey:    getEnv("FIREBASE_API_KEY", ""),
		StoreBackend:      getEnv("STORE_BACKEND", BackendFirestore),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		StorageBucket:     getEnv("STORAGE_BUCKET", ""),
		RateLimitRPS:      getEnvInt("RATE_LIMIT_RPS", 10),
		AllowedOrigins:    getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendFirestore:
		if c.FirebaseProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvList reads a comma-separated list
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, v := range strings.Split(val, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
