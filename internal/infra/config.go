package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv         string
	Port           string
	DatabaseURL    string
	RedisURL       string
	MeshAPIBaseURL string
	MeshAPIKey     string
	StorageBaseURL string

	PollInterval     time.Duration
	BatchSize        int
	BatchDelay       time.Duration
	ScanLimit        int
	FetchTimeout     time.Duration
	StatusCacheTTL   time.Duration
	AllowedOrigins   []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		MeshAPIBaseURL: getEnv("MESH_API_BASE_URL", "http://localhost:9000"),
		MeshAPIKey:     os.Getenv("MESH_API_KEY"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "https://storage.googleapis.com/meshsync-assets"),

		PollInterval:     time.Millisecond * time.Duration(getEnvInt("POLL_INTERVAL_MS", 5000)),
		BatchSize:        getEnvInt("RECONCILE_BATCH_SIZE", 10),
		BatchDelay:       time.Millisecond * time.Duration(getEnvInt("RECONCILE_BATCH_DELAY_MS", 200)),
		ScanLimit:        getEnvInt("RECONCILE_SCAN_LIMIT", 1000),
		FetchTimeout:     time.Second * time.Duration(getEnvInt("MESH_FETCH_TIMEOUT_SECONDS", 10)),
		StatusCacheTTL:   time.Second * time.Duration(getEnvInt("STATUS_CACHE_TTL_SECONDS", 60)),
		AllowedOrigins:   []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.ScanLimit <= 0 {
		cfg.ScanLimit = 1000
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
