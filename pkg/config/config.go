// Package config loads engine configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration. Every engine tunable is a
// named, typed option so a host can tune it per deployment.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string

	// Stores. DatabaseURL selects postgres when set; SQLitePath is the
	// local-mode fallback.
	DatabaseURL string
	SQLitePath  string

	// Redis. Empty disables the shared result cache (in-memory is used).
	RedisURL string

	// RabbitMQ. Empty disables event publishing over AMQP.
	RabbitMQURL string

	// Availability engine
	CacheTTL         time.Duration
	BatchConcurrency int
	BatchTimeout     time.Duration

	// Disclosure
	DisclosureGrid float64
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("CURBSPOT_LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("CURBSPOT_SQLITE_PATH", "curbspot.db"),
		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		CacheTTL:         getDurationEnv("CURBSPOT_CACHE_TTL", 5*time.Minute),
		BatchConcurrency: getIntEnv("CURBSPOT_BATCH_CONCURRENCY", 20),
		BatchTimeout:     getDurationEnv("CURBSPOT_BATCH_TIMEOUT", 8*time.Second),

		DisclosureGrid: getFloatEnv("CURBSPOT_DISCLOSURE_GRID", 0.002),
	}

	return cfg, nil
}

// IsDevelopment returns true when running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true when running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
