package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	JWTSecret     string
	TokenDuration time.Duration

	// Static API keys accepted by the stats endpoints for
	// service-to-service dashboard pulls.
	APIKeys []string

	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string

	GoogleClientID     string
	GoogleClientSecret string

	Debug bool
}

// Load reads configuration from environment variables with sensible defaults.
// A local .env file is honoured when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:    getEnv("DB_URL", ""),
		DatabasePath:   getEnv("DB_PATH", "./gernibide.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenDuration: getDuration("TOKEN_DURATION", 24*time.Hour),

		APIKeys: splitList(getEnv("API_KEYS", "")),

		AWSRegion:    getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "GerniBide"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:8080"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),

		Debug: getEnv("DEBUG", "") == "true",
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration reads a duration environment variable or returns a default value
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// splitList parses a comma-separated environment value into a slice
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
