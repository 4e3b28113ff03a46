package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// API keys accepted by the processing endpoint
	APIKeys []string

	// LMS
	LMS LMSConfig
}

// LMSConfig holds learning-management-system API configuration
type LMSConfig struct {
	BaseURL           string
	APIKey            string
	ClientsDatabaseID string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:         getEnv("ENV", "development"),
		APIKeys:     splitNonEmpty(getEnv("API_KEYS", "")),
		LMS: LMSConfig{
			BaseURL:           getEnv("LMS_BASE_URL", ""),
			APIKey:            getEnv("LMS_API_KEY", ""),
			ClientsDatabaseID: getEnv("LMS_CLIENTS_DATABASE_ID", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.LMS.BaseURL == "" {
		return fmt.Errorf("LMS_BASE_URL is required")
	}
	if c.LMS.ClientsDatabaseID == "" {
		return fmt.Errorf("LMS_CLIENTS_DATABASE_ID is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitNonEmpty(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
