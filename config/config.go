package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	Port string

	// Token signing
	TokenSecret   string
	TokenIssuer   string
	TokenAudience string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// Account store
	DatabaseURL string

	// Key manager endpoints for the session store bootstrap
	SecretInfoURL     string
	SecretPasswordURL string

	// Google federation
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Shared secret guarding internal service-to-service routes
	InternalSharedSecret string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	config := &Config{
		Port:                 getEnv("PORT", "8888"),
		TokenSecret:          getEnv("TOKEN_SECRET", ""),
		TokenIssuer:          getEnv("TOKEN_ISSUER", "identity-hub"),
		TokenAudience:        getEnv("TOKEN_AUDIENCE", "platform-services"),
		AccessTTL:            5 * time.Minute,
		RefreshTTL:           7 * 24 * time.Hour,
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		SecretInfoURL:        getEnv("SECRET_INFO_URL", ""),
		SecretPasswordURL:    getEnv("SECRET_PASSWORD_URL", ""),
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:    getEnv("GOOGLE_REDIRECT_URL", ""),
		InternalSharedSecret: getEnv("INTERNAL_SHARED_SECRET", ""),
	}

	if ttlStr := os.Getenv("ACCESS_TOKEN_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL format: %w", err)
		}
		config.AccessTTL = duration
	}

	if ttlStr := os.Getenv("REFRESH_TOKEN_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REFRESH_TOKEN_TTL format: %w", err)
		}
		config.RefreshTTL = duration
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.TokenSecret == "" {
		return fmt.Errorf("TOKEN_SECRET cannot be empty")
	}
	if len(c.TokenSecret) < 32 {
		return fmt.Errorf("TOKEN_SECRET must be at least 32 bytes")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL cannot be empty")
	}

	if c.SecretInfoURL == "" || c.SecretPasswordURL == "" {
		return fmt.Errorf("SECRET_INFO_URL and SECRET_PASSWORD_URL cannot be empty")
	}

	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.RefreshTTL <= c.AccessTTL {
		return fmt.Errorf("REFRESH_TOKEN_TTL must exceed ACCESS_TOKEN_TTL")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a fallback value.
// A KEY_FILE variant pointing at a file takes precedence, for secrets
// mounted by the orchestrator.
func getEnv(key, fallback string) string {
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
