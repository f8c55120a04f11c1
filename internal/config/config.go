package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr string
	ServerPort int

	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Tokens
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	// Verification codes
	CodeTTL time.Duration

	// Credential hashing
	BcryptCost int

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// Frontend redirect target for the OAuth callback
	FrontendURL string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults
		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		// Database defaults
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "auth_service"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Token defaults
		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "auth-service"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 7*24*time.Hour),

		CodeTTL:    getEnvDuration("CODE_TTL", 10*time.Minute),
		BcryptCost: getEnvInt("BCRYPT_COST", 0),

		// SMTP (optional; without it registration cannot deliver codes)
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", ""),

		// Google OAuth (optional)
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", ""),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// HasGoogleOAuth returns true if Google OAuth is configured.
func (c *Config) HasGoogleOAuth() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// HasSMTP returns true if SMTP delivery is configured.
func (c *Config) HasSMTP() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
