package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	Environment       string
	Port              string
	DatabaseURL       string
	JWTSecret         string
	JWTExpiration     int
	RefreshExpiration int

	// Email Configuration (OTP delivery)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// OTP Configuration
	OTPLength     int
	OTPExpiration int

	// Rate Limiting Configuration
	RateLimitRequests int
	RateLimitWindow   int

	// Transaction retry on write contention
	TxMaxRetries int

	// CORS Configuration
	AllowedOrigins  []string
	AllowAllOrigins bool
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", "shopware.db"),
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		JWTExpiration:     getEnvAsInt("JWT_EXPIRATION", 15*60),          // 15 minutes in seconds
		RefreshExpiration: getEnvAsInt("REFRESH_EXPIRATION", 7*24*60*60), // 7 days in seconds

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@shopware.example"),

		OTPLength:     getEnvAsInt("OTP_LENGTH", 6),
		OTPExpiration: getEnvAsInt("OTP_EXPIRATION", 10*60), // 10 minutes in seconds

		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),

		TxMaxRetries: getEnvAsInt("TX_MAX_RETRIES", 3),

		AllowedOrigins:  getEnvAsStringSlice("ALLOWED_ORIGINS", []string{}),
		AllowAllOrigins: getEnvAsBool("ALLOW_ALL_ORIGINS", true),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("database URL is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	return nil
}
