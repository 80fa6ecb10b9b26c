package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret       string
	UserTokenTTL    time.Duration
	NomineeTokenTTL time.Duration

	// Recovery flow
	ResetTokenTTL time.Duration

	// Lockout policy
	LockoutThreshold int
	LockoutWindow    time.Duration

	// Internal endpoints (database initialization helper)
	InternalAPIKey string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "sampatti"),
		DBPassword: getEnv("DB_PASSWORD", "sampatti"),
		DBName:     getEnv("DB_NAME", "sampatti"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:       getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		UserTokenTTL:    getDuration("JWT_EXPIRES_IN", 24*time.Hour),
		NomineeTokenTTL: getDuration("NOMINEE_TOKEN_EXPIRES_IN", time.Hour),

		ResetTokenTTL: getDuration("RESET_TOKEN_EXPIRES_IN", 30*time.Minute),

		LockoutThreshold: 5,
		LockoutWindow:    getDuration("LOCKOUT_WINDOW", 30*time.Minute),

		InternalAPIKey: getEnv("INTERNAL_API_KEY", ""),
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a duration environment variable, falling back on error.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
