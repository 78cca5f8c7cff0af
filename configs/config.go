package configs

import (
	"fmt"
	"os"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	SignalAPI SignalAPIConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL  string
	Name string
}

// AuthConfig holds session signing configuration
type AuthConfig struct {
	JWTSecret string
	// SecureCookies controls the Secure flag on the session cookie.
	// Disabled only for local development over plain HTTP.
	SecureCookies bool
}

// SignalAPIConfig holds the external signal API configuration
type SignalAPIConfig struct {
	BaseURL string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:  getEnv("DATABASE_URL", ""),
			Name: getEnv("DATABASE_NAME", "tradingbot"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "replace-this-secret-for-production-change-me"),
			SecureCookies: getEnv("GO_ENV", "development") != "development",
		},
		SignalAPI: SignalAPIConfig{
			BaseURL: getEnv("SIGNAL_API_BASE_URL", "http://localhost:8000"),
		},
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
