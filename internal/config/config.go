package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
	Checker  CheckerConfig
	Analizy  AnalizyConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "json" or "console"
}

// CheckerConfig controls the periodic quotation refresh and result recalculation.
type CheckerConfig struct {
	Enabled  bool
	Schedule string // robfig/cron spec, e.g. "@every 1h"
}

// AnalizyConfig holds settings for the quotation source client
type AnalizyConfig struct {
	BaseURL           string
	RequestsPerSecond float64
	CacheTTL          time.Duration
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/investments.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		Checker: CheckerConfig{
			Schedule: getEnv("CHECKER_SCHEDULE", "@every 1h"),
		},
		Analizy: AnalizyConfig{
			BaseURL: strings.TrimRight(getEnv("ANALIZY_BASE_URL", "https://www.analizy.pl/api/quotation"), "/"),
		},
	}

	var err error
	if config.Checker.Enabled, err = strconv.ParseBool(getEnv("CHECKER_ENABLED", "false")); err != nil {
		return nil, fmt.Errorf("invalid CHECKER_ENABLED: %w", err)
	}
	if config.Analizy.RequestsPerSecond, err = strconv.ParseFloat(getEnv("ANALIZY_REQUESTS_PER_SECOND", "2"), 64); err != nil {
		return nil, fmt.Errorf("invalid ANALIZY_REQUESTS_PER_SECOND: %w", err)
	}
	if config.Analizy.RequestsPerSecond <= 0 {
		return nil, fmt.Errorf("invalid ANALIZY_REQUESTS_PER_SECOND: must be positive")
	}
	if config.Analizy.CacheTTL, err = time.ParseDuration(getEnv("ANALIZY_CACHE_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("invalid ANALIZY_CACHE_TTL: %w", err)
	}
	if config.Log.Format != "json" && config.Log.Format != "console" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: expected json or console", config.Log.Format)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
