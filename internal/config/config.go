// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	APIURL       string        // Backend base URL including the /api/v1 prefix
	DataDir      string        // Holds the local storage database and TUI log (always absolute)
	LogLevel     string
	Port         int
	DevMode      bool
	APITimeout   time.Duration // Applied once to the API HTTP client
	SessionTTL   time.Duration // Idle browser sessions older than this are purged
	CookieSecure bool
	LivePrices   bool // Relay backend price_update frames to the watchlist page
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("NWCREEK_DATA_DIR", "")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".nwcreek")
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		APIURL:       strings.TrimRight(getEnv("NWCREEK_API_URL", "http://localhost:8000/api/v1"), "/"),
		DataDir:      absDataDir,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnvAsInt("NWCREEK_PORT", 3000),
		DevMode:      getEnvAsBool("DEV_MODE", false),
		APITimeout:   getEnvAsDuration("NWCREEK_API_TIMEOUT", 30*time.Second),
		SessionTTL:   getEnvAsDuration("NWCREEK_SESSION_TTL", 30*24*time.Hour),
		CookieSecure: getEnvAsBool("NWCREEK_COOKIE_SECURE", false),
		LivePrices:   getEnvAsBool("NWCREEK_LIVE_PRICES", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid NWCREEK_API_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("NWCREEK_API_URL must be http or https, got %q", c.APIURL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("NWCREEK_PORT out of range: %d", c.Port)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("NWCREEK_API_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("NWCREEK_SESSION_TTL must be positive")
	}
	return nil
}

// DatabasePath is where local storage lives.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "nwcreek.db")
}

// LogFilePath is used by the TUI, which owns the terminal.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.DataDir, "nwcreek.log")
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
