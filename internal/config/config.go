package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Storage
	DataDir      string
	DatabasePath string

	// Provider API credentials (collectors run in degraded mode without them)
	QuiverQuantAPIKey string
	SECUserAgent      string
	FinraAPIKey       string
	WhaleWisdomAPIKey string

	// Scheduler
	RefreshCron string

	// Logging
	LogLevel string
	Pretty   bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:           getEnv("DATA_DIR", "./data"),
		DatabasePath:      getEnv("DATABASE_URL", "./data/smartmoney.db"),
		QuiverQuantAPIKey: getEnv("QUIVERQUANT_API_KEY", ""),
		SECUserAgent:      getEnv("SEC_USER_AGENT", ""),
		FinraAPIKey:       getEnv("FINRA_API_KEY", ""),
		WhaleWisdomAPIKey: getEnv("WHALEWISDOM_API_KEY", ""),
		RefreshCron:       getEnv("REFRESH_CRON", "@every 6h"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Pretty:            getEnvAsBool("LOG_PRETTY", false),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// Note: provider API keys are optional -- a collector with no key
	// degrades to its unauthenticated rate limit instead of failing.

	return nil
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
