package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	WebhookURL  string
	Env         string

	// SyncBudgetsOnUpdate turns on symmetric budget rollup adjustment
	// when an expense amount is edited.
	SyncBudgetsOnUpdate bool

	// LowStockInterval is how often the alert worker scans inventory.
	LowStockInterval time.Duration
}

// LoadConfig reads .env file and returns a Config struct
func LoadConfig() *Config {
	// Try loading .env file (it might not exist in Production, which is fine)
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on System Env Variables")
	}

	return &Config{
		Port:                getEnv("PORT", "3000"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		WebhookURL:          getEnv("WEBHOOK_URL", ""),
		Env:                 getEnv("ENV", "development"),
		SyncBudgetsOnUpdate: getEnvBool("SYNC_BUDGETS_ON_UPDATE", false),
		LowStockInterval:    getEnvDuration("LOW_STOCK_INTERVAL", time.Minute),
	}
}

// Helper to get env with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("Invalid boolean env value, using fallback", "key", key, "value", value)
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Invalid duration env value, using fallback", "key", key, "value", value)
		return fallback
	}
	return parsed
}
