package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

type Config struct {
	Addr                 string
	DBPath               string
	Storage              string
	LogLevel             string
	Timezone             string
	RecordQueueSize      int
	NotificationsEnabled bool
	HistoryLimit         int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or malformed.
func Load() Config {
	// .env is optional outside development.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:pixelplay.db"),
		Storage:              strings.ToLower(envOr("STORAGE", StorageSQLite)),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		Timezone:             envOr("TIMEZONE", "Local"),
		RecordQueueSize:      envIntOr("RECORD_QUEUE_SIZE", 32),
		NotificationsEnabled: envBoolOr("NOTIFICATIONS_ENABLED", true),
		HistoryLimit:         envIntOr("HISTORY_LIMIT", 50),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.Storage != StorageSQLite && c.Storage != StorageMemory {
		problems = append(problems, fmt.Sprintf("STORAGE must be %q or %q, got %q", StorageSQLite, StorageMemory, c.Storage))
	}
	if c.Storage == StorageSQLite && c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("TIMEZONE %q cannot be loaded: %v", c.Timezone, err))
	}
	if c.RecordQueueSize <= 0 {
		problems = append(problems, "RECORD_QUEUE_SIZE must be positive")
	}
	if c.HistoryLimit <= 0 {
		problems = append(problems, "HISTORY_LIMIT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location resolves Timezone; an empty value means the process local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
