package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/pixelplay/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                 ":8080",
		DBPath:               "test.db",
		Storage:              config.StorageSQLite,
		LogLevel:             "INFO",
		Timezone:             "UTC",
		RecordQueueSize:      32,
		NotificationsEnabled: true,
		HistoryLimit:         50,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_MemoryStorageIgnoresDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.Storage = config.StorageMemory
	cfg.DBPath = ""

	assert.NoError(t, cfg.Validate())
}

func TestValidate_UnknownStorage(t *testing.T) {
	cfg := validConfig()
	cfg.Storage = "postgres"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE")
}

func TestValidate_LogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"DEBUG", true},
		{"info", true},
		{"WARNING", true},
		{"ERROR", true},
		{"TRACE", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			}
		})
	}
}

func TestValidate_BadTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = "Mars/Olympus_Mons"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEZONE")
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		Storage:  config.StorageSQLite,
		LogLevel: "INVALID",
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "RECORD_QUEUE_SIZE")
	assert.Contains(t, errStr, "HISTORY_LIMIT")
}

func TestLocation_LocalDefault(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = ""

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Local", loc.String())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("STORAGE", "MEMORY")
	t.Setenv("RECORD_QUEUE_SIZE", "not-a-number")
	t.Setenv("NOTIFICATIONS_ENABLED", "false")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, config.StorageMemory, cfg.Storage)
	assert.Equal(t, 32, cfg.RecordQueueSize)
	assert.False(t, cfg.NotificationsEnabled)
}
