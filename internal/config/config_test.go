package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_PORT", "SEED_DEMO_DATA", "LOG_LEVEL", "QUEUE_CAPACITY", "CURRENCY",
	"BULK_THRESHOLD", "BULK_DISCOUNT", "CLEARANCE_DAYS", "CLEARANCE_MARKDOWN",
	"REPORT_CRON_SCHEDULE", "TIMEZONE", "REPORT_WEBHOOK_URL", "REPORT_WEBHOOK_TOKEN",
	"REPORT_WEBHOOK_TIMEOUT", "MONGODB_URI", "MONGODB_DB_NAME",
}

// clearEnv unsets every key for the duration of the test. godotenv never
// overrides a variable that is present, even when empty.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.SeedDemo)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Queue.Capacity)
	assert.Equal(t, "INR", cfg.Pricing.Currency)
	assert.Equal(t, 10, cfg.Pricing.BulkThreshold)
	assert.True(t, cfg.Pricing.BulkDiscount.Equal(decimal.NewFromFloat(0.1)))
	assert.Equal(t, 5, cfg.Pricing.ClearanceDays)
	assert.True(t, cfg.Pricing.ClearanceMarkdown.Equal(decimal.NewFromFloat(0.3)))
	assert.Equal(t, "0 20 * * *", cfg.Reporting.CronSchedule)
	assert.Equal(t, "UTC", cfg.Reporting.Timezone)
	assert.Equal(t, 15*time.Second, cfg.Webhook.Timeout)
	assert.Empty(t, cfg.Webhook.URL)
	assert.Empty(t, cfg.MongoDB.URI)
	assert.Equal(t, "stockroom", cfg.MongoDB.DBName)
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nQUEUE_CAPACITY=8\nBULK_DISCOUNT=0.25\nTIMEZONE=Asia/Kolkata\nSEED_DEMO_DATA=false\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 8, cfg.Queue.Capacity)
	assert.True(t, cfg.Pricing.BulkDiscount.Equal(decimal.NewFromFloat(0.25)))
	assert.Equal(t, "Asia/Kolkata", cfg.Reporting.Timezone)
	assert.False(t, cfg.Server.SeedDemo)
}

func TestLoad_SeedDemoFlag(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"TRUE", true},
		{"t", true},
		{"0", false},
		{"False", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("SEED_DEMO_DATA", tt.value)

			cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Server.SeedDemo)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"capacity not a number", "QUEUE_CAPACITY", "five"},
		{"zero capacity", "QUEUE_CAPACITY", "0"},
		{"discount out of range", "BULK_DISCOUNT", "1.5"},
		{"markdown not decimal", "CLEARANCE_MARKDOWN", "lots"},
		{"negative window", "CLEARANCE_DAYS", "-2"},
		{"bad timezone", "TIMEZONE", "Mars/Olympus"},
		{"bad timeout", "REPORT_WEBHOOK_TIMEOUT", "soon"},
		{"seed flag not a boolean", "SEED_DEMO_DATA", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	var cfg *Config
	assert.Error(t, cfg.Validate())
}
