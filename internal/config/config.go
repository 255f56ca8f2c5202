package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Queue     QueueConfig
	Pricing   PricingConfig
	Reporting ReportingConfig
	Webhook   WebhookConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	SeedDemo bool
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// QueueConfig sizes the bounded inventory queue.
type QueueConfig struct {
	Capacity int
}

// PricingConfig parameterizes the bulk and clearance strategies.
type PricingConfig struct {
	Currency          string
	BulkThreshold     int
	BulkDiscount      decimal.Decimal
	ClearanceDays     int
	ClearanceMarkdown decimal.Decimal
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// WebhookConfig points at the endpoint receiving stock reports. Empty URL disables it.
type WebhookConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// MongoDBConfig holds settings for the report archive. Empty URI disables it.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Location resolves the configured timezone.
func (c ReportingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	var parseErrs []error
	intVar := func(key string, fallback int) int {
		v, err := getenvInt(key, fallback)
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		return v
	}
	decimalVar := func(key, fallback string) decimal.Decimal {
		v, err := getenvDecimal(key, fallback)
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		return v
	}
	boolVar := func(key string, fallback bool) bool {
		v, err := getenvBool(key, fallback)
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		return v
	}
	durationVar := func(key string, fallback time.Duration) time.Duration {
		v, err := getenvDuration(key, fallback)
		if err != nil {
			parseErrs = append(parseErrs, err)
		}
		return v
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			SeedDemo: boolVar("SEED_DEMO_DATA", true),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Queue: QueueConfig{
			Capacity: intVar("QUEUE_CAPACITY", 5),
		},
		Pricing: PricingConfig{
			Currency:          getenvWithDefault("CURRENCY", "INR"),
			BulkThreshold:     intVar("BULK_THRESHOLD", 10),
			BulkDiscount:      decimalVar("BULK_DISCOUNT", "0.10"),
			ClearanceDays:     intVar("CLEARANCE_DAYS", 5),
			ClearanceMarkdown: decimalVar("CLEARANCE_MARKDOWN", "0.30"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
		},
		Webhook: WebhookConfig{
			URL:     os.Getenv("REPORT_WEBHOOK_URL"),
			Token:   os.Getenv("REPORT_WEBHOOK_TOKEN"),
			Timeout: durationVar("REPORT_WEBHOOK_TIMEOUT", 15*time.Second),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stockroom"),
		},
	}

	if err := errors.Join(parseErrs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Queue.Capacity <= 0 {
		return errors.New("QUEUE_CAPACITY must be positive")
	}

	switch {
	case c.Pricing.BulkThreshold <= 0:
		return errors.New("BULK_THRESHOLD must be positive")
	case !isFraction(c.Pricing.BulkDiscount):
		return errors.New("BULK_DISCOUNT must be in [0,1)")
	case c.Pricing.ClearanceDays <= 0:
		return errors.New("CLEARANCE_DAYS must be positive")
	case !isFraction(c.Pricing.ClearanceMarkdown):
		return errors.New("CLEARANCE_MARKDOWN must be in [0,1)")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := c.Reporting.Location(); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	return nil
}

func isFraction(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThan(decimal.NewFromInt(1))
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getenvDecimal(key, fallback string) (decimal.Decimal, error) {
	value := getenvWithDefault(key, fallback)
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal: %w", key, err)
	}
	return d, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
