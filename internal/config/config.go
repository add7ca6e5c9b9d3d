package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Data backends
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	// Storage
	DataBackend string
	SQLitePath  string
	DatabaseURL string

	// Server
	Port        string
	CORSOrigins []string
	Env         string
	LogLevel    string

	// Auth
	APIToken string // Empty disables authentication

	RateLimit RateLimitConfig
	Reminder  ReminderConfig
	AMQP      AMQPConfig

	// RecentExpensesLimit caps the expenses listed in the cycle summary
	RecentExpensesLimit int

	// S3 Storage
	S3 S3Config
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// ReminderConfig holds the daily reminder time (local)
type ReminderConfig struct {
	Hour   int
	Minute int
}

// AMQPConfig holds the optional event broker connection
type AMQPConfig struct {
	URL      string // Empty disables broker publishing
	Exchange string
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Enabled reports whether backups to S3 are configured
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	var err error
	cfg := &Config{
		DataBackend: strings.ToLower(getEnv("DATA_BACKEND", BackendSQLite)),
		SQLitePath:  getEnv("SQLITE_DB_PATH", "data/spendkiler.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:         getEnv("ENV", "development"),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		APIToken:    getEnv("API_TOKEN", ""),
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "spendkiler.events"),
		},
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
	}

	if cfg.RateLimit.PerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 100); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = getEnvInt("RATE_LIMIT_BURST", 10); err != nil {
		return nil, err
	}
	if cfg.Reminder.Hour, err = getEnvInt("REMINDER_HOUR", 20); err != nil {
		return nil, err
	}
	if cfg.Reminder.Minute, err = getEnvInt("REMINDER_MINUTE", 0); err != nil {
		return nil, err
	}
	if cfg.RecentExpensesLimit, err = getEnvInt("RECENT_EXPENSES_LIMIT", 10); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	switch c.DataBackend {
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_DB_PATH is required")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	default:
		return fmt.Errorf("DATA_BACKEND must be %q or %q, got %q", BackendSQLite, BackendPostgres, c.DataBackend)
	}
	if c.RateLimit.PerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must be positive")
	}
	if c.Reminder.Hour < 0 || c.Reminder.Hour > 23 {
		return fmt.Errorf("REMINDER_HOUR must be between 0 and 23")
	}
	if c.Reminder.Minute < 0 || c.Reminder.Minute > 59 {
		return fmt.Errorf("REMINDER_MINUTE must be between 0 and 59")
	}
	if c.RecentExpensesLimit < 0 {
		return fmt.Errorf("RECENT_EXPENSES_LIMIT must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
