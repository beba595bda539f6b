package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Storage backends
const (
	BackendClickHouse = "clickhouse"
	BackendSQLite     = "sqlite"
	BackendPebble     = "pebble"
	BackendMemory     = "memory"
)

// Config holds the application configuration
type Config struct {
	TelegramToken  string
	AllowedUserIDs []int64

	// Bot mode configuration
	WebhookMode bool   // If true, use webhook mode; if false, use polling mode
	WebhookURL  string // URL for webhook (required if WebhookMode is true)
	Port        string

	StorageBackend string

	// ClickHouse configuration
	ClickHouseHost     string
	ClickHousePort     int
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
	ClickHouseUseTLS   bool

	SQLitePath string
	PebbleDir  string

	// Location defines the reader's calendar day
	Location *time.Location

	ReminderEnabled bool
	ReminderTime    string

	LogLevel string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Telegram Bot Token (required)
	config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	// Allowed User IDs (required)
	allowedIDsStr := os.Getenv("ALLOWED_USER_IDS")
	if allowedIDsStr == "" {
		return nil, fmt.Errorf("ALLOWED_USER_IDS is required (comma-separated list of Telegram user IDs)")
	}
	for _, idStr := range strings.Split(allowedIDsStr, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID in ALLOWED_USER_IDS: %s", idStr)
		}
		config.AllowedUserIDs = append(config.AllowedUserIDs, id)
	}

	// Bot mode configuration
	config.WebhookMode = os.Getenv("WEBHOOK_MODE") == "true"
	if config.WebhookMode {
		config.WebhookURL = strings.TrimSuffix(os.Getenv("WEBHOOK_URL"), "/")
		if config.WebhookURL == "" {
			return nil, fmt.Errorf("WEBHOOK_URL is required when WEBHOOK_MODE is true")
		}
	}
	config.Port = envOr("PORT", "8080")

	// USE_MOCK_DB predates STORAGE_BACKEND and still wins
	config.StorageBackend = strings.ToLower(envOr("STORAGE_BACKEND", BackendClickHouse))
	if os.Getenv("USE_MOCK_DB") == "true" {
		config.StorageBackend = BackendMemory
	}

	switch config.StorageBackend {
	case BackendClickHouse:
		if err := config.loadClickHouse(); err != nil {
			return nil, err
		}
	case BackendSQLite:
		config.SQLitePath = os.Getenv("SQLITE_PATH")
		if config.SQLitePath == "" {
			p, err := defaultDataPath("questory.db")
			if err != nil {
				return nil, err
			}
			config.SQLitePath = p
		}
	case BackendPebble:
		config.PebbleDir = os.Getenv("PEBBLE_DIR")
		if config.PebbleDir == "" {
			p, err := defaultDataPath("pebble")
			if err != nil {
				return nil, err
			}
			config.PebbleDir = p
		}
	case BackendMemory:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q (want clickhouse, sqlite, pebble or memory)", config.StorageBackend)
	}

	config.Location = time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
		config.Location = loc
	}

	config.ReminderEnabled = os.Getenv("REMINDER_ENABLED") == "true"
	config.ReminderTime = envOr("REMINDER_TIME", "20:00")

	config.LogLevel = strings.ToLower(envOr("LOG_LEVEL", "info"))

	return config, nil
}

func (c *Config) loadClickHouse() error {
	c.ClickHouseHost = os.Getenv("CLICKHOUSE_HOST")
	if c.ClickHouseHost == "" {
		return fmt.Errorf("CLICKHOUSE_HOST is required when STORAGE_BACKEND is clickhouse")
	}

	portStr := os.Getenv("CLICKHOUSE_PORT")
	if portStr == "" {
		c.ClickHousePort = 9000 // Default ClickHouse native port
	} else {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid CLICKHOUSE_PORT: %w", err)
		}
		c.ClickHousePort = port
	}

	c.ClickHouseDatabase = envOr("CLICKHOUSE_DATABASE", "default")
	c.ClickHouseUser = envOr("CLICKHOUSE_USER", "default")
	c.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD") // optional
	c.ClickHouseUseTLS = os.Getenv("CLICKHOUSE_USE_TLS") == "true"
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// defaultDataPath places name under the user config directory
func defaultDataPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, "questory", name), nil
}
