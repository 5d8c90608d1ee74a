package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	Inventory  InventoryConfig
	Scheduling SchedulingConfig
	Alerts     AlertConfig
	Sheets     SheetsConfig
	MongoDB    MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// InventoryConfig holds snapshot and low-stock settings.
type InventoryConfig struct {
	SnapshotPath      string
	LowStockThreshold int
}

// SchedulingConfig holds cron-related settings.
type SchedulingConfig struct {
	SnapshotCronSchedule string
	AlertCronSchedule    string
	Timezone             string
}

// AlertConfig contains credentials and options for the low-stock webhook sink.
type AlertConfig struct {
	WebhookURL string
	AuthToken  string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
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
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Inventory: InventoryConfig{
			SnapshotPath:      getenvWithDefault("INVENTORY_FILE", "inventory.json"),
			LowStockThreshold: atoienvWithDefault("LOW_STOCK_THRESHOLD", 5),
		},
		Scheduling: SchedulingConfig{
			SnapshotCronSchedule: getenvWithDefault("SNAPSHOT_CRON_SCHEDULE", "*/10 * * * *"),
			AlertCronSchedule:    getenvWithDefault("ALERT_CRON_SCHEDULE", "0 8 * * *"),
			Timezone:             getenvWithDefault("TIMEZONE", "UTC"),
		},
		Alerts: AlertConfig{
			WebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),
			AuthToken:  os.Getenv("ALERT_AUTH_TOKEN"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "stockroom"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated. The
// MongoDB, Sheets and alert integrations are optional; the caller skips them
// when their settings are empty.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Inventory.SnapshotPath == "" {
		return errors.New("INVENTORY_FILE must be provided")
	}

	if c.Inventory.LowStockThreshold < 0 {
		return errors.New("LOW_STOCK_THRESHOLD must not be negative")
	}

	switch {
	case c.Scheduling.SnapshotCronSchedule == "":
		return errors.New("SNAPSHOT_CRON_SCHEDULE must be provided")
	case c.Scheduling.AlertCronSchedule == "":
		return errors.New("ALERT_CRON_SCHEDULE must be provided")
	case c.Scheduling.Timezone == "":
		return errors.New("TIMEZONE must be provided")
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_DATABASE_ID is set")
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	return nil
}

// SheetsEnabled reports whether the spreadsheet export is configured.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath != ""
}

// MongoEnabled reports whether the audit trail storage is configured.
func (c *Config) MongoEnabled() bool {
	return c.MongoDB.URI != ""
}

// AlertsEnabled reports whether the low-stock webhook sink is configured.
func (c *Config) AlertsEnabled() bool {
	return c.Alerts.WebhookURL != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func atoienvWithDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
