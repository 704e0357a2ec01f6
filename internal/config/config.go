package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Profiles ProfilesConfig
	MongoDB  MongoDBConfig
	Sheets   SheetsConfig
	Digest   DigestConfig
	WhatsApp WhatsAppConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string
}

// ProfilesConfig points at an optional YAML yeast profile table.
type ProfilesConfig struct {
	File string
}

// MongoDBConfig holds settings for the optional yeast profile collection.
type MongoDBConfig struct {
	URI                string
	DBName             string
	ProfilesCollection string
}

// Enabled reports whether profiles should be read from MongoDB.
func (c MongoDBConfig) Enabled() bool {
	return c.URI != ""
}

// SheetsConfig contains configuration required to read gravity readings from Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	ReadingsRange   string
}

// Enabled reports whether a readings spreadsheet is configured.
func (c SheetsConfig) Enabled() bool {
	return c.SpreadsheetID != ""
}

// DigestConfig holds scheduler-related settings for the fermentation digest.
type DigestConfig struct {
	BatchFile    string
	CronSchedule string
	Timezone     string
}

// Enabled reports whether a watched batch is configured.
func (c DigestConfig) Enabled() bool {
	return c.BatchFile != ""
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	Recipient     string
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

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Profiles: ProfilesConfig{
			File: os.Getenv("YEAST_PROFILES_FILE"),
		},
		MongoDB: MongoDBConfig{
			URI:                os.Getenv("MONGODB_URI"),
			DBName:             getenvWithDefault("MONGODB_DB_NAME", "brewcast"),
			ProfilesCollection: getenvWithDefault("MONGODB_PROFILES_COLLECTION", "yeast_profiles"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			ReadingsRange:   getenvWithDefault("READINGS_SHEET_RANGE", "Readings!A:B"),
		},
		Digest: DigestConfig{
			BatchFile:    os.Getenv("WATCH_BATCH_FILE"),
			CronSchedule: getenvWithDefault("DIGEST_CRON_SCHEDULE", "0 8 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			Recipient:     os.Getenv("WHATSAPP_RECIPIENT"),
		},
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

	if c.MongoDB.Enabled() {
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
		if c.MongoDB.ProfilesCollection == "" {
			return errors.New("MONGODB_PROFILES_COLLECTION must not be empty")
		}
	}

	if c.Profiles.File != "" && c.MongoDB.Enabled() {
		return errors.New("set only one of YEAST_PROFILES_FILE and MONGODB_URI")
	}

	if c.Sheets.Enabled() {
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.ReadingsRange == "" {
			return errors.New("READINGS_SHEET_RANGE must not be empty")
		}
	}

	if !c.Digest.Enabled() {
		return nil
	}

	if c.Digest.CronSchedule == "" {
		return errors.New("DIGEST_CRON_SCHEDULE must be provided")
	}

	if _, err := time.LoadLocation(c.Digest.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q is invalid: %w", c.Digest.Timezone, err)
	}

	switch {
	case c.WhatsApp.AccessToken == "":
		return errors.New("WHATSAPP_TOKEN must be provided")
	case c.WhatsApp.PhoneNumberID == "":
		return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
	case c.WhatsApp.Recipient == "":
		return errors.New("WHATSAPP_RECIPIENT must be provided")
	}

	if c.WhatsApp.BaseURL == "" {
		return errors.New("WHATSAPP_BASE_URL must not be empty")
	}

	if c.WhatsApp.APIVersion == "" {
		return errors.New("WHATSAPP_API_VERSION must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
