package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// TMDB
	TMDBAPIKey   string
	TMDBLanguage string // BCP 47 tag for titles and overviews (default: en-US)

	// Server
	ServerPort string

	// Store
	StoreBackend string // "json" or "bolt"
	DataFile     string // $CONFIG_DIR/series.json
	DatabaseFile string // $CONFIG_DIR/trackarr.db

	// Reminders
	ReminderCron       string // cron expression for the daily digest
	ReminderWindowDays int    // how far ahead premieres are surfaced (default: 60)

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("TMDB_LANGUAGE", "en-US")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("STORE_BACKEND", "json")
	viper.SetDefault("REMINDER_CRON", "0 9 * * *")
	viper.SetDefault("REMINDER_WINDOW_DAYS", 60)
	viper.SetDefault("LOG_LEVEL", "info")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "trackarr")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// TMDB
		TMDBAPIKey:   viper.GetString("TMDB_API_KEY"),
		TMDBLanguage: viper.GetString("TMDB_LANGUAGE"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Store
		StoreBackend: viper.GetString("STORE_BACKEND"),
		DataFile:     filepath.Join(configDir, "series.json"),
		DatabaseFile: filepath.Join(configDir, "trackarr.db"),

		// Reminders
		ReminderCron:       viper.GetString("REMINDER_CRON"),
		ReminderWindowDays: viper.GetInt("REMINDER_WINDOW_DAYS"),

		// Logging
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Validate required fields
	if config.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}
	if config.StoreBackend != "json" && config.StoreBackend != "bolt" {
		return nil, fmt.Errorf("STORE_BACKEND must be \"json\" or \"bolt\", got %q", config.StoreBackend)
	}
	if config.ReminderWindowDays < 1 {
		return nil, fmt.Errorf("REMINDER_WINDOW_DAYS must be at least 1")
	}

	return config, nil
}
