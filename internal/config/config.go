// Package config handles taskdeck configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tOgg1/taskdeck/internal/gridtui/styles"
	"github.com/tOgg1/taskdeck/internal/logging"
)

// Supported database drivers.
var supportedDrivers = []string{"mysql", "sqlite", "sqlite3"}

const minRefreshInterval = 100 * time.Millisecond

// Config is the root configuration structure for taskdeck.
type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// Background refresh settings
	Refresh RefreshConfig `yaml:"refresh" mapstructure:"refresh"`

	// TUI settings
	TUI TUIConfig `yaml:"tui" mapstructure:"tui"`
}

// DatabaseConfig contains the task store connection settings.
type DatabaseConfig struct {
	// Driver is mysql for the production store, sqlite or sqlite3 for local files.
	Driver string `yaml:"driver" mapstructure:"driver"`

	// DSN is the driver-specific data source name.
	DSN string `yaml:"dsn" mapstructure:"dsn"`

	// MaxOpenConns caps the connection pool.
	MaxOpenConns int `yaml:"max_open_conns" mapstructure:"max_open_conns"`

	// ConnMaxLifetime recycles pooled connections.
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// File is the log file path.
	File string `yaml:"file" mapstructure:"file"`

	// EnableCaller adds caller information to logs.
	EnableCaller bool `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// RefreshConfig contains the polling interval of each dataset.
type RefreshConfig struct {
	PrimaryInterval   time.Duration `yaml:"primary_interval" mapstructure:"primary_interval"`
	SecondaryInterval time.Duration `yaml:"secondary_interval" mapstructure:"secondary_interval"`
}

// TUIConfig contains terminal UI settings.
type TUIConfig struct {
	// Theme is the starting palette.
	Theme string `yaml:"theme" mapstructure:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          "mysql",
			MaxOpenConns:    4,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:        "info",
			Format:       "console",
			File:         defaultLogFile(),
			EnableCaller: false,
		},
		Refresh: RefreshConfig{
			PrimaryInterval:   10 * time.Second,
			SecondaryInterval: 5 * time.Second,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultPalette,
		},
	}
}

func defaultLogFile() string {
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "taskdeck", "taskdeck.log")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "state", "taskdeck", "taskdeck.log")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !contains(supportedDrivers, c.Database.Driver) {
		return fmt.Errorf("database.driver must be one of %s", strings.Join(supportedDrivers, ", "))
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}

	if c.Refresh.PrimaryInterval < minRefreshInterval {
		return fmt.Errorf("refresh.primary_interval must be at least 100ms")
	}

	if c.Refresh.SecondaryInterval < minRefreshInterval {
		return fmt.Errorf("refresh.secondary_interval must be at least 100ms")
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error, fatal")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}

	if !styles.ValidPalette(c.TUI.Theme) {
		return fmt.Errorf("tui.theme must be one of %s", strings.Join(styles.PaletteNames(), ", "))
	}

	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
