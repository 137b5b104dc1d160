package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Scanner configuration
	Scanner ScannerConfig

	// Daemon configuration
	Daemon DaemonConfig

	// Presence configuration
	Presence PresenceConfig

	// Web server configuration
	Web WebConfig

	// Rules configuration
	Rules RulesConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // Path to SQLite database file
}

// ScannerConfig holds scan/poll behavior configuration
type ScannerConfig struct {
	PollInterval    time.Duration // How often to re-scan the process table
	MinPollInterval time.Duration // Minimum allowed poll interval
	MaxPollInterval time.Duration // Maximum allowed poll interval
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file for daemon management
}

// PresenceConfig holds Discord Rich Presence configuration
type PresenceConfig struct {
	Enabled  bool
	ClientID string
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string // Host to bind web server to
	Port int    // Port for web server
}

// RulesConfig points at the optional detection-rules file
type RulesConfig struct {
	Path string
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/tweeks/tweeks.db
		},
		Scanner: ScannerConfig{
			PollInterval:    2 * time.Second,
			MinPollInterval: 1 * time.Second,
			MaxPollInterval: 300 * time.Second,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/tweeks-%d.pid", os.Getuid()),
		},
		Presence: PresenceConfig{
			Enabled:  true,
			ClientID: "1416567503030718555",
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 10000 + os.Getuid(),
		},
		Rules: RulesConfig{
			Path: defaultRulesPath(),
		},
	}
}

func defaultRulesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tweeks", "detection-rules.json")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Scanner.PollInterval < c.Scanner.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Scanner.PollInterval, c.Scanner.MinPollInterval)
	}

	if c.Scanner.PollInterval > c.Scanner.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Scanner.PollInterval, c.Scanner.MaxPollInterval)
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	if c.Presence.Enabled && c.Presence.ClientID == "" {
		return fmt.Errorf("presence client ID cannot be empty when presence is enabled")
	}

	return nil
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Scanner.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Scanner.MinPollInterval)
	}
	if interval > c.Scanner.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Scanner.MaxPollInterval)
	}
	c.Scanner.PollInterval = interval
	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Scanner:
    Poll Interval: %v
    Min Interval: %v
    Max Interval: %v
  Daemon:
    PID File: %s
  Presence:
    Enabled: %v
  Web:
    Host: %s
    Port: %d
  Rules:
    Path: %s`,
		c.Database.Path,
		c.Scanner.PollInterval,
		c.Scanner.MinPollInterval,
		c.Scanner.MaxPollInterval,
		c.Daemon.PIDFile,
		c.Presence.Enabled,
		c.Web.Host,
		c.Web.Port,
		c.Rules.Path,
	)
}
