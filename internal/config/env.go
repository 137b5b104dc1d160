package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadFromEnv loads configuration from environment variables
// Environment variables override default values
func LoadFromEnv(cfg *Config) {
	// Database configuration
	if dbPath := os.Getenv("TWEEKS_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Scanner configuration
	if pollInterval := os.Getenv("TWEEKS_POLL_INTERVAL"); pollInterval != "" {
		if seconds, err := strconv.ParseFloat(pollInterval, 64); err == nil && seconds > 0 {
			interval := time.Duration(seconds * float64(time.Second))
			if interval >= cfg.Scanner.MinPollInterval && interval <= cfg.Scanner.MaxPollInterval {
				cfg.Scanner.PollInterval = interval
			}
		}
	}

	// Daemon configuration
	if pidFile := os.Getenv("TWEEKS_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	// Presence configuration
	if presence := os.Getenv("TWEEKS_PRESENCE"); presence != "" {
		if val, err := strconv.ParseBool(presence); err == nil {
			cfg.Presence.Enabled = val
		}
	}

	if clientID := os.Getenv("TWEEKS_PRESENCE_CLIENT_ID"); clientID != "" {
		cfg.Presence.ClientID = clientID
	}

	// Web configuration
	if webHost := os.Getenv("TWEEKS_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("TWEEKS_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}

	// Rules configuration
	if rulesPath := os.Getenv("TWEEKS_RULES_PATH"); rulesPath != "" {
		cfg.Rules.Path = rulesPath
	}
}

// New creates a new Config with default values, an optional .env file, and
// environment overrides. A missing .env is not an error.
func New() *Config {
	_ = godotenv.Load()
	cfg := Default()
	LoadFromEnv(cfg)
	return cfg
}
