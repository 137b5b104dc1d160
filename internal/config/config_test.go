package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Scanner.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.Scanner.PollInterval)
	}
	if cfg.Scanner.MinPollInterval != 1*time.Second {
		t.Errorf("MinPollInterval = %v, want 1s", cfg.Scanner.MinPollInterval)
	}
	if !cfg.Presence.Enabled {
		t.Error("presence should default to enabled")
	}
	if cfg.Presence.ClientID == "" {
		t.Error("default presence client ID is empty")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"poll below minimum", func(c *Config) { c.Scanner.PollInterval = 500 * time.Millisecond }, true},
		{"poll above maximum", func(c *Config) { c.Scanner.PollInterval = 10 * time.Minute }, true},
		{"bad port", func(c *Config) { c.Web.Port = 0 }, true},
		{"empty host", func(c *Config) { c.Web.Host = "" }, true},
		{"empty pid file", func(c *Config) { c.Daemon.PIDFile = "" }, true},
		{"presence without client id", func(c *Config) { c.Presence.ClientID = "" }, true},
		{"presence disabled without client id", func(c *Config) {
			c.Presence.Enabled = false
			c.Presence.ClientID = ""
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetPollInterval(t *testing.T) {
	cfg := Default()

	if err := cfg.SetPollInterval(5 * time.Second); err != nil {
		t.Errorf("SetPollInterval(5s) error = %v", err)
	}
	if cfg.Scanner.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.Scanner.PollInterval)
	}

	if err := cfg.SetPollInterval(100 * time.Millisecond); err == nil {
		t.Error("SetPollInterval below minimum should fail")
	}
	if err := cfg.SetPollInterval(time.Hour); err == nil {
		t.Error("SetPollInterval above maximum should fail")
	}
	if cfg.Scanner.PollInterval != 5*time.Second {
		t.Error("failed SetPollInterval must not change the interval")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TWEEKS_DB_PATH", "/tmp/test.db")
	t.Setenv("TWEEKS_POLL_INTERVAL", "5")
	t.Setenv("TWEEKS_PRESENCE", "false")
	t.Setenv("TWEEKS_WEB_PORT", "18080")
	t.Setenv("TWEEKS_RULES_PATH", "/tmp/rules.json")

	cfg := Default()
	LoadFromEnv(cfg)

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Scanner.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.Scanner.PollInterval)
	}
	if cfg.Presence.Enabled {
		t.Error("TWEEKS_PRESENCE=false not applied")
	}
	if cfg.Web.Port != 18080 {
		t.Errorf("Web.Port = %d, want 18080", cfg.Web.Port)
	}
	if cfg.Rules.Path != "/tmp/rules.json" {
		t.Errorf("Rules.Path = %q", cfg.Rules.Path)
	}
}

func TestLoadFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("TWEEKS_POLL_INTERVAL", "0.1") // below the minimum
	t.Setenv("TWEEKS_WEB_PORT", "99999")

	cfg := Default()
	LoadFromEnv(cfg)

	if cfg.Scanner.PollInterval != 2*time.Second {
		t.Errorf("out-of-range poll interval applied: %v", cfg.Scanner.PollInterval)
	}
	if cfg.Web.Port != Default().Web.Port {
		t.Errorf("out-of-range port applied: %d", cfg.Web.Port)
	}
}
