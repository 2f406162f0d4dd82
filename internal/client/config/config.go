package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	StoreSQLite  = "sqlite"
	StoreKeyring = "keyring"
)

// Config holds runtime settings for the ehbmatch CLI.
//
// Units: SessionPollInterval and RequestTimeout are time.Duration values.
type Config struct {
	APIBaseURL  string
	PushSyncURL string

	StoreBackend    string
	DataDir         string
	StorePassphrase string
	KeyringService  string

	SessionPollInterval time.Duration
	RequestTimeout      time.Duration
	TimeZone            string

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://api.ehb-match.me"
	c.PushSyncURL = ""
	c.StoreBackend = StoreSQLite
	c.DataDir = defaultDataDir()
	c.StorePassphrase = ""
	c.KeyringService = "ehbmatch"
	c.SessionPollInterval = time.Second
	c.RequestTimeout = 15 * time.Second
	c.TimeZone = "Europe/Brussels"
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".ehbmatch"
	}
	return filepath.Join(dir, "ehbmatch")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// .env and the environment, a JSON file (if present) and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadEnvFile(".env"); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("config: api base url is empty")
	}
	switch c.StoreBackend {
	case StoreSQLite, StoreKeyring:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.StoreBackend)
	}
	if c.SessionPollInterval <= 0 {
		return fmt.Errorf("config: session poll interval must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request timeout must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TimeZone. An empty value means the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("config: time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
