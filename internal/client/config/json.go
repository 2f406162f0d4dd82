package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/ehbmatch/internal/flagx"
	"github.com/dmitrijs2005/ehbmatch/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so they can be written as "1s" or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	PushSyncURL         string         `json:"push_sync_url"`
	StoreBackend        string         `json:"store_backend"`
	DataDir             string         `json:"data_dir"`
	KeyringService      string         `json:"keyring_service"`
	SessionPollInterval timex.Duration `json:"session_poll_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	TimeZone            string         `json:"time_zone"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
}

// parseJson overlays cfg with the non-empty values of the JSON file named by
// -c/-config (or EHBMATCH_CONFIG). Without a path it does nothing.
//
// The passphrase is deliberately absent from the file format.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}

	overlay(&cfg.APIBaseURL, jc.APIBaseURL)
	overlay(&cfg.PushSyncURL, jc.PushSyncURL)
	overlay(&cfg.StoreBackend, jc.StoreBackend)
	overlay(&cfg.DataDir, jc.DataDir)
	overlay(&cfg.KeyringService, jc.KeyringService)
	overlay(&cfg.TimeZone, jc.TimeZone)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.LogFormat, jc.LogFormat)
	if jc.SessionPollInterval.Duration > 0 {
		cfg.SessionPollInterval = jc.SessionPollInterval.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
