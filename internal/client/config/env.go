package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvAPIBaseURL      = "EHBMATCH_API_URL"
	EnvPushSyncURL     = "EHBMATCH_PUSH_URL"
	EnvStoreBackend    = "EHBMATCH_STORE"
	EnvDataDir         = "EHBMATCH_DATA_DIR"
	EnvStorePassphrase = "EHBMATCH_PASSPHRASE"
	EnvKeyringService  = "EHBMATCH_KEYRING_SERVICE"
	EnvPollInterval    = "EHBMATCH_POLL_INTERVAL"
	EnvRequestTimeout  = "EHBMATCH_REQUEST_TIMEOUT"
	EnvTimeZone        = "EHBMATCH_TZ"
	EnvLogLevel        = "EHBMATCH_LOG_LEVEL"
	EnvLogFormat       = "EHBMATCH_LOG_FORMAT"
)

// loadEnvFile copies variables from path into the process environment.
// Variables already set win. A missing file is not an error.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("config: reading %s: %w", path, err)
}

func parseEnv(cfg *Config) error {
	setString(&cfg.APIBaseURL, EnvAPIBaseURL)
	setString(&cfg.PushSyncURL, EnvPushSyncURL)
	setString(&cfg.StoreBackend, EnvStoreBackend)
	setString(&cfg.DataDir, EnvDataDir)
	setString(&cfg.StorePassphrase, EnvStorePassphrase)
	setString(&cfg.KeyringService, EnvKeyringService)
	setString(&cfg.TimeZone, EnvTimeZone)
	setString(&cfg.LogLevel, EnvLogLevel)
	setString(&cfg.LogFormat, EnvLogFormat)

	if err := setDuration(&cfg.SessionPollInterval, EnvPollInterval); err != nil {
		return err
	}
	return setDuration(&cfg.RequestTimeout, EnvRequestTimeout)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
