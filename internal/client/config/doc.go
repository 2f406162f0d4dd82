// Package config loads runtime configuration for the ehbmatch CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory and the EHBMATCH_* environment
//     variables (see env.go). Variables already set win over .env.
//  3. Optional JSON file selected via -c, -config or EHBMATCH_CONFIG.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://api.ehb-match.me",
//	  "push_sync_url": "",
//	  "store_backend": "sqlite",
//	  "data_dir": "/home/me/.config/ehbmatch",
//	  "keyring_service": "ehbmatch",
//	  "session_poll_interval": "1s",
//	  "request_timeout": "15s",
//	  "time_zone": "Europe/Brussels",
//	  "log_level": "warn",
//	  "log_format": "text"
//	}
//
// The store passphrase is only read from EHBMATCH_PASSPHRASE; when it is empty
// the CLI prompts for it.
package config
