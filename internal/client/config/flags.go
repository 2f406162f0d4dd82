package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/ehbmatch/internal/flagx"
)

var knownFlags = []string{"-a", "-p", "-s", "-d", "-k", "-i", "-t", "-z", "-l", "-f"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   backend API base URL
//	-p string   push token sync URL
//	-s string   credential store backend: sqlite or keyring
//	-d string   data directory for the sqlite store
//	-k string   keyring service name
//	-i int      session poll interval (in seconds)
//	-t duration request timeout
//	-z string   time zone used to group speed dates
//	-l string   log level
//	-f string   log format: text or json
//
// Only these flags are picked out of args (see flagx.FilterArgs), so other
// components may define their own.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	fs.StringVar(&cfg.PushSyncURL, "p", cfg.PushSyncURL, "push token sync URL")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "credential store backend (sqlite|keyring)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.KeyringService, "k", cfg.KeyringService, "keyring service name")
	poll := fs.Int("i", int(cfg.SessionPollInterval.Seconds()), "session poll interval (in seconds)")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.TimeZone, "z", cfg.TimeZone, "time zone")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (text|json)")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.SessionPollInterval = time.Duration(*poll) * time.Second
		}
	})
	return nil
}
