package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/tracker/internal/flagx"
)

var knownFlags = []string{"-a", "-i", "-s", "-d", "-l", "-t"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the tracker API
//	-i int      online check interval in seconds
//	-s int      sync interval in seconds
//	-d string   path of the local database
//	-l string   log file (empty logs to stderr)
//	-t string   access token
//
// args is filtered with flagx.FilterArgs so flags owned by other loaders
// (such as -c) do not interfere.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("tracker", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the tracker API")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	syncInterval := fs.Int("s", int(cfg.SyncInterval.Seconds()), "sync interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "access token")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Only visited flags overwrite, so sub-second values from JSON survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		case "s":
			cfg.SyncInterval = time.Duration(*syncInterval) * time.Second
		}
	})
	return nil
}
