package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the tracker client.
//
// Units: every interval and delay is a time.Duration. Flags take seconds.
type Config struct {
	// ServerURL is the base URL of the tracker API, e.g. "http://127.0.0.1:8080/api/".
	ServerURL string
	// OnlineCheckInterval is how often the client probes server reachability.
	OnlineCheckInterval time.Duration
	// SyncInterval is the period of the scheduled sync pass.
	SyncInterval time.Duration
	// RetryBaseDelay and RetryMaxDelay bound the backoff after a failed pass.
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
	// RequestTimeout caps each HTTP request; 0 disables it.
	RequestTimeout time.Duration
	// BatchSize is the number of records pushed per request.
	BatchSize int

	DatabasePath string
	// LogFile enables JSON logging to a rotated file; stderr otherwise.
	LogFile string
	// AccessToken seeds the session, e.g. for scripted runs.
	AccessToken string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080/api/"
	c.OnlineCheckInterval = 3 * time.Second
	c.SyncInterval = 5 * time.Minute
	c.RetryBaseDelay = 30 * time.Second
	c.RetryMaxDelay = 30 * time.Minute
	c.RequestTimeout = 30 * time.Second
	c.BatchSize = 100
	c.DatabasePath = "tracker.db"
	c.LogFile = ""
	c.AccessToken = ""
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.ServerURL == "":
		return fmt.Errorf("server url is empty")
	case c.DatabasePath == "":
		return fmt.Errorf("database path is empty")
	case c.OnlineCheckInterval <= 0:
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	case c.SyncInterval <= 0:
		return fmt.Errorf("sync interval must be positive, got %s", c.SyncInterval)
	case c.RetryBaseDelay <= 0 || c.RetryMaxDelay < c.RetryBaseDelay:
		return fmt.Errorf("invalid retry delays %s..%s", c.RetryBaseDelay, c.RetryMaxDelay)
	case c.BatchSize <= 0:
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	case c.RequestTimeout < 0:
		return fmt.Errorf("request timeout must not be negative")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
