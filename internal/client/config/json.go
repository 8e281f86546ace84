package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/tracker/internal/flagx"
	"github.com/dmitrijs2005/tracker/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Every field is
// optional: a missing field keeps the value from the previous source.
// Durations use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds.
type JSONConfig struct {
	ServerURL           *string         `json:"server_url"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	SyncInterval        *timex.Duration `json:"sync_interval"`
	RetryBaseDelay      *timex.Duration `json:"retry_base_delay"`
	RetryMaxDelay       *timex.Duration `json:"retry_max_delay"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	BatchSize           *int            `json:"batch_size"`
	DatabasePath        *string         `json:"database_path"`
	LogFile             *string         `json:"log_file"`
	AccessToken         *string         `json:"access_token"`
}

// parseJSON overlays cfg with values from the file named by -c or -config.
// Without either flag it does nothing.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	jc.apply(cfg)
	return nil
}

func (jc JSONConfig) apply(cfg *Config) {
	setString(&cfg.ServerURL, jc.ServerURL)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setDuration(&cfg.SyncInterval, jc.SyncInterval)
	setDuration(&cfg.RetryBaseDelay, jc.RetryBaseDelay)
	setDuration(&cfg.RetryMaxDelay, jc.RetryMaxDelay)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	if jc.BatchSize != nil {
		cfg.BatchSize = *jc.BatchSize
	}
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.AccessToken, jc.AccessToken)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
