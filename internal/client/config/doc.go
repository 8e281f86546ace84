// Package config loads runtime configuration for the tracker client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJSON) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the tracker API
//	-i int      online status check interval (seconds)
//	-s int      sync interval (seconds)
//	-d string   local database path
//	-l string   log file
//	-t string   access token
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds. Every key is optional:
//
//	{
//	  "server_url": "https://tracker.example/api/",
//	  "online_check_interval": "3s",
//	  "sync_interval": "5m",
//	  "retry_base_delay": "30s",
//	  "retry_max_delay": "30m",
//	  "request_timeout": "30s",
//	  "batch_size": 100,
//	  "database_path": "tracker.db",
//	  "log_file": "tracker.log"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
