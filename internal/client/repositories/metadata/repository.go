// Package metadata is the scalar key/value area of the local store. Keys are
// namespaced by a "<area>:" prefix.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	// KeyLastSyncedAt holds the timex.FormatTimestamp time of the last complete bootstrap.
	KeyLastSyncedAt = "sync:last_synced_at"
	// KeyAuthCurrent holds the JSON-encoded models.AuthState of the logged-in user.
	KeyAuthCurrent = "auth:current"
	// SettingsPrefix namespaces user settings.
	SettingsPrefix = "settings:"
)

type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	// ListPrefix returns the pairs whose key starts with prefix.
	ListPrefix(ctx context.Context, prefix string) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// GetJSON decodes the value under key into dst. It reports false when the
// key is absent.
func GetJSON(ctx context.Context, r Repository, key string, dst any) (bool, error) {
	raw, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode metadata[%s]: %w", key, err)
	}
	return true, nil
}

// SetJSON stores v JSON-encoded under key.
func SetJSON(ctx context.Context, r Repository, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode metadata[%s]: %w", key, err)
	}
	return r.Set(ctx, key, raw)
}
