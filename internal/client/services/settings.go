package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/tracker/internal/client/repositories/metadata"
)

var ErrEmptySettingName = errors.New("setting name is empty")

// SettingsService stores user preferences under the "settings:" namespace of
// the metadata area. Settings are local to the device and never synced.
type SettingsService struct {
	meta metadata.Repository
}

func NewSettingsService(meta metadata.Repository) *SettingsService {
	return &SettingsService{meta: meta}
}

// Get reports false when the setting was never stored.
func (s *SettingsService) Get(ctx context.Context, name string) (string, bool, error) {
	if name == "" {
		return "", false, ErrEmptySettingName
	}
	v, err := s.meta.Get(ctx, metadata.SettingsPrefix+name)
	if err != nil || v == nil {
		return "", false, err
	}
	return string(v), true, nil
}

func (s *SettingsService) Set(ctx context.Context, name, value string) error {
	if name == "" {
		return ErrEmptySettingName
	}
	return s.meta.Set(ctx, metadata.SettingsPrefix+name, []byte(value))
}

func (s *SettingsService) Delete(ctx context.Context, name string) error {
	if name == "" {
		return ErrEmptySettingName
	}
	return s.meta.Delete(ctx, metadata.SettingsPrefix+name)
}

// All returns every setting keyed by its bare name.
func (s *SettingsService) All(ctx context.Context) (map[string]string, error) {
	raw, err := s.meta.ListPrefix(ctx, metadata.SettingsPrefix)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, v := range metadata.TrimPrefix(raw, metadata.SettingsPrefix) {
		out[k] = string(v)
	}
	return out, nil
}
