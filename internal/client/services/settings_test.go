package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/tracker/internal/client/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	meta := metadata.NewSQLiteRepository(db)
	s := NewSettingsService(meta)

	_, found, err := s.Get(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "theme", "dark"))
	require.NoError(t, s.Set(ctx, "week_start", "monday"))
	require.NoError(t, meta.Set(ctx, metadata.KeyLastSyncedAt, []byte("x")))

	v, found, err := s.Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "dark", v)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"theme": "dark", "week_start": "monday"}, all)

	require.NoError(t, s.Delete(ctx, "theme"))
	all, err = s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"week_start": "monday"}, all)
}

func TestSettings_EmptyName(t *testing.T) {
	s := NewSettingsService(metadata.NewSQLiteRepository(setupDB(t)))
	require.ErrorIs(t, s.Set(context.Background(), "", "x"), ErrEmptySettingName)
	_, _, err := s.Get(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptySettingName)
}
