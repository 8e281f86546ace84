package session

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/tracker/internal/client/store"
	"github.com/dmitrijs2005/tracker/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := token.SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return s
}

func setupMeta(t *testing.T) metadata.Repository {
	t.Helper()
	db, err := store.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return metadata.NewSQLiteRepository(db)
}

func TestUserIDFromToken(t *testing.T) {
	id, err := UserIDFromToken(signed(t, "user-42"))
	require.NoError(t, err)
	assert.Equal(t, "user-42", id)

	_, err = UserIDFromToken(signed(t, ""))
	require.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = UserIDFromToken("garbage")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestSession_TokenThenMarkerFallback(t *testing.T) {
	ctx := context.Background()
	meta := setupMeta(t)
	s := New(meta)

	_, err := s.UserID(ctx)
	require.ErrorIs(t, err, common.ErrNotLoggedIn)

	require.NoError(t, metadata.SetJSON(ctx, meta, metadata.KeyAuthCurrent,
		models.AuthState{UserID: "offline-user", LoggedInAt: time.Now()}))

	id, err := s.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "offline-user", id)

	tok := signed(t, "online-user")
	require.NoError(t, s.SetToken(tok))
	assert.Equal(t, tok, s.AccessToken())
	id, err = s.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "online-user", id)

	s.Clear()
	assert.Empty(t, s.AccessToken())
	id, err = s.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "offline-user", id)
}

func TestSetToken_InvalidKeepsPrevious(t *testing.T) {
	s := New(setupMeta(t))
	tok := signed(t, "u1")
	require.NoError(t, s.SetToken(tok))
	require.Error(t, s.SetToken("bad"))
	assert.Equal(t, tok, s.AccessToken())
}
