// Package session holds the credentials of the logged-in user.
//
// The access token is kept in memory only. The user id comes from the token's
// "sub" claim while a token is present and from the persisted auth marker
// otherwise, so records can still be created offline after a restart.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/tracker/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

type Session struct {
	meta metadata.Repository

	mu     sync.RWMutex
	token  string
	userID string
}

func New(meta metadata.Repository) *Session {
	return &Session{meta: meta}
}

// UserIDFromToken reads the subject of a JWT without verifying its signature.
// Verification is the server's job; the client only needs to know whose data
// it is storing.
func UserIDFromToken(token string) (string, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing sub claim", common.ErrInvalidToken)
	}
	return claims.Subject, nil
}

// SetToken installs a new access token.
func (s *Session) SetToken(token string) error {
	userID, err := UserIDFromToken(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.userID = userID
	return nil
}

// AccessToken returns the current token, or "" when logged out.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// UserID returns the current user id. It returns common.ErrNotLoggedIn when
// there is neither a token nor an auth marker.
func (s *Session) UserID(ctx context.Context) (string, error) {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID != "" {
		return userID, nil
	}

	var state models.AuthState
	found, err := metadata.GetJSON(ctx, s.meta, metadata.KeyAuthCurrent, &state)
	if err != nil {
		return "", err
	}
	if !found || state.UserID == "" {
		return "", common.ErrNotLoggedIn
	}
	return state.UserID, nil
}

// Clear forgets the token. The persisted marker is left to the caller.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.userID = ""
}
