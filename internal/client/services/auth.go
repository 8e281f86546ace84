// Package services contains application services for the tracker client.
// This file defines the authentication service: online login followed by the
// initial pull of server data, liveness probe, and logout.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tracker/internal/client/client"
	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/tracker/internal/client/session"
	"github.com/dmitrijs2005/tracker/internal/dbx"
	"github.com/dmitrijs2005/tracker/internal/logging"
)

// AuthService defines authentication operations.
//
// Contract:
//   - Login: authenticate against the server, install the token in the
//     session and pull the user's data.
//   - Logout: forget the token and the local auth marker.
//   - Ping: check server liveness.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.AuthState, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Bootstrap pulls server state for a freshly logged-in user.
type Bootstrap interface {
	Run(ctx context.Context, auth models.AuthState) error
}

// TokenHolder is the part of the session the auth service drives.
type TokenHolder interface {
	SetToken(token string) error
	Clear()
}

type authService struct {
	client    client.Client
	db        *sql.DB
	tokens    TokenHolder
	bootstrap Bootstrap
	log       logging.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService bound to the API client, the local
// store, the session and the bootstrapper.
func NewAuthService(c client.Client, db *sql.DB, tokens TokenHolder, bootstrap Bootstrap, log logging.Logger) AuthService {
	return &authService{
		client:    c,
		db:        db,
		tokens:    tokens,
		bootstrap: bootstrap,
		log:       log.With("component", "auth"),
		now:       time.Now,
	}
}

// Login authenticates against the server and runs the bootstrap. When the
// bootstrap fails the user stays logged in: the token is installed and the
// auth marker is written, so Login may simply be retried.
func (a *authService) Login(ctx context.Context, email, password string) (*models.AuthState, error) {
	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	if err := a.tokens.SetToken(resp.AccessToken); err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	// SetToken accepted the token, so its subject is present. The subject
	// wins over resp.User.ID because repositories stamp records with it.
	userID, _ := session.UserIDFromToken(resp.AccessToken)
	state := models.AuthState{UserID: userID, LoggedInAt: a.now().UTC()}

	if err := a.bootstrap.Run(ctx, state); err != nil {
		return nil, fmt.Errorf("initial sync error: %w", err)
	}
	a.log.Info(ctx, "logged in", "user_id", userID)
	return &state, nil
}

// Logout removes the auth marker and the last-synced timestamp in one
// transaction, so the next login starts with a full pull, and then clears
// the in-memory token.
func (a *authService) Logout(ctx context.Context) error {
	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		meta := metadata.NewSQLiteRepository(tx)
		if err := meta.Delete(ctx, metadata.KeyAuthCurrent); err != nil {
			return err
		}
		return meta.Delete(ctx, metadata.KeyLastSyncedAt)
	})
	if err != nil {
		return fmt.Errorf("logout error: %w", err)
	}
	a.tokens.Clear()
	a.log.Info(ctx, "logged out")
	return nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
