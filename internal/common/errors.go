// Package common defines shared constants and sentinel errors used across
// the tracker client. Callers should use errors.Is to match these values.
package common

import "errors"

// AuthorizationHeaderName is the HTTP header carrying the bearer access token.
const AuthorizationHeaderName = "Authorization"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Session errors.
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrInvalidToken = errors.New("invalid token")
)
