package client

import (
	"context"
	"net/url"
)

// Client is the server API used by the sync engine and the auth flow.
type Client interface {
	// Do sends body (if non-nil) as JSON and decodes a 2xx response into out
	// (if non-nil). Non-2xx responses return *StatusError.
	Do(ctx context.Context, method, path string, query url.Values, body, out any) error
	Ping(ctx context.Context) error
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
}

// TokenSource provides the bearer token attached to each request.
type TokenSource interface {
	AccessToken() string
}

// StaticToken is a TokenSource with a fixed token.
type StaticToken string

func (t StaticToken) AccessToken() string { return string(t) }
