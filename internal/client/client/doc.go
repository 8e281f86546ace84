// Package client is the HTTP JSON transport to the tracker server.
//
// # Overview
//
// The Client interface covers the calls the sync engine needs: a generic
// JSON round trip (Do), a health probe (Ping) and credential login (Login).
// HTTPClient implements it over net/http, attaching the session's bearer
// token to every request.
//
// The wire DTOs for each entity family live next to the transport together
// with explicit mapping functions between local models and server records.
// Push DTOs never carry local-only state (sync status, revision), and goal
// pushes omit the server-computed balance fields.
//
// # Error Handling
//
// Non-2xx responses surface as *StatusError; 401 and 403 also match
// ErrUnauthorized with errors.Is. Connection failures match ErrUnavailable.
package client
