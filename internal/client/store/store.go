// Package store opens the local SQLite entity store and keeps its schema
// current with the embedded goose migrations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/tracker/internal/client/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// FileDSN builds a file: URI for an on-disk database with WAL and a busy
// timeout. The path is percent-encoded, so '?', '#' and '%' in it stay part of
// the file name.
func FileDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	u := url.URL{
		Scheme:   "file",
		Opaque:   (&url.URL{Path: path}).EscapedPath(),
		RawQuery: q.Encode(),
	}
	return u.String()
}

// RunMigrations applies all pending migrations. It is safe to call on an
// up-to-date database.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Open opens the store at dsn and migrates it.
//
// The pool is capped at one connection: SQLite serializes writers anyway,
// and a single connection keeps ":memory:" databases shared across callers.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenMemory opens a migrated in-memory store. Used by tests.
func OpenMemory(ctx context.Context) (*sql.DB, error) {
	return Open(ctx, ":memory:")
}
