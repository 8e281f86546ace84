// Package timers keeps the single active stopwatch. The active_timer table has
// at most one row, so starting is a compare-and-set insert.
package timers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/dbx"
	"github.com/dmitrijs2005/tracker/internal/timex"
)

var (
	ErrTimerRunning = errors.New("a timer is already running")
	ErrNoTimer      = errors.New("no timer is running")
)

type Repository interface {
	// Start records t as the active timer, or returns ErrTimerRunning.
	Start(ctx context.Context, t models.ActiveTimer) error
	// Current returns the active timer, or nil when none is running.
	Current(ctx context.Context) (*models.ActiveTimer, error)
	// Take removes and returns the active timer, or returns ErrNoTimer.
	Take(ctx context.Context) (*models.ActiveTimer, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Start(ctx context.Context, t models.ActiveTimer) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO active_timer (slot, activity_id, activity_kind_id, start_time)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(slot) DO NOTHING`,
		t.ActivityID, timex.NullableString(t.ActivityKindID), timex.FormatTimestamp(t.StartTime))
	if err != nil {
		return fmt.Errorf("failed to start timer: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return ErrTimerRunning
	}
	return nil
}

func current(ctx context.Context, db dbx.DBTX) (*models.ActiveTimer, error) {
	var t models.ActiveTimer
	var kind sql.NullString
	var start string
	err := db.QueryRowContext(ctx,
		`SELECT activity_id, activity_kind_id, start_time FROM active_timer WHERE slot = 1`).
		Scan(&t.ActivityID, &kind, &start)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read timer: %w", err)
	}
	t.ActivityKindID = timex.ScanString(kind)
	if t.StartTime, err = timex.ParseTimestamp(start); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *SQLiteRepository) Current(ctx context.Context) (*models.ActiveTimer, error) {
	return current(ctx, r.db)
}

func (r *SQLiteRepository) Take(ctx context.Context) (*models.ActiveTimer, error) {
	var taken *models.ActiveTimer
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		t, err := current(ctx, tx)
		if err != nil {
			return err
		}
		if t == nil {
			return ErrNoTimer
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM active_timer WHERE slot = 1`); err != nil {
			return fmt.Errorf("failed to stop timer: %w", err)
		}
		taken = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return taken, nil
}
