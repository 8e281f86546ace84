package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/activitylogs"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/syncrows"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/timers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTimerService(t *testing.T) (*TimerService, *activitylogs.SQLiteRepository) {
	t.Helper()
	db := setupDB(t)
	logs := activitylogs.NewSQLiteRepository(db, syncrows.StaticUser("u1"))
	s := NewTimerService(timers.NewSQLiteRepository(db), logs)
	s.loc = time.UTC
	return s, logs
}

func TestTimer_StartStopCreatesLog(t *testing.T) {
	ctx := context.Background()
	s, logs := newTimerService(t)

	start := time.Date(2024, 6, 1, 23, 50, 0, 0, time.UTC)
	s.now = func() time.Time { return start }
	kind := "k1"
	_, err := s.Start(ctx, "a1", &kind)
	require.NoError(t, err)

	cur, err := s.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "a1", cur.ActivityID)

	// past midnight: the log keeps the start date
	s.now = func() time.Time { return start.Add(25*time.Minute + 30*time.Second) }
	log, err := s.Stop(ctx, "evening run")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", log.Date)
	assert.Equal(t, 25.5, log.Quantity)
	assert.Equal(t, &kind, log.ActivityKindID)
	assert.Equal(t, models.SyncStatusPending, log.SyncStatus)

	stored, err := logs.GetByID(ctx, log.ID)
	require.NoError(t, err)
	assert.Equal(t, "evening run", stored.Comment)

	cur, err = s.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestTimer_SecondStartRejected(t *testing.T) {
	ctx := context.Background()
	s, _ := newTimerService(t)

	_, err := s.Start(ctx, "a1", nil)
	require.NoError(t, err)
	_, err = s.Start(ctx, "a2", nil)
	require.ErrorIs(t, err, timers.ErrTimerRunning)

	cur, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a1", cur.ActivityID)
}

func TestTimer_StopWithoutTimer(t *testing.T) {
	s, _ := newTimerService(t)
	_, err := s.Stop(context.Background(), "")
	require.ErrorIs(t, err, timers.ErrNoTimer)
}

type failingLogs struct {
	activitylogs.Repository
}

func (failingLogs) Create(context.Context, models.ActivityLogInput) (*models.ActivityLog, error) {
	return nil, errors.New("disk full")
}

func TestTimer_StopRestoresTimerWhenLogFails(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	s := NewTimerService(timers.NewSQLiteRepository(db), failingLogs{})

	_, err := s.Start(ctx, "a1", nil)
	require.NoError(t, err)
	_, err = s.Stop(ctx, "")
	require.ErrorContains(t, err, "disk full")

	cur, err := s.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "a1", cur.ActivityID)
}

func TestElapsedMinutes(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0.0, elapsedMinutes(start, start.Add(-time.Minute)))
	assert.Equal(t, 1.5, elapsedMinutes(start, start.Add(90*time.Second)))
	assert.Equal(t, 0.33, elapsedMinutes(start, start.Add(20*time.Second)))
}
