package timers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/client/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := store.OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db)
}

func TestStartCurrentTake(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	start := time.Date(2024, 6, 1, 7, 30, 0, 0, time.UTC)
	kind := "k"

	cur, err := r.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, cur)

	require.NoError(t, r.Start(ctx, models.ActiveTimer{ActivityID: "run", ActivityKindID: &kind, StartTime: start}))

	cur, err = r.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "run", cur.ActivityID)
	assert.Equal(t, "k", *cur.ActivityKindID)
	assert.True(t, cur.StartTime.Equal(start))

	taken, err := r.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, cur, taken)

	_, err = r.Take(ctx)
	require.ErrorIs(t, err, ErrNoTimer)
}

func TestStart_CompareAndSet(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = r.Start(ctx, models.ActiveTimer{ActivityID: "a", StartTime: time.Now()})
		}(i)
	}
	wg.Wait()

	var ok, running int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, ErrTimerRunning):
			running++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, len(errs)-1, running)
}
