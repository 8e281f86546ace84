package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/syncrows"
	"github.com/dmitrijs2005/tracker/internal/timex"
)

const table = "tasks"

var columns = []string{"user_id", "title", "notes", "start_date", "due_date", "done", "archived_at"}

type SQLiteRepository struct {
	db    *sql.DB
	users syncrows.UserSource
	now   func() time.Time
}

func NewSQLiteRepository(db *sql.DB, users syncrows.UserSource) *SQLiteRepository {
	return &SQLiteRepository{db: db, users: users, now: time.Now}
}

func scan(s syncrows.Scanner) (models.Task, error) {
	var t models.Task
	var m syncrows.Meta
	var start, due, archived sql.NullString
	if err := s.Scan(append(m.Dest(), &t.UserID, &t.Title, &t.Notes, &start, &due, &t.Done, &archived)...); err != nil {
		return t, err
	}
	t.StartDate = timex.ScanString(start)
	t.DueDate = timex.ScanString(due)

	var err error
	if t.ArchivedAt, err = timex.ScanTimestamp(archived); err != nil {
		return t, err
	}
	return t, m.Into(&t.SyncMeta)
}

func args(t models.Task) []any {
	return append(syncrows.MetaArgs(t.SyncMeta),
		t.UserID, t.Title, t.Notes, timex.NullableString(t.StartDate), timex.NullableString(t.DueDate),
		t.Done, timex.NullableTimestamp(t.ArchivedAt))
}

func (r *SQLiteRepository) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	userID, err := r.users.UserID(ctx)
	if err != nil {
		return nil, err
	}

	t := models.Task{
		SyncMeta:  models.NewSyncMeta(r.now()),
		UserID:    userID,
		Title:     in.Title,
		Notes:     in.Notes,
		StartDate: in.StartDate,
		DueDate:   in.DueDate,
	}
	if _, err := r.db.ExecContext(ctx, syncrows.InsertQuery(table, columns...), args(t)...); err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}
	return &t, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	t, err := syncrows.Get(ctx, r.db, table, scan, syncrows.SelectQuery(table, columns...)+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *SQLiteRepository) GetAllActive(ctx context.Context) ([]models.Task, error) {
	return syncrows.Query(ctx, r.db, table, scan,
		syncrows.SelectQuery(table, columns...)+" WHERE deleted_at IS NULL ORDER BY id")
}

func (r *SQLiteRepository) GetByDate(ctx context.Context, date string) ([]models.Task, error) {
	return syncrows.Query(ctx, r.db, table, scan,
		syncrows.SelectQuery(table, columns...)+` WHERE deleted_at IS NULL AND archived_at IS NULL
		AND (start_date IS NULL OR start_date <= ?) ORDER BY done, due_date IS NULL, due_date, id`, date)
}

func (r *SQLiteRepository) GetArchived(ctx context.Context) ([]models.Task, error) {
	return syncrows.Query(ctx, r.db, table, scan,
		syncrows.SelectQuery(table, columns...)+" WHERE deleted_at IS NULL AND archived_at IS NOT NULL ORDER BY archived_at DESC, id")
}

func (r *SQLiteRepository) Archive(ctx context.Context, id string) error {
	now := r.now()
	set := []syncrows.Assignment{{Column: "archived_at", Value: timex.FormatTimestamp(now)}}
	return syncrows.Update(ctx, r.db, table, id, set, now)
}

func (r *SQLiteRepository) Unarchive(ctx context.Context, id string) error {
	set := []syncrows.Assignment{{Column: "archived_at", Value: nil}}
	return syncrows.Update(ctx, r.db, table, id, set, r.now())
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, p models.TaskPatch) error {
	var set []syncrows.Assignment
	set = syncrows.Set(set, "title", p.Title)
	set = syncrows.Set(set, "notes", p.Notes)
	set = syncrows.SetClearable(set, "start_date", p.StartDate)
	set = syncrows.SetClearable(set, "due_date", p.DueDate)
	set = syncrows.Set(set, "done", p.Done)
	return syncrows.Update(ctx, r.db, table, id, set, r.now())
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, id string) error {
	return syncrows.SoftDelete(ctx, r.db, table, id, r.now())
}

func (r *SQLiteRepository) GetPendingSync(ctx context.Context) ([]models.Task, error) {
	return syncrows.Query(ctx, r.db, table, scan, syncrows.PendingQuery(table, columns...))
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, marks []models.SyncMark) error {
	return syncrows.MarkStatus(ctx, r.db, table, marks, models.SyncStatusSynced)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, marks []models.SyncMark) error {
	return syncrows.MarkStatus(ctx, r.db, table, marks, models.SyncStatusFailed)
}

func (r *SQLiteRepository) UpsertFromServer(ctx context.Context, items []models.Task) error {
	return r.upsert(ctx, syncrows.UpsertQuery(table, columns...), items)
}

// MergeFromServer writes pulled items but leaves rows with unpushed local
// edits untouched; those reach the server in the next push.
func (r *SQLiteRepository) MergeFromServer(ctx context.Context, items []models.Task) error {
	return r.upsert(ctx, syncrows.MergeQuery(table, columns...), items)
}

func (r *SQLiteRepository) upsert(ctx context.Context, query string, items []models.Task) error {
	err := syncrows.ExecEach(ctx, r.db, query, items, func(t models.Task) []any {
		t.SyncStatus = models.SyncStatusSynced
		return args(t)
	})
	if err != nil {
		return fmt.Errorf("failed to upsert tasks: %w", err)
	}
	return nil
}
