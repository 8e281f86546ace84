package activitylogs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/syncrows"
	"github.com/dmitrijs2005/tracker/internal/timex"
)

const table = "activity_logs"

var columns = []string{"user_id", "activity_id", "activity_kind_id", "date", "quantity", "comment"}

type SQLiteRepository struct {
	db    *sql.DB
	users syncrows.UserSource
	now   func() time.Time
}

func NewSQLiteRepository(db *sql.DB, users syncrows.UserSource) *SQLiteRepository {
	return &SQLiteRepository{db: db, users: users, now: time.Now}
}

func scan(s syncrows.Scanner) (models.ActivityLog, error) {
	var l models.ActivityLog
	var m syncrows.Meta
	var kind sql.NullString
	if err := s.Scan(append(m.Dest(), &l.UserID, &l.ActivityID, &kind, &l.Date, &l.Quantity, &l.Comment)...); err != nil {
		return l, err
	}
	l.ActivityKindID = timex.ScanString(kind)
	return l, m.Into(&l.SyncMeta)
}

func args(l models.ActivityLog) []any {
	return append(syncrows.MetaArgs(l.SyncMeta),
		l.UserID, l.ActivityID, timex.NullableString(l.ActivityKindID), l.Date, l.Quantity, l.Comment)
}

func (r *SQLiteRepository) Create(ctx context.Context, in models.ActivityLogInput) (*models.ActivityLog, error) {
	userID, err := r.users.UserID(ctx)
	if err != nil {
		return nil, err
	}

	l := models.ActivityLog{
		SyncMeta:       models.NewSyncMeta(r.now()),
		UserID:         userID,
		ActivityID:     in.ActivityID,
		ActivityKindID: in.ActivityKindID,
		Date:           in.Date,
		Quantity:       in.Quantity,
		Comment:        in.Comment,
	}
	if _, err := r.db.ExecContext(ctx, syncrows.InsertQuery(table, columns...), args(l)...); err != nil {
		return nil, fmt.Errorf("failed to insert activity log: %w", err)
	}
	return &l, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.ActivityLog, error) {
	l, err := syncrows.Get(ctx, r.db, table, scan, syncrows.SelectQuery(table, columns...)+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *SQLiteRepository) live(ctx context.Context, where string, args ...any) ([]models.ActivityLog, error) {
	query := syncrows.SelectQuery(table, columns...) + " WHERE deleted_at IS NULL"
	if where != "" {
		query += " AND " + where
	}
	query += " ORDER BY date, id"
	return syncrows.Query(ctx, r.db, table, scan, query, args...)
}

func (r *SQLiteRepository) GetAllActive(ctx context.Context) ([]models.ActivityLog, error) {
	return r.live(ctx, "")
}

func (r *SQLiteRepository) GetByDate(ctx context.Context, date string) ([]models.ActivityLog, error) {
	return r.live(ctx, "date = ?", date)
}

func (r *SQLiteRepository) GetByDateRange(ctx context.Context, from, to string) ([]models.ActivityLog, error) {
	return r.live(ctx, "date >= ? AND date <= ?", from, to)
}

func (r *SQLiteRepository) GetByActivity(ctx context.Context, activityID string) ([]models.ActivityLog, error) {
	return r.live(ctx, "activity_id = ?", activityID)
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, p models.ActivityLogPatch) error {
	var set []syncrows.Assignment
	set = syncrows.Set(set, "activity_kind_id", p.ActivityKindID)
	set = syncrows.Set(set, "date", p.Date)
	set = syncrows.Set(set, "quantity", p.Quantity)
	set = syncrows.Set(set, "comment", p.Comment)
	return syncrows.Update(ctx, r.db, table, id, set, r.now())
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, id string) error {
	return syncrows.SoftDelete(ctx, r.db, table, id, r.now())
}

func (r *SQLiteRepository) GetPendingSync(ctx context.Context) ([]models.ActivityLog, error) {
	return syncrows.Query(ctx, r.db, table, scan, syncrows.PendingQuery(table, columns...))
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, marks []models.SyncMark) error {
	return syncrows.MarkStatus(ctx, r.db, table, marks, models.SyncStatusSynced)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, marks []models.SyncMark) error {
	return syncrows.MarkStatus(ctx, r.db, table, marks, models.SyncStatusFailed)
}

func (r *SQLiteRepository) UpsertFromServer(ctx context.Context, items []models.ActivityLog) error {
	return r.upsert(ctx, syncrows.UpsertQuery(table, columns...), items)
}

// MergeFromServer writes pulled items but leaves rows with unpushed local
// edits untouched; those reach the server in the next push.
func (r *SQLiteRepository) MergeFromServer(ctx context.Context, items []models.ActivityLog) error {
	return r.upsert(ctx, syncrows.MergeQuery(table, columns...), items)
}

func (r *SQLiteRepository) upsert(ctx context.Context, query string, items []models.ActivityLog) error {
	err := syncrows.ExecEach(ctx, r.db, query, items, func(l models.ActivityLog) []any {
		l.SyncStatus = models.SyncStatusSynced
		return args(l)
	})
	if err != nil {
		return fmt.Errorf("failed to upsert activity logs: %w", err)
	}
	return nil
}
