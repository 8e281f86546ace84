package goals

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/syncrows"
	"github.com/dmitrijs2005/tracker/internal/timex"
)

const table = "goals"

var columns = []string{
	"user_id", "activity_id", "title", "target_quantity", "start_date", "end_date",
	"current_balance", "total_target", "total_actual",
}

type SQLiteRepository struct {
	db    *sql.DB
	users syncrows.UserSource
	now   func() time.Time
}

func NewSQLiteRepository(db *sql.DB, users syncrows.UserSource) *SQLiteRepository {
	return &SQLiteRepository{db: db, users: users, now: time.Now}
}

func scan(s syncrows.Scanner) (models.Goal, error) {
	var g models.Goal
	var m syncrows.Meta
	var end sql.NullString
	dest := append(m.Dest(),
		&g.UserID, &g.ActivityID, &g.Title, &g.TargetQuantity, &g.StartDate, &end,
		&g.CurrentBalance, &g.TotalTarget, &g.TotalActual)
	if err := s.Scan(dest...); err != nil {
		return g, err
	}
	g.EndDate = timex.ScanString(end)
	return g, m.Into(&g.SyncMeta)
}

func args(g models.Goal) []any {
	return append(syncrows.MetaArgs(g.SyncMeta),
		g.UserID, g.ActivityID, g.Title, g.TargetQuantity, g.StartDate, timex.NullableString(g.EndDate),
		g.CurrentBalance, g.TotalTarget, g.TotalActual)
}

// Create stores a new goal with zeroed derived fields.
func (r *SQLiteRepository) Create(ctx context.Context, in models.GoalInput) (*models.Goal, error) {
	userID, err := r.users.UserID(ctx)
	if err != nil {
		return nil, err
	}

	g := models.Goal{
		SyncMeta:       models.NewSyncMeta(r.now()),
		UserID:         userID,
		ActivityID:     in.ActivityID,
		Title:          in.Title,
		TargetQuantity: in.TargetQuantity,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
	}
	if _, err := r.db.ExecContext(ctx, syncrows.InsertQuery(table, columns...), args(g)...); err != nil {
		return nil, fmt.Errorf("failed to insert goal: %w", err)
	}
	return &g, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Goal, error) {
	g, err := syncrows.Get(ctx, r.db, table, scan, syncrows.SelectQuery(table, columns...)+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *SQLiteRepository) live(ctx context.Context, where string, args ...any) ([]models.Goal, error) {
	query := syncrows.SelectQuery(table, columns...) + " WHERE deleted_at IS NULL"
	if where != "" {
		query += " AND " + where
	}
	query += " ORDER BY start_date, id"
	return syncrows.Query(ctx, r.db, table, scan, query, args...)
}

func (r *SQLiteRepository) GetAllActive(ctx context.Context) ([]models.Goal, error) {
	return r.live(ctx, "")
}

func (r *SQLiteRepository) GetByDate(ctx context.Context, date string) ([]models.Goal, error) {
	return r.live(ctx, "start_date <= ? AND (end_date IS NULL OR end_date >= ?)", date, date)
}

func (r *SQLiteRepository) GetByActivity(ctx context.Context, activityID string) ([]models.Goal, error) {
	return r.live(ctx, "activity_id = ?", activityID)
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, p models.GoalPatch) error {
	var set []syncrows.Assignment
	set = syncrows.Set(set, "title", p.Title)
	set = syncrows.Set(set, "target_quantity", p.TargetQuantity)
	set = syncrows.Set(set, "start_date", p.StartDate)
	set = syncrows.SetClearable(set, "end_date", p.EndDate)
	return syncrows.Update(ctx, r.db, table, id, set, r.now())
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, id string) error {
	return syncrows.SoftDelete(ctx, r.db, table, id, r.now())
}

func (r *SQLiteRepository) GetPendingSync(ctx context.Context) ([]models.Goal, error) {
	return syncrows.Query(ctx, r.db, table, scan, syncrows.PendingQuery(table, columns...))
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, marks []models.SyncMark) error {
	return syncrows.MarkStatus(ctx, r.db, table, marks, models.SyncStatusSynced)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, marks []models.SyncMark) error {
	return syncrows.MarkStatus(ctx, r.db, table, marks, models.SyncStatusFailed)
}

// UpsertFromServer and MergeFromServer are the only writers of the derived
// balance fields.
func (r *SQLiteRepository) UpsertFromServer(ctx context.Context, items []models.Goal) error {
	return r.upsert(ctx, syncrows.UpsertQuery(table, columns...), items)
}

// MergeFromServer writes pulled items but leaves rows with unpushed local
// edits untouched; those reach the server in the next push.
func (r *SQLiteRepository) MergeFromServer(ctx context.Context, items []models.Goal) error {
	return r.upsert(ctx, syncrows.MergeQuery(table, columns...), items)
}

func (r *SQLiteRepository) upsert(ctx context.Context, query string, items []models.Goal) error {
	err := syncrows.ExecEach(ctx, r.db, query, items, func(g models.Goal) []any {
		g.SyncStatus = models.SyncStatusSynced
		return args(g)
	})
	if err != nil {
		return fmt.Errorf("failed to upsert goals: %w", err)
	}
	return nil
}
