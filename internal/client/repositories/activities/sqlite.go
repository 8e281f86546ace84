package activities

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/syncrows"
)

const table = "activities"

var columns = []string{"user_id", "name", "description", "unit"}

// SQLiteRepository implements Repository on the local SQLite store.
type SQLiteRepository struct {
	db    *sql.DB
	users syncrows.UserSource
	now   func() time.Time
}

func NewSQLiteRepository(db *sql.DB, users syncrows.UserSource) *SQLiteRepository {
	return &SQLiteRepository{db: db, users: users, now: time.Now}
}

func scan(s syncrows.Scanner) (models.Activity, error) {
	var a models.Activity
	var m syncrows.Meta
	if err := s.Scan(append(m.Dest(), &a.UserID, &a.Name, &a.Description, &a.Unit)...); err != nil {
		return a, err
	}
	return a, m.Into(&a.SyncMeta)
}

func args(a models.Activity) []any {
	return append(syncrows.MetaArgs(a.SyncMeta), a.UserID, a.Name, a.Description, a.Unit)
}

func (r *SQLiteRepository) Create(ctx context.Context, in models.ActivityInput) (*models.Activity, error) {
	userID, err := r.users.UserID(ctx)
	if err != nil {
		return nil, err
	}

	a := models.Activity{
		SyncMeta:    models.NewSyncMeta(r.now()),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Unit:        in.Unit,
	}
	if _, err := r.db.ExecContext(ctx, syncrows.InsertQuery(table, columns...), args(a)...); err != nil {
		return nil, fmt.Errorf("failed to insert activity: %w", err)
	}
	return &a, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	a, err := syncrows.Get(ctx, r.db, table, scan, syncrows.SelectQuery(table, columns...)+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SQLiteRepository) GetAllActive(ctx context.Context) ([]models.Activity, error) {
	return syncrows.Query(ctx, r.db, table, scan,
		syncrows.SelectQuery(table, columns...)+" WHERE deleted_at IS NULL ORDER BY name, id")
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, p models.ActivityPatch) error {
	var set []syncrows.Assignment
	set = syncrows.Set(set, "name", p.Name)
	set = syncrows.Set(set, "description", p.Description)
	set = syncrows.Set(set, "unit", p.Unit)
	return syncrows.Update(ctx, r.db, table, id, set, r.now())
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, id string) error {
	return syncrows.SoftDelete(ctx, r.db, table, id, r.now())
}

func (r *SQLiteRepository) GetPendingSync(ctx context.Context) ([]models.Activity, error) {
	return syncrows.Query(ctx, r.db, table, scan, syncrows.PendingQuery(table, columns...))
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, marks []models.SyncMark) error {
	return syncrows.MarkStatus(ctx, r.db, table, marks, models.SyncStatusSynced)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, marks []models.SyncMark) error {
	return syncrows.MarkStatus(ctx, r.db, table, marks, models.SyncStatusFailed)
}

// UpsertFromServer stores items exactly as received and marks them synced,
// replacing any local version.
func (r *SQLiteRepository) UpsertFromServer(ctx context.Context, items []models.Activity) error {
	return r.upsert(ctx, syncrows.UpsertQuery(table, columns...), items)
}

// MergeFromServer writes pulled items but leaves rows with unpushed local
// edits untouched; those reach the server in the next push.
func (r *SQLiteRepository) MergeFromServer(ctx context.Context, items []models.Activity) error {
	return r.upsert(ctx, syncrows.MergeQuery(table, columns...), items)
}

func (r *SQLiteRepository) upsert(ctx context.Context, query string, items []models.Activity) error {
	err := syncrows.ExecEach(ctx, r.db, query, items, func(a models.Activity) []any {
		a.SyncStatus = models.SyncStatusSynced
		return args(a)
	})
	if err != nil {
		return fmt.Errorf("failed to upsert activities: %w", err)
	}
	return nil
}
