package activitykinds

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/syncrows"
)

const table = "activity_kinds"

var columns = []string{"user_id", "activity_id", "name", "color"}

type SQLiteRepository struct {
	db    *sql.DB
	users syncrows.UserSource
	now   func() time.Time
}

func NewSQLiteRepository(db *sql.DB, users syncrows.UserSource) *SQLiteRepository {
	return &SQLiteRepository{db: db, users: users, now: time.Now}
}

func scan(s syncrows.Scanner) (models.ActivityKind, error) {
	var k models.ActivityKind
	var m syncrows.Meta
	if err := s.Scan(append(m.Dest(), &k.UserID, &k.ActivityID, &k.Name, &k.Color)...); err != nil {
		return k, err
	}
	return k, m.Into(&k.SyncMeta)
}

func args(k models.ActivityKind) []any {
	return append(syncrows.MetaArgs(k.SyncMeta), k.UserID, k.ActivityID, k.Name, k.Color)
}

func (r *SQLiteRepository) Create(ctx context.Context, in models.ActivityKindInput) (*models.ActivityKind, error) {
	userID, err := r.users.UserID(ctx)
	if err != nil {
		return nil, err
	}

	k := models.ActivityKind{
		SyncMeta:   models.NewSyncMeta(r.now()),
		UserID:     userID,
		ActivityID: in.ActivityID,
		Name:       in.Name,
		Color:      in.Color,
	}
	if _, err := r.db.ExecContext(ctx, syncrows.InsertQuery(table, columns...), args(k)...); err != nil {
		return nil, fmt.Errorf("failed to insert activity kind: %w", err)
	}
	return &k, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.ActivityKind, error) {
	k, err := syncrows.Get(ctx, r.db, table, scan, syncrows.SelectQuery(table, columns...)+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *SQLiteRepository) GetAllActive(ctx context.Context) ([]models.ActivityKind, error) {
	return syncrows.Query(ctx, r.db, table, scan,
		syncrows.SelectQuery(table, columns...)+" WHERE deleted_at IS NULL ORDER BY name, id")
}

func (r *SQLiteRepository) GetByActivity(ctx context.Context, activityID string) ([]models.ActivityKind, error) {
	return syncrows.Query(ctx, r.db, table, scan,
		syncrows.SelectQuery(table, columns...)+" WHERE activity_id = ? AND deleted_at IS NULL ORDER BY name, id",
		activityID)
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, p models.ActivityKindPatch) error {
	var set []syncrows.Assignment
	set = syncrows.Set(set, "name", p.Name)
	set = syncrows.Set(set, "color", p.Color)
	return syncrows.Update(ctx, r.db, table, id, set, r.now())
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, id string) error {
	return syncrows.SoftDelete(ctx, r.db, table, id, r.now())
}

func (r *SQLiteRepository) GetPendingSync(ctx context.Context) ([]models.ActivityKind, error) {
	return syncrows.Query(ctx, r.db, table, scan, syncrows.PendingQuery(table, columns...))
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, marks []models.SyncMark) error {
	return syncrows.MarkStatus(ctx, r.db, table, marks, models.SyncStatusSynced)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, marks []models.SyncMark) error {
	return syncrows.MarkStatus(ctx, r.db, table, marks, models.SyncStatusFailed)
}

func (r *SQLiteRepository) UpsertFromServer(ctx context.Context, items []models.ActivityKind) error {
	return r.upsert(ctx, syncrows.UpsertQuery(table, columns...), items)
}

// MergeFromServer writes pulled items but leaves rows with unpushed local
// edits untouched; those reach the server in the next push.
func (r *SQLiteRepository) MergeFromServer(ctx context.Context, items []models.ActivityKind) error {
	return r.upsert(ctx, syncrows.MergeQuery(table, columns...), items)
}

func (r *SQLiteRepository) upsert(ctx context.Context, query string, items []models.ActivityKind) error {
	err := syncrows.ExecEach(ctx, r.db, query, items, func(k models.ActivityKind) []any {
		k.SyncStatus = models.SyncStatusSynced
		return args(k)
	})
	if err != nil {
		return fmt.Errorf("failed to upsert activity kinds: %w", err)
	}
	return nil
}
