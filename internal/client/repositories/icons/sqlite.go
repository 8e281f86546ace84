package icons

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/syncrows"
	"github.com/dmitrijs2005/tracker/internal/timex"
)

const table = "activity_icons"

var columns = []string{"mime_type", "data"}

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func scan(s syncrows.Scanner) (models.ActivityIcon, error) {
	var i models.ActivityIcon
	var m syncrows.Meta
	if err := s.Scan(append(m.Dest(), &i.MimeType, &i.Data)...); err != nil {
		return i, err
	}
	if err := m.Into(&i.SyncMeta); err != nil {
		return i, err
	}
	i.ActivityID = i.ID
	return i, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, activityID, mimeType string, data []byte) (*models.ActivityIcon, error) {
	now := timex.FormatTimestamp(r.now())
	query := syncrows.InsertQuery(table, columns...) + `
		ON CONFLICT(id) DO UPDATE SET mime_type = excluded.mime_type, data = excluded.data,
			updated_at = excluded.updated_at, deleted_at = NULL, sync_status = 'pending',
			revision = activity_icons.revision + 1`
	_, err := r.db.ExecContext(ctx, query, activityID, now, now, nil, string(models.SyncStatusPending), 1, mimeType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to put activity icon: %w", err)
	}
	return r.Get(ctx, activityID)
}

func (r *SQLiteRepository) Get(ctx context.Context, activityID string) (*models.ActivityIcon, error) {
	i, err := syncrows.Get(ctx, r.db, table, scan,
		syncrows.SelectQuery(table, columns...)+" WHERE id = ? AND deleted_at IS NULL", activityID)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, activityID string) error {
	return syncrows.SoftDelete(ctx, r.db, table, activityID, r.now())
}

func (r *SQLiteRepository) GetPendingUploads(ctx context.Context) ([]models.ActivityIcon, error) {
	return syncrows.Query(ctx, r.db, table, scan,
		syncrows.SelectQuery(table, columns...)+" WHERE sync_status = 'pending' AND deleted_at IS NULL ORDER BY id")
}

func (r *SQLiteRepository) GetPendingDeletions(ctx context.Context) ([]models.ActivityIcon, error) {
	return syncrows.Query(ctx, r.db, table, scan,
		syncrows.SelectQuery(table, columns...)+" WHERE sync_status = 'pending' AND deleted_at IS NOT NULL ORDER BY id")
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, marks []models.SyncMark) error {
	return syncrows.MarkStatus(ctx, r.db, table, marks, models.SyncStatusSynced)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, marks []models.SyncMark) error {
	return syncrows.MarkStatus(ctx, r.db, table, marks, models.SyncStatusFailed)
}

// Purge deletes rows still at the captured revision. An icon put again after
// the deletion was read survives.
func (r *SQLiteRepository) Purge(ctx context.Context, marks []models.SyncMark) error {
	query := "DELETE FROM activity_icons WHERE id = ? AND revision = ?"
	err := syncrows.ExecEach(ctx, r.db, query, marks, func(m models.SyncMark) []any {
		return []any{m.ID, m.Revision}
	})
	if err != nil {
		return fmt.Errorf("failed to purge activity icons: %w", err)
	}
	return nil
}
