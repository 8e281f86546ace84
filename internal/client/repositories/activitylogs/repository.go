// Package activitylogs persists ActivityLog records: quantities of an
// activity done on a calendar date.
package activitylogs

import (
	"context"

	"github.com/dmitrijs2005/tracker/internal/client/models"
)

type Repository interface {
	Create(ctx context.Context, in models.ActivityLogInput) (*models.ActivityLog, error)
	GetByID(ctx context.Context, id string) (*models.ActivityLog, error)
	GetAllActive(ctx context.Context) ([]models.ActivityLog, error)
	// GetByDate returns live logs dated exactly date (YYYY-MM-DD).
	GetByDate(ctx context.Context, date string) ([]models.ActivityLog, error)
	// GetByDateRange returns live logs with from <= date <= to.
	GetByDateRange(ctx context.Context, from, to string) ([]models.ActivityLog, error)
	GetByActivity(ctx context.Context, activityID string) ([]models.ActivityLog, error)
	Update(ctx context.Context, id string, patch models.ActivityLogPatch) error
	SoftDelete(ctx context.Context, id string) error

	GetPendingSync(ctx context.Context) ([]models.ActivityLog, error)
	MarkSynced(ctx context.Context, marks []models.SyncMark) error
	MarkFailed(ctx context.Context, marks []models.SyncMark) error
	UpsertFromServer(ctx context.Context, items []models.ActivityLog) error
	// MergeFromServer is UpsertFromServer that skips locally pending or failed rows.
	MergeFromServer(ctx context.Context, items []models.ActivityLog) error
}
