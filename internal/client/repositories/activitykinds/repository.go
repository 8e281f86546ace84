// Package activitykinds persists ActivityKind records, the per-activity
// sub-categories.
package activitykinds

import (
	"context"

	"github.com/dmitrijs2005/tracker/internal/client/models"
)

type Repository interface {
	Create(ctx context.Context, in models.ActivityKindInput) (*models.ActivityKind, error)
	GetByID(ctx context.Context, id string) (*models.ActivityKind, error)
	GetAllActive(ctx context.Context) ([]models.ActivityKind, error)
	// GetByActivity returns the live kinds of one activity.
	GetByActivity(ctx context.Context, activityID string) ([]models.ActivityKind, error)
	Update(ctx context.Context, id string, patch models.ActivityKindPatch) error
	SoftDelete(ctx context.Context, id string) error

	GetPendingSync(ctx context.Context) ([]models.ActivityKind, error)
	MarkSynced(ctx context.Context, marks []models.SyncMark) error
	MarkFailed(ctx context.Context, marks []models.SyncMark) error
	UpsertFromServer(ctx context.Context, items []models.ActivityKind) error
	// MergeFromServer is UpsertFromServer that skips locally pending or failed rows.
	MergeFromServer(ctx context.Context, items []models.ActivityKind) error
}
