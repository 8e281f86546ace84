// Package activities persists Activity records in the local store.
package activities

import (
	"context"

	"github.com/dmitrijs2005/tracker/internal/client/models"
)

// Repository describes local storage of activities. Every mutation leaves the
// record pending until the sync client confirms it.
type Repository interface {
	Create(ctx context.Context, in models.ActivityInput) (*models.Activity, error)
	// GetByID includes soft-deleted records.
	GetByID(ctx context.Context, id string) (*models.Activity, error)
	GetAllActive(ctx context.Context) ([]models.Activity, error)
	Update(ctx context.Context, id string, patch models.ActivityPatch) error
	SoftDelete(ctx context.Context, id string) error

	GetPendingSync(ctx context.Context) ([]models.Activity, error)
	MarkSynced(ctx context.Context, marks []models.SyncMark) error
	MarkFailed(ctx context.Context, marks []models.SyncMark) error
	UpsertFromServer(ctx context.Context, items []models.Activity) error
	// MergeFromServer is UpsertFromServer that skips locally pending or failed rows.
	MergeFromServer(ctx context.Context, items []models.Activity) error
}
