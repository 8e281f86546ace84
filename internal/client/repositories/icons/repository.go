// Package icons persists activity icons. An icon is keyed by its activity id
// and is synced by dedicated upload and cleanup steps rather than a batch
// endpoint.
package icons

import (
	"context"

	"github.com/dmitrijs2005/tracker/internal/client/models"
)

type Repository interface {
	// Put stores or replaces the icon of an activity and re-arms it for upload.
	Put(ctx context.Context, activityID, mimeType string, data []byte) (*models.ActivityIcon, error)
	// Get returns the live icon of an activity.
	Get(ctx context.Context, activityID string) (*models.ActivityIcon, error)
	SoftDelete(ctx context.Context, activityID string) error

	// GetPendingUploads returns live pending icons.
	GetPendingUploads(ctx context.Context) ([]models.ActivityIcon, error)
	// GetPendingDeletions returns soft-deleted pending icons.
	GetPendingDeletions(ctx context.Context) ([]models.ActivityIcon, error)
	MarkSynced(ctx context.Context, marks []models.SyncMark) error
	MarkFailed(ctx context.Context, marks []models.SyncMark) error
	// Purge removes icons whose deletion the server confirmed.
	Purge(ctx context.Context, marks []models.SyncMark) error
}
