// Package tasks persists Task records. Tasks move active -> archived ->
// deleted; archiving is reversible, deletion is not.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/tracker/internal/client/models"
)

type Repository interface {
	Create(ctx context.Context, in models.TaskInput) (*models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)
	GetAllActive(ctx context.Context) ([]models.Task, error)
	// GetByDate returns live, unarchived tasks that have started by date.
	// Tasks without a start date are always included.
	GetByDate(ctx context.Context, date string) ([]models.Task, error)
	GetArchived(ctx context.Context) ([]models.Task, error)
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Update(ctx context.Context, id string, patch models.TaskPatch) error
	SoftDelete(ctx context.Context, id string) error

	GetPendingSync(ctx context.Context) ([]models.Task, error)
	MarkSynced(ctx context.Context, marks []models.SyncMark) error
	MarkFailed(ctx context.Context, marks []models.SyncMark) error
	UpsertFromServer(ctx context.Context, items []models.Task) error
	// MergeFromServer is UpsertFromServer that skips locally pending or failed rows.
	MergeFromServer(ctx context.Context, items []models.Task) error
}
