// Package goals persists Goal records. The derived balance fields are a
// server-computed cache: local writes never touch them except through
// UpsertFromServer and MergeFromServer.
package goals

import (
	"context"

	"github.com/dmitrijs2005/tracker/internal/client/models"
)

type Repository interface {
	Create(ctx context.Context, in models.GoalInput) (*models.Goal, error)
	GetByID(ctx context.Context, id string) (*models.Goal, error)
	GetAllActive(ctx context.Context) ([]models.Goal, error)
	// GetByDate returns live goals whose window contains date.
	GetByDate(ctx context.Context, date string) ([]models.Goal, error)
	GetByActivity(ctx context.Context, activityID string) ([]models.Goal, error)
	Update(ctx context.Context, id string, patch models.GoalPatch) error
	SoftDelete(ctx context.Context, id string) error

	GetPendingSync(ctx context.Context) ([]models.Goal, error)
	MarkSynced(ctx context.Context, marks []models.SyncMark) error
	MarkFailed(ctx context.Context, marks []models.SyncMark) error
	UpsertFromServer(ctx context.Context, items []models.Goal) error
	// MergeFromServer is UpsertFromServer that skips locally pending or failed rows.
	MergeFromServer(ctx context.Context, items []models.Goal) error
}
