package syncer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/tracker/internal/client/client"
	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/logging"
)

// IconRepository is the part of the icon repository the icon steps need.
type IconRepository interface {
	GetPendingUploads(ctx context.Context) ([]models.ActivityIcon, error)
	GetPendingDeletions(ctx context.Context) ([]models.ActivityIcon, error)
	MarkSynced(ctx context.Context, marks []models.SyncMark) error
	MarkFailed(ctx context.Context, marks []models.SyncMark) error
	Purge(ctx context.Context, marks []models.SyncMark) error
}

// IconSync uploads and deletes activity icons one request at a time.
type IconSync struct {
	repo IconRepository
	api  client.Client
	log  logging.Logger
}

func NewIconSync(repo IconRepository, api client.Client, log logging.Logger) *IconSync {
	return &IconSync{repo: repo, api: api, log: log.With("family", "activity_icons")}
}

// Cleanup sends DELETE for every soft-deleted pending icon. Icons the server
// removed, or never had, are purged locally. Any other answer stops the step;
// confirmations gathered so far are still applied.
func (s *IconSync) Cleanup(ctx context.Context) error {
	pending, err := s.repo.GetPendingDeletions(ctx)
	if err != nil {
		return fmt.Errorf("failed to read pending icon deletions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	var purge []models.SyncMark
	var stepErr error
	for _, icon := range pending {
		err := s.api.Do(ctx, http.MethodDelete, client.IconPath(icon.ActivityID), nil, nil, nil)
		if se, ok := client.AsStatus(err); ok && se.Code == http.StatusNotFound {
			err = nil
		}
		if err != nil {
			stepErr = fmt.Errorf("failed to delete icon of %s: %w", icon.ActivityID, err)
			break
		}
		purge = append(purge, icon.Mark())
	}

	if err := s.repo.Purge(ctx, purge); err != nil {
		return errors.Join(stepErr, err)
	}
	s.log.Info(ctx, "deleted icons", "purged", len(purge), "pending", len(pending))
	return stepErr
}

// Upload sends PUT for every live pending icon. A 4xx answer other than an
// auth failure marks the icon failed. Any other error stops the step,
// keeping the outcomes gathered so far.
func (s *IconSync) Upload(ctx context.Context) error {
	pending, err := s.repo.GetPendingUploads(ctx)
	if err != nil {
		return fmt.Errorf("failed to read pending icon uploads: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	var synced, failed []models.SyncMark
	var stepErr error
	for _, icon := range pending {
		err := s.api.Do(ctx, http.MethodPut, client.IconPath(icon.ActivityID), nil, client.IconToWire(icon), nil)
		if err == nil {
			synced = append(synced, icon.Mark())
			continue
		}
		if se, ok := client.AsStatus(err); ok && se.IsClientError() && !errors.Is(err, client.ErrUnauthorized) {
			s.log.Warn(ctx, "icon rejected", "activity_id", icon.ActivityID, "status", se.Code)
			failed = append(failed, icon.Mark())
			continue
		}
		stepErr = fmt.Errorf("failed to upload icon of %s: %w", icon.ActivityID, err)
		break
	}

	if err := s.repo.MarkSynced(ctx, synced); err != nil {
		return errors.Join(stepErr, err)
	}
	if err := s.repo.MarkFailed(ctx, failed); err != nil {
		return errors.Join(stepErr, err)
	}
	s.log.Info(ctx, "uploaded icons", "synced", len(synced), "failed", len(failed))
	return stepErr
}
