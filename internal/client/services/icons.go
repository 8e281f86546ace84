package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tracker/internal/client/models"
	"github.com/dmitrijs2005/tracker/internal/client/repositories/icons"
	"github.com/dmitrijs2005/tracker/internal/filex"
)

// MaxIconSize bounds icon files accepted from disk.
const MaxIconSize = 256 << 10

// IconService attaches image files to activities. The upload happens in the
// next sync pass.
type IconService struct {
	icons icons.Repository
}

func NewIconService(r icons.Repository) *IconService {
	return &IconService{icons: r}
}

// SetFromFile stores the image at path as the icon of activityID.
func (s *IconService) SetFromFile(ctx context.Context, activityID, path string) (*models.ActivityIcon, error) {
	mime, data, err := filex.ReadImage(path, MaxIconSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load icon: %w", err)
	}
	return s.icons.Put(ctx, activityID, mime, data)
}

func (s *IconService) Get(ctx context.Context, activityID string) (*models.ActivityIcon, error) {
	return s.icons.Get(ctx, activityID)
}

// Remove marks the icon for deletion on the server.
func (s *IconService) Remove(ctx context.Context, activityID string) error {
	return s.icons.SoftDelete(ctx, activityID)
}
