package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/resolvely/resolution-tracker/internal/models"
)

// ResolutionRepositoryInterface defines the interface for resolution
// repository operations. This interface enables better testability by
// allowing mock implementations.
type ResolutionRepositoryInterface interface {
	Create(ctx context.Context, resolution *models.Resolution) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Resolution, error)
	GetAll(ctx context.Context) ([]*models.Resolution, error)
	Update(ctx context.Context, resolution *models.Resolution) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddProgress(ctx context.Context, id uuid.UUID, entry models.ProgressEntry, replace bool) (*models.Resolution, error)
}

// AppStateRepositoryInterface defines the interface for settings and
// prompt-marker operations
type AppStateRepositoryInterface interface {
	GetSettings(ctx context.Context) (models.TrackingSettings, error)
	SetSettings(ctx context.Context, settings models.TrackingSettings) error
	GetLastPromptDate(ctx context.Context) (string, error)
	SetLastPromptDate(ctx context.Context, date string) error
}

// Ensure concrete types implement the interfaces
var (
	_ ResolutionRepositoryInterface = (*ResolutionRepository)(nil)
	_ AppStateRepositoryInterface   = (*AppStateRepository)(nil)
)
