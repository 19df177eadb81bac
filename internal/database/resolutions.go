package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/resolvely/resolution-tracker/internal/models"
)

// ResolutionRepository handles resolution database operations
type ResolutionRepository struct {
	db *DB
}

// NewResolutionRepository creates a new resolution repository
func NewResolutionRepository(db *DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// Create creates a new resolution. The caller provides the id; createdAt and
// an empty progress list are assigned here.
func (r *ResolutionRepository) Create(ctx context.Context, resolution *models.Resolution) error {
	query := `
		INSERT INTO resolutions (id, title, target_value, target_unit, frequency, raw_input, weight, tracking, progress, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	if resolution.Progress == nil {
		resolution.Progress = []models.ProgressEntry{}
	}

	weightJSON, trackingJSON, progressJSON, err := marshalResolutionColumns(resolution)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, query,
		resolution.ID,
		resolution.Title,
		resolution.TargetValue,
		resolution.TargetUnit,
		resolution.Frequency,
		resolution.RawInput,
		weightJSON,
		trackingJSON,
		progressJSON,
		time.Now(),
	).Scan(&resolution.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create resolution: %w", err)
	}

	return nil
}

// GetByID retrieves a resolution by ID
func (r *ResolutionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Resolution, error) {
	query := `
		SELECT id, title, target_value, target_unit, frequency, raw_input, weight, tracking, progress, created_at
		FROM resolutions
		WHERE id = $1
	`

	resolution, err := scanResolution(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resolution: %w", err)
	}
	return resolution, nil
}

// GetAll retrieves all resolutions in insertion order
func (r *ResolutionRepository) GetAll(ctx context.Context) ([]*models.Resolution, error) {
	query := `
		SELECT id, title, target_value, target_unit, frequency, raw_input, weight, tracking, progress, created_at
		FROM resolutions
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query resolutions: %w", err)
	}
	defer rows.Close()

	resolutions := []*models.Resolution{}
	for rows.Next() {
		resolution, err := scanResolution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resolution: %w", err)
		}
		resolutions = append(resolutions, resolution)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resolutions: %w", err)
	}

	return resolutions, nil
}

// Update updates an existing resolution. CreatedAt is never touched.
func (r *ResolutionRepository) Update(ctx context.Context, resolution *models.Resolution) error {
	query := `
		UPDATE resolutions
		SET title = $2, target_value = $3, target_unit = $4, frequency = $5, raw_input = $6, weight = $7, tracking = $8, progress = $9
		WHERE id = $1
	`

	weightJSON, trackingJSON, progressJSON, err := marshalResolutionColumns(resolution)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query,
		resolution.ID,
		resolution.Title,
		resolution.TargetValue,
		resolution.TargetUnit,
		resolution.Frequency,
		resolution.RawInput,
		weightJSON,
		trackingJSON,
		progressJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to update resolution: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete deletes a resolution by ID
func (r *ResolutionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM resolutions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resolution: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// AddProgress records progress for a date. An existing entry for the date is
// summed into by default or overwritten when replace is true; a new date is
// always appended. The read-modify-write runs inside a transaction with the
// row locked so the one-entry-per-date invariant holds under concurrent
// writers.
func (r *ResolutionRepository) AddProgress(ctx context.Context, id uuid.UUID, entry models.ProgressEntry, replace bool) (*models.Resolution, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var progressJSON []byte
	err = tx.QueryRowContext(ctx, `SELECT progress FROM resolutions WHERE id = $1 FOR UPDATE`, id).Scan(&progressJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock resolution: %w", err)
	}

	var progress []models.ProgressEntry
	if err := json.Unmarshal(progressJSON, &progress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
	}

	progress = models.ApplyProgress(progress, entry, replace)

	updatedJSON, err := json.Marshal(progress)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal progress: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE resolutions SET progress = $2 WHERE id = $1`, id, updatedJSON); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit progress update: %w", err)
	}

	return r.GetByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResolution(row rowScanner) (*models.Resolution, error) {
	resolution := &models.Resolution{}
	var weightJSON, trackingJSON, progressJSON []byte

	err := row.Scan(
		&resolution.ID,
		&resolution.Title,
		&resolution.TargetValue,
		&resolution.TargetUnit,
		&resolution.Frequency,
		&resolution.RawInput,
		&weightJSON,
		&trackingJSON,
		&progressJSON,
		&resolution.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(weightJSON) > 0 {
		weight := &models.ResolutionWeight{}
		if err := json.Unmarshal(weightJSON, weight); err != nil {
			return nil, fmt.Errorf("failed to unmarshal weight: %w", err)
		}
		resolution.Weight = weight
	}
	if len(trackingJSON) > 0 {
		tracking := &models.TrackingConfig{}
		if err := json.Unmarshal(trackingJSON, tracking); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tracking config: %w", err)
		}
		resolution.Tracking = tracking
	}
	if err := json.Unmarshal(progressJSON, &resolution.Progress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress: %w", err)
	}

	return resolution, nil
}

func marshalResolutionColumns(resolution *models.Resolution) (weightJSON, trackingJSON, progressJSON []byte, err error) {
	if resolution.Weight != nil {
		weightJSON, err = json.Marshal(resolution.Weight)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to marshal weight: %w", err)
		}
	}
	if resolution.Tracking != nil {
		trackingJSON, err = json.Marshal(resolution.Tracking)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to marshal tracking config: %w", err)
		}
	}
	progressJSON, err = json.Marshal(resolution.Progress)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal progress: %w", err)
	}
	return weightJSON, trackingJSON, progressJSON, nil
}
