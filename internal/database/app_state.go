package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/resolvely/resolution-tracker/internal/models"
)

const (
	settingsStateKey       = "tracking_settings"
	lastPromptDateStateKey = "last_prompt_date"
)

// AppStateRepository handles the small singleton records: the tracking
// settings object and the last-prompt-date marker. Both live in the
// app_state key/value table.
type AppStateRepository struct {
	db *DB
}

// NewAppStateRepository creates a new app state repository
func NewAppStateRepository(db *DB) *AppStateRepository {
	return &AppStateRepository{db: db}
}

// GetSettings returns the stored tracking settings, or the fully-populated
// defaults when none have been stored or the stored value is corrupt. It
// never returns a partial settings object.
func (r *AppStateRepository) GetSettings(ctx context.Context) (models.TrackingSettings, error) {
	raw, err := r.get(ctx, settingsStateKey)
	if err == sql.ErrNoRows {
		return models.DefaultTrackingSettings(), nil
	}
	if err != nil {
		return models.DefaultTrackingSettings(), fmt.Errorf("failed to get settings: %w", err)
	}

	settings := models.DefaultTrackingSettings()
	if err := json.Unmarshal(raw, &settings); err != nil {
		// Corrupt state falls back to defaults rather than failing reads.
		return models.DefaultTrackingSettings(), nil
	}
	return settings, nil
}

// SetSettings stores the full settings object
func (r *AppStateRepository) SetSettings(ctx context.Context, settings models.TrackingSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := r.set(ctx, settingsStateKey, raw); err != nil {
		return fmt.Errorf("failed to set settings: %w", err)
	}
	return nil
}

// GetLastPromptDate returns the date a prompt was last acknowledged, or ""
// if none has been recorded
func (r *AppStateRepository) GetLastPromptDate(ctx context.Context) (string, error) {
	raw, err := r.get(ctx, lastPromptDateStateKey)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last prompt date: %w", err)
	}

	var date string
	if err := json.Unmarshal(raw, &date); err != nil {
		return "", nil
	}
	return date, nil
}

// SetLastPromptDate records the date a prompt was acknowledged
func (r *AppStateRepository) SetLastPromptDate(ctx context.Context, date string) error {
	raw, err := json.Marshal(date)
	if err != nil {
		return fmt.Errorf("failed to marshal last prompt date: %w", err)
	}
	if err := r.set(ctx, lastPromptDateStateKey, raw); err != nil {
		return fmt.Errorf("failed to set last prompt date: %w", err)
	}
	return nil
}

func (r *AppStateRepository) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = $1`, key).Scan(&value)
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (r *AppStateRepository) set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO app_state (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	_, err := r.db.ExecContext(ctx, query, key, value)
	return err
}
