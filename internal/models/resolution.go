package models

import (
	"time"

	"github.com/google/uuid"
)

// Frequency represents the period a resolution target applies to
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ReminderMode represents how the user wants to be reminded
type ReminderMode string

const (
	ReminderModeOff     ReminderMode = "off"
	ReminderModeInApp   ReminderMode = "in_app"
	ReminderModeBrowser ReminderMode = "browser"
)

// LoggingStyle represents how progress is logged for a resolution
type LoggingStyle string

const (
	LoggingStyleIncrement LoggingStyle = "increment"
	LoggingStyleSetValue  LoggingStyle = "set_value"
)

// ProgressEntry is one day's logged progress. At most one entry exists per
// date per resolution; logging twice for the same date sums or replaces.
type ProgressEntry struct {
	Date      string  `json:"date"` // calendar date, "2006-01-02"
	Completed float64 `json:"completed"`
}

// TrackingConfig holds per-resolution tracking overrides
type TrackingConfig struct {
	ReminderMode *ReminderMode `json:"reminderMode,omitempty"`
	LoggingStyle *LoggingStyle `json:"loggingStyle,omitempty"`
}

// Resolution is a tracked goal parsed from the user's free text
type Resolution struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	TargetValue float64           `json:"targetValue"`
	TargetUnit  string            `json:"targetUnit"`
	Frequency   Frequency         `json:"frequency"`
	RawInput    string            `json:"rawInput,omitempty"`
	Weight      *ResolutionWeight `json:"weight,omitempty"`
	Tracking    *TrackingConfig   `json:"tracking,omitempty"`
	Progress    []ProgressEntry   `json:"progress"`
	CreatedAt   time.Time         `json:"createdAt"`
}
