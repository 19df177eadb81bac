package models

// WeekStart represents which day a tracking week begins on
type WeekStart string

const (
	WeekStartSunday WeekStart = "sunday"
	WeekStartMonday WeekStart = "monday"
)

// PromptFrequency represents how often in-app prompts may be shown
type PromptFrequency string

const (
	PromptFrequencyEveryVisit PromptFrequency = "every_visit"
	PromptFrequencyOncePerDay PromptFrequency = "once_per_day"
	PromptFrequencyOff        PromptFrequency = "off"
)

// TrackingSettings is the user's singleton tracking configuration.
// DayResetsAt defines the day boundary: before that local hour, progress
// still counts toward the previous calendar day.
type TrackingSettings struct {
	WeekStartsOn         WeekStart       `json:"weekStartsOn"`
	DayResetsAt          int             `json:"dayResetsAt"` // hour, 0-23
	ReminderMode         ReminderMode    `json:"reminderMode"`
	ReminderTime         string          `json:"reminderTime,omitempty"` // "09:00"
	InAppPromptFrequency PromptFrequency `json:"inAppPromptFrequency"`
	PromptWhenBehind     bool            `json:"promptWhenBehind"`
}

// DefaultTrackingSettings returns the fully-populated defaults used when no
// settings have been stored yet
func DefaultTrackingSettings() TrackingSettings {
	return TrackingSettings{
		WeekStartsOn:         WeekStartMonday,
		DayResetsAt:          0,
		ReminderMode:         ReminderModeInApp,
		InAppPromptFrequency: PromptFrequencyOncePerDay,
		PromptWhenBehind:     true,
	}
}
