package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/resolvely/resolution-tracker/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Custom validators for the enum fields. Registration only fails on a
	// bad tag name, so panic loudly at startup instead of limping along.
	if err := Validate.RegisterValidation("frequency", validateFrequency); err != nil {
		panic(fmt.Sprintf("failed to register frequency validator: %v", err))
	}
	if err := Validate.RegisterValidation("reminder_mode", validateReminderMode); err != nil {
		panic(fmt.Sprintf("failed to register reminder_mode validator: %v", err))
	}
	if err := Validate.RegisterValidation("logging_style", validateLoggingStyle); err != nil {
		panic(fmt.Sprintf("failed to register logging_style validator: %v", err))
	}
}

func validateFrequency(fl validator.FieldLevel) bool {
	return ValidateFrequency(fl.Field().String()) == nil
}

func validateReminderMode(fl validator.FieldLevel) bool {
	return ValidateReminderMode(fl.Field().String()) == nil
}

func validateLoggingStyle(fl validator.FieldLevel) bool {
	return ValidateLoggingStyle(fl.Field().String()) == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateFrequency validates a Frequency string value
func ValidateFrequency(value string) error {
	switch models.Frequency(value) {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly:
		return nil
	default:
		return fmt.Errorf("invalid frequency: %s (must be 'daily', 'weekly', or 'monthly')", value)
	}
}

// ValidateReminderMode validates a ReminderMode string value
func ValidateReminderMode(value string) error {
	switch models.ReminderMode(value) {
	case models.ReminderModeOff, models.ReminderModeInApp, models.ReminderModeBrowser:
		return nil
	default:
		return fmt.Errorf("invalid reminder mode: %s (must be 'off', 'in_app', or 'browser')", value)
	}
}

// ValidateLoggingStyle validates a LoggingStyle string value
func ValidateLoggingStyle(value string) error {
	switch models.LoggingStyle(value) {
	case models.LoggingStyleIncrement, models.LoggingStyleSetValue:
		return nil
	default:
		return fmt.Errorf("invalid logging style: %s (must be 'increment' or 'set_value')", value)
	}
}

// ValidatePromptFrequency validates a PromptFrequency string value
func ValidatePromptFrequency(value string) error {
	switch models.PromptFrequency(value) {
	case models.PromptFrequencyEveryVisit, models.PromptFrequencyOncePerDay, models.PromptFrequencyOff:
		return nil
	default:
		return fmt.Errorf("invalid prompt frequency: %s (must be 'every_visit', 'once_per_day', or 'off')", value)
	}
}

// ValidateWeekStart validates a WeekStart string value
func ValidateWeekStart(value string) error {
	switch models.WeekStart(value) {
	case models.WeekStartSunday, models.WeekStartMonday:
		return nil
	default:
		return fmt.Errorf("invalid week start: %s (must be 'sunday' or 'monday')", value)
	}
}

// ValidateDayResetsAt validates the day reset hour
func ValidateDayResetsAt(hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("invalid day reset hour: %d (must be 0-23)", hour)
	}
	return nil
}
