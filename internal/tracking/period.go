// Package tracking implements the period-progress calculator, the prompt
// eligibility policy, and streak computation. Every function is pure: the
// current time is an explicit argument so period boundaries are testable
// without a real clock.
package tracking

import (
	"strings"
	"time"

	"github.com/resolvely/resolution-tracker/internal/models"
)

// DateLayout is the calendar-date format used throughout progress tracking
const DateLayout = "2006-01-02"

// EffectiveDate returns the calendar date progress counts toward at the
// given instant. Before the configured reset hour the previous day is still
// "today", letting a user's day extend past midnight.
func EffectiveDate(settings models.TrackingSettings, now time.Time) string {
	if now.Hour() < settings.DayResetsAt {
		return now.AddDate(0, 0, -1).Format(DateLayout)
	}
	return now.Format(DateLayout)
}

// WeekStartDate returns the date the current tracking week began on.
// The week start is anchored to the real current date, not the effective
// date shifted by the reset hour.
func WeekStartDate(settings models.TrackingSettings, now time.Time) string {
	dayOfWeek := int(now.Weekday()) // Sunday == 0
	offset := dayOfWeek
	if settings.WeekStartsOn != models.WeekStartSunday {
		offset = (dayOfWeek + 6) % 7 // Monday == 0
	}
	return now.AddDate(0, 0, -offset).Format(DateLayout)
}

// PeriodProgress is the completion count against the target for the period
// containing now
type PeriodProgress struct {
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
}

// GetPeriodProgress computes {current, target} for a resolution. Absent
// progress yields current == 0; there are no error conditions.
func GetPeriodProgress(r *models.Resolution, settings models.TrackingSettings, now time.Time) PeriodProgress {
	today := EffectiveDate(settings, now)

	switch r.Frequency {
	case models.FrequencyDaily:
		for _, p := range r.Progress {
			if p.Date == today {
				return PeriodProgress{Current: p.Completed, Target: r.TargetValue}
			}
		}
		return PeriodProgress{Current: 0, Target: r.TargetValue}

	case models.FrequencyMonthly:
		month := today[:len("2006-01")]
		var total float64
		for _, p := range r.Progress {
			if strings.HasPrefix(p.Date, month) {
				total += p.Completed
			}
		}
		return PeriodProgress{Current: total, Target: r.TargetValue}

	default: // weekly
		weekStart := WeekStartDate(settings, now)
		weekEnd := nextDate(weekStart, 7)

		// ISO dates compare correctly as strings; the window is half-open
		// so the seventh day after the start belongs to the next week.
		var total float64
		for _, p := range r.Progress {
			if p.Date >= weekStart && p.Date < weekEnd {
				total += p.Completed
			}
		}
		return PeriodProgress{Current: total, Target: r.TargetValue}
	}
}

// IsBehindTarget reports whether the resolution's current period count is
// below its target
func IsBehindTarget(r *models.Resolution, settings models.TrackingSettings, now time.Time) bool {
	progress := GetPeriodProgress(r, settings, now)
	return progress.Current < progress.Target
}

// nextDate returns the date days after the given ISO date. An unparsable
// date is returned unchanged.
func nextDate(date string, days int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(DateLayout)
}
