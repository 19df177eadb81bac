package tracking

import (
	"time"

	"github.com/resolvely/resolution-tracker/internal/models"
)

// PromptReason explains why a resolution is being surfaced
type PromptReason string

const (
	// PromptReasonNoLog means nothing has been logged this period
	PromptReasonNoLog PromptReason = "no_log"
	// PromptReasonBehind means something was logged but the target is unmet
	PromptReasonBehind PromptReason = "behind"
)

// Prompt is one resolution the user should be nudged about
type Prompt struct {
	Resolution *models.Resolution `json:"resolution"`
	Reason     PromptReason       `json:"reason"`
	Current    float64            `json:"current"`
	Target     float64            `json:"target"`
}

// ResolutionsNeedingPrompt filters resolutions down to those worth nudging
// the user about. lastPromptDate is the stored marker from the last
// acknowledged prompt ("" if never shown). Output order follows input order.
//
// The once_per_day check compares against the real calendar date, not the
// reset-hour-shifted effective date. Recording a new marker is the caller's
// responsibility (see the prompt ack handler); computing and acknowledging
// are deliberately decoupled.
func ResolutionsNeedingPrompt(resolutions []*models.Resolution, settings models.TrackingSettings, lastPromptDate string, now time.Time) []Prompt {
	if settings.InAppPromptFrequency == models.PromptFrequencyOff {
		return nil
	}
	if settings.ReminderMode != models.ReminderModeInApp && settings.ReminderMode != models.ReminderModeBrowser {
		return nil
	}

	if settings.InAppPromptFrequency == models.PromptFrequencyOncePerDay {
		if lastPromptDate == now.Format(DateLayout) {
			return nil
		}
	}

	var prompts []Prompt
	for _, r := range resolutions {
		// All prompting is gated on promptWhenBehind: on-track resolutions
		// are never surfaced, even under every_visit.
		if !settings.PromptWhenBehind {
			continue
		}

		progress := GetPeriodProgress(r, settings, now)
		switch {
		case progress.Current == 0:
			prompts = append(prompts, Prompt{Resolution: r, Reason: PromptReasonNoLog, Current: progress.Current, Target: progress.Target})
		case progress.Current < progress.Target:
			prompts = append(prompts, Prompt{Resolution: r, Reason: PromptReasonBehind, Current: progress.Current, Target: progress.Target})
		}
	}
	return prompts
}
