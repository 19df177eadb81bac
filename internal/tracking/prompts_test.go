package tracking

import (
	"testing"

	"github.com/resolvely/resolution-tracker/internal/models"
)

func TestResolutionsNeedingPrompt(t *testing.T) {
	t.Parallel()

	now := mustTime(t, "2024-03-15 12:00")

	behind := resolution(models.FrequencyDaily, 3, models.ProgressEntry{Date: "2024-03-15", Completed: 1})
	behind.Title = "Behind"
	unlogged := resolution(models.FrequencyDaily, 3)
	unlogged.Title = "Unlogged"
	onTrack := resolution(models.FrequencyDaily, 3, models.ProgressEntry{Date: "2024-03-15", Completed: 3})
	onTrack.Title = "OnTrack"

	all := []*models.Resolution{behind, unlogged, onTrack}

	t.Run("reasons and input ordering", func(t *testing.T) {
		t.Parallel()
		prompts := ResolutionsNeedingPrompt(all, models.DefaultTrackingSettings(), "", now)
		if len(prompts) != 2 {
			t.Fatalf("got %d prompts, want 2", len(prompts))
		}
		if prompts[0].Resolution.Title != "Behind" || prompts[0].Reason != PromptReasonBehind {
			t.Errorf("prompts[0] = %s/%s, want Behind/behind", prompts[0].Resolution.Title, prompts[0].Reason)
		}
		if prompts[1].Resolution.Title != "Unlogged" || prompts[1].Reason != PromptReasonNoLog {
			t.Errorf("prompts[1] = %s/%s, want Unlogged/no_log", prompts[1].Resolution.Title, prompts[1].Reason)
		}
		if prompts[0].Current != 1 || prompts[0].Target != 3 {
			t.Errorf("prompts[0] progress = %v/%v, want 1/3", prompts[0].Current, prompts[0].Target)
		}
	})

	t.Run("prompt frequency off returns nothing", func(t *testing.T) {
		t.Parallel()
		settings := models.DefaultTrackingSettings()
		settings.InAppPromptFrequency = models.PromptFrequencyOff
		if got := ResolutionsNeedingPrompt(all, settings, "", now); len(got) != 0 {
			t.Errorf("got %d prompts, want 0", len(got))
		}
	})

	t.Run("reminder mode off returns nothing", func(t *testing.T) {
		t.Parallel()
		settings := models.DefaultTrackingSettings()
		settings.ReminderMode = models.ReminderModeOff
		if got := ResolutionsNeedingPrompt(all, settings, "", now); len(got) != 0 {
			t.Errorf("got %d prompts, want 0", len(got))
		}
	})

	t.Run("once per day suppresses after today's prompt", func(t *testing.T) {
		t.Parallel()
		settings := models.DefaultTrackingSettings()
		if got := ResolutionsNeedingPrompt(all, settings, "2024-03-15", now); len(got) != 0 {
			t.Errorf("got %d prompts, want 0 when already shown today", len(got))
		}
		if got := ResolutionsNeedingPrompt(all, settings, "2024-03-14", now); len(got) == 0 {
			t.Error("yesterday's marker should not suppress prompts")
		}
	})

	t.Run("every visit ignores the last prompt marker", func(t *testing.T) {
		t.Parallel()
		settings := models.DefaultTrackingSettings()
		settings.InAppPromptFrequency = models.PromptFrequencyEveryVisit
		if got := ResolutionsNeedingPrompt(all, settings, "2024-03-15", now); len(got) != 2 {
			t.Errorf("got %d prompts, want 2", len(got))
		}
	})

	t.Run("promptWhenBehind false gates all prompting", func(t *testing.T) {
		t.Parallel()
		settings := models.DefaultTrackingSettings()
		settings.PromptWhenBehind = false
		if got := ResolutionsNeedingPrompt(all, settings, "", now); len(got) != 0 {
			t.Errorf("got %d prompts, want 0", len(got))
		}
	})

	t.Run("browser reminder mode still prompts in app", func(t *testing.T) {
		t.Parallel()
		settings := models.DefaultTrackingSettings()
		settings.ReminderMode = models.ReminderModeBrowser
		if got := ResolutionsNeedingPrompt(all, settings, "", now); len(got) != 2 {
			t.Errorf("got %d prompts, want 2", len(got))
		}
	})
}
