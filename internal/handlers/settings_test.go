package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/resolvely/resolution-tracker/internal/models"
)

func settingsRouter(h *SettingsHandler) *mux.Router {
	router := mux.NewRouter()
	h.RegisterRoutes(router.PathPrefix("/api/v1").Subrouter())
	return router
}

func TestGetSettingsReturnsDefaults(t *testing.T) {
	t.Parallel()

	router := settingsRouter(NewSettingsHandler(newFakeAppStateRepo()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/settings", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var got models.TrackingSettings
	decodeData(t, w, &got)
	if got != models.DefaultTrackingSettings() {
		t.Errorf("expected default settings, got %+v", got)
	}
}

func TestUpdateSettingsMergesPartialFields(t *testing.T) {
	t.Parallel()

	appState := newFakeAppStateRepo()
	router := settingsRouter(NewSettingsHandler(appState))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PATCH", "/api/v1/settings", `{"weekStartsOn":"sunday","dayResetsAt":4,"promptWhenBehind":false}`))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var got models.TrackingSettings
	decodeData(t, w, &got)
	if got.WeekStartsOn != models.WeekStartSunday || got.DayResetsAt != 4 || got.PromptWhenBehind {
		t.Errorf("expected merged fields, got %+v", got)
	}
	if got.ReminderMode != models.ReminderModeInApp || got.InAppPromptFrequency != models.PromptFrequencyOncePerDay {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if appState.settings != got {
		t.Errorf("response does not match stored settings: %+v vs %+v", got, appState.settings)
	}
}

func TestUpdateSettingsRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"bad week start", `{"weekStartsOn":"wednesday"}`},
		{"reset hour too high", `{"dayResetsAt":24}`},
		{"negative reset hour", `{"dayResetsAt":-1}`},
		{"bad reminder mode", `{"reminderMode":"pager"}`},
		{"bad prompt frequency", `{"inAppPromptFrequency":"hourly"}`},
		{"invalid body", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			appState := newFakeAppStateRepo()
			router := settingsRouter(NewSettingsHandler(appState))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, jsonRequest("PATCH", "/api/v1/settings", tt.body))

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}
			if appState.settings != models.DefaultTrackingSettings() {
				t.Errorf("settings changed despite rejected update: %+v", appState.settings)
			}
		})
	}
}
