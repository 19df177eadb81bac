package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/resolvely/resolution-tracker/internal/models"
)

func promptRouter(h *PromptHandler) *mux.Router {
	router := mux.NewRouter()
	h.RegisterRoutes(router.PathPrefix("/api/v1").Subrouter())
	return router
}

func TestListPromptsReturnsBehindResolutions(t *testing.T) {
	t.Parallel()

	behind := weeklyResolution()
	onTrack := weeklyResolution()
	onTrack.Title = "Journal"
	onTrack.Progress = []models.ProgressEntry{
		{Date: "2026-01-05", Completed: 2},
		{Date: "2026-01-06", Completed: 1},
	}

	h := NewPromptHandler(newFakeResolutionRepo(behind, onTrack), newFakeAppStateRepo())
	h.now = fixedClock(testNow)
	router := promptRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/prompts", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var got ListPromptsResponse
	decodeData(t, w, &got)
	if len(got.Prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(got.Prompts))
	}
	if got.Prompts[0].Resolution.ID != behind.ID {
		t.Errorf("expected prompt for %q, got %q", behind.Title, got.Prompts[0].Resolution.Title)
	}
}

func TestListPromptsSuppressedAfterAcknowledgement(t *testing.T) {
	t.Parallel()

	behind := weeklyResolution()
	appState := newFakeAppStateRepo()
	appState.lastPromptDate = testNow.Format("2006-01-02")

	h := NewPromptHandler(newFakeResolutionRepo(behind), appState)
	h.now = fixedClock(testNow)
	router := promptRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/prompts", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var got ListPromptsResponse
	decodeData(t, w, &got)
	if len(got.Prompts) != 0 {
		t.Errorf("expected no prompts after same-day acknowledgement, got %d", len(got.Prompts))
	}
}

func TestListPromptsEmptyWhenFrequencyOff(t *testing.T) {
	t.Parallel()

	behind := weeklyResolution()
	appState := newFakeAppStateRepo()
	appState.settings.InAppPromptFrequency = models.PromptFrequencyOff

	h := NewPromptHandler(newFakeResolutionRepo(behind), appState)
	h.now = fixedClock(testNow)
	router := promptRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/prompts", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var got ListPromptsResponse
	decodeData(t, w, &got)
	if len(got.Prompts) != 0 {
		t.Errorf("expected no prompts with frequency off, got %d", len(got.Prompts))
	}
}

func TestAcknowledgePromptsRecordsToday(t *testing.T) {
	t.Parallel()

	appState := newFakeAppStateRepo()
	h := NewPromptHandler(newFakeResolutionRepo(), appState)
	h.now = fixedClock(testNow)
	router := promptRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/prompts/ack", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var got map[string]string
	decodeData(t, w, &got)
	if got["lastPromptDate"] != "2026-01-07" {
		t.Errorf("expected lastPromptDate 2026-01-07, got %q", got["lastPromptDate"])
	}
	if appState.lastPromptDate != "2026-01-07" {
		t.Errorf("expected stored prompt date 2026-01-07, got %q", appState.lastPromptDate)
	}
}
