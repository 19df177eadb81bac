package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthCheckBasicMode(t *testing.T) {
	t.Parallel()

	checker := NewHealthChecker(nil, nil, nil)

	w := httptest.NewRecorder()
	checker.HealthCheck(w, httptest.NewRequest("GET", "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var got HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Status != "healthy" {
		t.Errorf("expected healthy, got %q", got.Status)
	}
	if got.Checks != nil {
		t.Errorf("basic mode should not run checks, got %+v", got.Checks)
	}
}
