package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/resolvely/resolution-tracker/internal/models"
	"github.com/resolvely/resolution-tracker/internal/services/ai"
)

type fakeParser struct {
	result   *ai.ParseResult
	err      error
	lastText string
}

func (f *fakeParser) Parse(_ context.Context, text string) (*ai.ParseResult, error) {
	f.lastText = text
	return f.result, f.err
}

func aiRouter(parser Parser, scorer Scorer) *mux.Router {
	router := mux.NewRouter()
	sub := router.PathPrefix("/api/v1").Subrouter()
	if parser != nil {
		NewParseHandler(parser).RegisterRoutes(sub)
	}
	if scorer != nil {
		NewWeightHandler(scorer).RegisterRoutes(sub)
	}
	return router
}

func TestParseEndpointReturnsDraft(t *testing.T) {
	t.Parallel()

	parser := &fakeParser{result: &ai.ParseResult{Resolution: &ai.ParsedResolution{
		Title:       "Run",
		TargetValue: 3,
		TargetUnit:  "times",
		Frequency:   models.FrequencyWeekly,
	}}}
	router := aiRouter(parser, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/v1/parse", `{"text":"Run 3 times a week"}`))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if parser.lastText != "Run 3 times a week" {
		t.Errorf("expected sanitized text passed through, got %q", parser.lastText)
	}
	var got ai.ParsedResolution
	decodeData(t, w, &got)
	if got.Title != "Run" || got.TargetValue != 3 || got.Frequency != models.FrequencyWeekly {
		t.Errorf("unexpected draft: %+v", got)
	}
}

func TestParseEndpointReturnsClarification(t *testing.T) {
	t.Parallel()

	parser := &fakeParser{result: &ai.ParseResult{Clarification: &ai.Clarification{
		NeedsClarification: true,
		Message:            "Add a number so you can track your progress.",
		Suggestion:         ai.DefaultSuggestion,
	}}}
	router := aiRouter(parser, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/v1/parse", `{"text":"be healthier"}`))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var got ai.Clarification
	decodeData(t, w, &got)
	if !got.NeedsClarification || got.Suggestion != ai.DefaultSuggestion {
		t.Errorf("unexpected clarification: %+v", got)
	}
}

func TestParseEndpointRejectsEmptyText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"missing text", `{}`},
		{"whitespace text", `{"text":"   "}`},
		{"invalid body", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := aiRouter(&fakeParser{}, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, jsonRequest("POST", "/api/v1/parse", tt.body))

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestParseEndpointServiceFailureFlagsClarification(t *testing.T) {
	t.Parallel()

	parser := &fakeParser{err: errors.New("upstream timeout")}
	router := aiRouter(parser, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/v1/parse", `{"text":"Run 3 times a week"}`))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Success            bool `json:"success"`
		NeedsClarification bool `json:"needsClarification"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Success {
		t.Error("expected success false")
	}
	if !body.NeedsClarification {
		t.Error("expected needsClarification true on service failure")
	}
}

func TestWeightEndpointScoresDraft(t *testing.T) {
	t.Parallel()

	scorer := &fakeScorer{weight: models.ResolutionWeight{Measurability: 9, Achievability: 8, Importance: 6, Combined: 78}}
	router := aiRouter(nil, scorer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/v1/weight",
		`{"resolution":{"title":"Run","targetValue":3,"targetUnit":"times","frequency":"weekly"}}`))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var got models.ResolutionWeight
	decodeData(t, w, &got)
	if got.Combined != 78 {
		t.Errorf("expected combined 78, got %+v", got)
	}
	if scorer.calls != 1 {
		t.Errorf("expected one scorer call, got %d", scorer.calls)
	}
}

func TestWeightEndpointRejectsIncompleteDrafts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"no resolution wrapper", `{"title":"Run","targetValue":3,"targetUnit":"times","frequency":"weekly"}`},
		{"missing title", `{"resolution":{"targetValue":3,"targetUnit":"times","frequency":"weekly"}}`},
		{"missing target value", `{"resolution":{"title":"Run","targetUnit":"times","frequency":"weekly"}}`},
		{"missing unit", `{"resolution":{"title":"Run","targetValue":3,"frequency":"weekly"}}`},
		{"bad frequency", `{"resolution":{"title":"Run","targetValue":3,"targetUnit":"times","frequency":"yearly"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scorer := &fakeScorer{weight: models.NeutralWeight()}
			router := aiRouter(nil, scorer)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, jsonRequest("POST", "/api/v1/weight", tt.body))

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d: %s", w.Code, w.Body.String())
			}
			if scorer.calls != 0 {
				t.Errorf("scorer called for invalid draft")
			}
		})
	}
}

func TestWeightEndpointScorerFailure(t *testing.T) {
	t.Parallel()

	scorer := &fakeScorer{err: errors.New("provider down")}
	router := aiRouter(nil, scorer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/v1/weight",
		`{"resolution":{"title":"Run","targetValue":3,"targetUnit":"times","frequency":"weekly"}}`))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d: %s", w.Code, w.Body.String())
	}
}
