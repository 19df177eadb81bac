package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/resolvely/resolution-tracker/internal/models"
	"github.com/resolvely/resolution-tracker/internal/validation"
)

// Scorer produces a weight for a resolution draft
type Scorer interface {
	Score(ctx context.Context, title string, targetValue float64, targetUnit string, frequency models.Frequency) (models.ResolutionWeight, error)
}

// WeightHandler handles on-demand resolution scoring
type WeightHandler struct {
	scorer Scorer
}

// NewWeightHandler creates a new weight handler
func NewWeightHandler(scorer Scorer) *WeightHandler {
	return &WeightHandler{scorer: scorer}
}

// RegisterRoutes registers weight routes on the given router
func (h *WeightHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/weight", h.Weight).Methods("POST")
}

// WeightRequest represents a weight request
type WeightRequest struct {
	Resolution *WeightRequestResolution `json:"resolution"`
}

// WeightRequestResolution is the draft to score
type WeightRequestResolution struct {
	Title       string   `json:"title"`
	TargetValue *float64 `json:"targetValue"`
	TargetUnit  string   `json:"targetUnit"`
	Frequency   string   `json:"frequency"`
}

// Weight scores a resolution draft
func (h *WeightHandler) Weight(w http.ResponseWriter, r *http.Request) {
	var req WeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	draft := req.Resolution
	if draft == nil || draft.Title == "" || draft.TargetValue == nil || draft.TargetUnit == "" || draft.Frequency == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid resolution: need title, targetValue, targetUnit, frequency")
		return
	}
	if err := validation.ValidateFrequency(draft.Frequency); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	weight, err := h.scorer.Score(r.Context(), draft.Title, *draft.TargetValue, draft.TargetUnit, models.Frequency(draft.Frequency))
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Weight failed")
		return
	}

	respondJSON(w, http.StatusOK, weight)
}
