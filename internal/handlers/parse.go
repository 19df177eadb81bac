package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/resolvely/resolution-tracker/internal/services/ai"
	"github.com/resolvely/resolution-tracker/internal/validation"
)

// MaxResolutionTextLength is the maximum length for free-form resolution text
const MaxResolutionTextLength = 2000

// Parser turns free-form text into a parse result
type Parser interface {
	Parse(ctx context.Context, text string) (*ai.ParseResult, error)
}

// ParseHandler handles natural-language resolution parsing
type ParseHandler struct {
	parser Parser
}

// NewParseHandler creates a new parse handler
func NewParseHandler(parser Parser) *ParseHandler {
	return &ParseHandler{parser: parser}
}

// RegisterRoutes registers parse routes on the given router
func (h *ParseHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/parse", h.Parse).Methods("POST")
}

// ParseRequest represents a parse request
type ParseRequest struct {
	Text string `json:"text"`
}

// Parse extracts a structured resolution draft from free-form text
func (h *ParseHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	text := validation.SanitizeText(req.Text)
	if text == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Missing or empty text")
		return
	}
	if len(text) > MaxResolutionTextLength {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Text exceeds maximum length of %d characters", MaxResolutionTextLength))
		return
	}

	result, err := h.parser.Parse(r.Context(), text)
	if err != nil {
		// The UI treats any failure as a clarification so the user is not
		// stuck staring at a dead form
		respondJSONErrorExtra(w, http.StatusInternalServerError, "Internal Server Error", "AI service unavailable", map[string]any{
			"needsClarification": true,
		})
		return
	}

	if result.Clarification != nil {
		respondJSON(w, http.StatusOK, result.Clarification)
		return
	}
	respondJSON(w, http.StatusOK, result.Resolution)
}
