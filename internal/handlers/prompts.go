package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/resolvely/resolution-tracker/internal/database"
	"github.com/resolvely/resolution-tracker/internal/tracking"
)

// PromptHandler surfaces resolutions the user should be nudged about
type PromptHandler struct {
	resolutionRepo database.ResolutionRepositoryInterface
	appStateRepo   database.AppStateRepositoryInterface
	now            func() time.Time
}

// NewPromptHandler creates a new prompt handler
func NewPromptHandler(resolutionRepo database.ResolutionRepositoryInterface, appStateRepo database.AppStateRepositoryInterface) *PromptHandler {
	return &PromptHandler{
		resolutionRepo: resolutionRepo,
		appStateRepo:   appStateRepo,
		now:            time.Now,
	}
}

// RegisterRoutes registers prompt routes on the given router
func (h *PromptHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/prompts", h.ListPrompts).Methods("GET")
	r.HandleFunc("/prompts/ack", h.AcknowledgePrompts).Methods("POST")
}

// ListPromptsResponse represents the prompt list
type ListPromptsResponse struct {
	Prompts []tracking.Prompt `json:"prompts"`
}

// ListPrompts returns the resolutions currently eligible for a prompt
func (h *PromptHandler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	settings, err := h.appStateRepo.GetSettings(ctx)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve settings")
		return
	}

	lastPromptDate, err := h.appStateRepo.GetLastPromptDate(ctx)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve prompt state")
		return
	}

	resolutions, err := h.resolutionRepo.GetAll(ctx)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve resolutions")
		return
	}

	prompts := tracking.ResolutionsNeedingPrompt(resolutions, settings, lastPromptDate, h.now())
	if prompts == nil {
		prompts = []tracking.Prompt{}
	}

	respondJSON(w, http.StatusOK, ListPromptsResponse{Prompts: prompts})
}

// AcknowledgePrompts records that prompts were shown today, suppressing
// further once_per_day prompts until tomorrow
func (h *PromptHandler) AcknowledgePrompts(w http.ResponseWriter, r *http.Request) {
	// The marker uses the real calendar date to match the once_per_day check
	date := h.now().Format(tracking.DateLayout)
	if err := h.appStateRepo.SetLastPromptDate(r.Context(), date); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to record prompt acknowledgement")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"lastPromptDate": date})
}
