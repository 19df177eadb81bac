package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/resolvely/resolution-tracker/internal/database"
	"github.com/resolvely/resolution-tracker/internal/models"
	"github.com/resolvely/resolution-tracker/internal/validation"
)

// SettingsHandler handles the singleton tracking settings
type SettingsHandler struct {
	appStateRepo database.AppStateRepositoryInterface
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(appStateRepo database.AppStateRepositoryInterface) *SettingsHandler {
	return &SettingsHandler{appStateRepo: appStateRepo}
}

// RegisterRoutes registers settings routes on the given router
func (h *SettingsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/settings", h.GetSettings).Methods("GET")
	r.HandleFunc("/settings", h.UpdateSettings).Methods("PATCH")
}

// UpdateSettingsRequest represents a partial settings update
type UpdateSettingsRequest struct {
	WeekStartsOn         *models.WeekStart       `json:"weekStartsOn,omitempty"`
	DayResetsAt          *int                    `json:"dayResetsAt,omitempty"`
	ReminderMode         *models.ReminderMode    `json:"reminderMode,omitempty"`
	ReminderTime         *string                 `json:"reminderTime,omitempty"`
	InAppPromptFrequency *models.PromptFrequency `json:"inAppPromptFrequency,omitempty"`
	PromptWhenBehind     *bool                   `json:"promptWhenBehind,omitempty"`
}

// GetSettings returns the stored settings, or the defaults when none exist
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.appStateRepo.GetSettings(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve settings")
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// UpdateSettings merges the provided fields into the stored settings
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	ctx := r.Context()
	settings, err := h.appStateRepo.GetSettings(ctx)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve settings")
		return
	}

	if req.WeekStartsOn != nil {
		if err := validation.ValidateWeekStart(string(*req.WeekStartsOn)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		settings.WeekStartsOn = *req.WeekStartsOn
	}
	if req.DayResetsAt != nil {
		if err := validation.ValidateDayResetsAt(*req.DayResetsAt); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		settings.DayResetsAt = *req.DayResetsAt
	}
	if req.ReminderMode != nil {
		if err := validation.ValidateReminderMode(string(*req.ReminderMode)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		settings.ReminderMode = *req.ReminderMode
	}
	if req.ReminderTime != nil {
		settings.ReminderTime = *req.ReminderTime
	}
	if req.InAppPromptFrequency != nil {
		if err := validation.ValidatePromptFrequency(string(*req.InAppPromptFrequency)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		settings.InAppPromptFrequency = *req.InAppPromptFrequency
	}
	if req.PromptWhenBehind != nil {
		settings.PromptWhenBehind = *req.PromptWhenBehind
	}

	if err := h.appStateRepo.SetSettings(ctx, settings); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save settings")
		return
	}

	respondJSON(w, http.StatusOK, settings)
}
