package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/resolvely/resolution-tracker/internal/database"
	"github.com/resolvely/resolution-tracker/internal/models"
	"github.com/resolvely/resolution-tracker/internal/queue"
	"github.com/resolvely/resolution-tracker/internal/tracking"
	"github.com/resolvely/resolution-tracker/internal/validation"
	"go.uber.org/zap"
)

const (
	// MaxTitleLength is the maximum length for a resolution title
	MaxTitleLength = 500
	// MaxUnitLength is the maximum length for a target unit
	MaxUnitLength = 100
)

// ResolutionHandler handles resolution-related requests
type ResolutionHandler struct {
	resolutionRepo database.ResolutionRepositoryInterface
	appStateRepo   database.AppStateRepositoryInterface
	scorer         Scorer         // nil disables synchronous scoring
	jobQueue       queue.JobQueue // nil falls back to synchronous scoring
	logger         *zap.Logger
	now            func() time.Time
}

// NewResolutionHandler creates a new resolution handler
func NewResolutionHandler(
	resolutionRepo database.ResolutionRepositoryInterface,
	appStateRepo database.AppStateRepositoryInterface,
	scorer Scorer,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *ResolutionHandler {
	return &ResolutionHandler{
		resolutionRepo: resolutionRepo,
		appStateRepo:   appStateRepo,
		scorer:         scorer,
		jobQueue:       jobQueue,
		logger:         logger,
		now:            time.Now,
	}
}

// RegisterRoutes registers resolution routes on the given router.
// The router should already have the /resolutions prefix.
func (h *ResolutionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListResolutions).Methods("GET")
	r.HandleFunc("", h.CreateResolution).Methods("POST")
	r.HandleFunc("/{id}", h.GetResolution).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateResolution).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteResolution).Methods("DELETE")
	r.HandleFunc("/{id}/progress", h.AddProgress).Methods("POST")
	r.HandleFunc("/{id}/stats", h.GetStats).Methods("GET")
}

// CreateResolutionRequest represents a create resolution request
type CreateResolutionRequest struct {
	Title       string                  `json:"title" validate:"required,min=1,max=500"`
	TargetValue float64                 `json:"targetValue" validate:"required,gte=1"`
	TargetUnit  string                  `json:"targetUnit" validate:"max=100"`
	Frequency   string                  `json:"frequency" validate:"required,frequency"`
	RawInput    string                  `json:"rawInput,omitempty"`
	Weight      *models.ResolutionWeight `json:"weight,omitempty"`
	Tracking    *models.TrackingConfig  `json:"tracking,omitempty"`
}

// UpdateResolutionRequest represents a partial resolution update
type UpdateResolutionRequest struct {
	Title       *string                  `json:"title,omitempty"`
	TargetValue *float64                 `json:"targetValue,omitempty"`
	TargetUnit  *string                  `json:"targetUnit,omitempty"`
	Frequency   *string                  `json:"frequency,omitempty"`
	Weight      *models.ResolutionWeight `json:"weight,omitempty"`
	Tracking    *models.TrackingConfig   `json:"tracking,omitempty"`
}

// AddProgressRequest represents a progress log request
type AddProgressRequest struct {
	Date      string  `json:"date,omitempty"` // defaults to the effective today
	Completed float64 `json:"completed" validate:"gte=0"`
	Replace   *bool   `json:"replace,omitempty"`
}

// StatsResponse represents period progress plus streak for one resolution
type StatsResponse struct {
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Streak  int     `json:"streak"`
}

// ListResolutions lists all resolutions, oldest first
func (h *ResolutionHandler) ListResolutions(w http.ResponseWriter, r *http.Request) {
	resolutions, err := h.resolutionRepo.GetAll(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve resolutions")
		return
	}
	respondJSON(w, http.StatusOK, resolutions)
}

// CreateResolution creates a new resolution
func (h *ResolutionHandler) CreateResolution(w http.ResponseWriter, r *http.Request) {
	var req CreateResolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", validationErrors[0].Error()))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	req.Title = validation.SanitizeText(req.Title)
	if req.Title == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title is required and cannot be empty after sanitization")
		return
	}
	if req.TargetUnit == "" {
		req.TargetUnit = "times"
	}
	if req.Tracking != nil {
		if req.Tracking.ReminderMode != nil {
			if err := validation.ValidateReminderMode(string(*req.Tracking.ReminderMode)); err != nil {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
				return
			}
		}
		if req.Tracking.LoggingStyle != nil {
			if err := validation.ValidateLoggingStyle(string(*req.Tracking.LoggingStyle)); err != nil {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
				return
			}
		}
	}

	ctx := r.Context()
	resolution := &models.Resolution{
		ID:          uuid.New(),
		Title:       req.Title,
		TargetValue: req.TargetValue,
		TargetUnit:  req.TargetUnit,
		Frequency:   models.Frequency(req.Frequency),
		RawInput:    req.RawInput,
		Tracking:    req.Tracking,
		Progress:    []models.ProgressEntry{},
	}

	// A client-supplied weight (from a prior /weight call) is trusted after
	// clamping; otherwise scoring happens async via the queue when one is
	// configured, synchronously when not.
	if req.Weight != nil {
		clamped := models.ClampWeight(
			float64(req.Weight.Measurability),
			float64(req.Weight.Achievability),
			float64(req.Weight.Importance),
			float64(req.Weight.Combined),
		)
		resolution.Weight = &clamped
	} else if h.jobQueue == nil && h.scorer != nil {
		weight, err := h.scorer.Score(ctx, resolution.Title, resolution.TargetValue, resolution.TargetUnit, resolution.Frequency)
		if err != nil {
			h.logger.Warn("weight_scoring_failed",
				zap.String("resolution_title", resolution.Title),
				zap.Error(err),
			)
		}
		resolution.Weight = &weight
	}

	if err := h.resolutionRepo.Create(ctx, resolution); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create resolution")
		return
	}

	if resolution.Weight == nil && h.jobQueue != nil {
		job := queue.NewJob(queue.JobTypeWeightScoring, &resolution.ID)
		if err := h.jobQueue.Enqueue(ctx, job); err != nil {
			// The resolution exists either way; it just stays unweighted
			// until a rescore sweep picks it up
			h.logger.Error("failed_to_enqueue_weight_job",
				zap.String("resolution_id", resolution.ID.String()),
				zap.Error(err),
			)
		}
	}

	respondJSON(w, http.StatusCreated, resolution)
}

// GetResolution retrieves a resolution by ID
func (h *ResolutionHandler) GetResolution(w http.ResponseWriter, r *http.Request) {
	resolution, ok := h.loadResolution(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, resolution)
}

// UpdateResolution updates an existing resolution
func (h *ResolutionHandler) UpdateResolution(w http.ResponseWriter, r *http.Request) {
	resolution, ok := h.loadResolution(w, r)
	if !ok {
		return
	}

	var req UpdateResolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if req.Title != nil {
		sanitized := validation.SanitizeText(*req.Title)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title cannot be empty after sanitization")
			return
		}
		if len(sanitized) > MaxTitleLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Title exceeds maximum length of %d characters", MaxTitleLength))
			return
		}
		resolution.Title = sanitized
	}
	if req.TargetValue != nil {
		if *req.TargetValue < 1 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Target value must be at least 1")
			return
		}
		resolution.TargetValue = *req.TargetValue
	}
	if req.TargetUnit != nil {
		if *req.TargetUnit == "" || len(*req.TargetUnit) > MaxUnitLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid target unit")
			return
		}
		resolution.TargetUnit = *req.TargetUnit
	}
	if req.Frequency != nil {
		if err := validation.ValidateFrequency(*req.Frequency); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		resolution.Frequency = models.Frequency(*req.Frequency)
	}
	if req.Weight != nil {
		clamped := models.ClampWeight(
			float64(req.Weight.Measurability),
			float64(req.Weight.Achievability),
			float64(req.Weight.Importance),
			float64(req.Weight.Combined),
		)
		resolution.Weight = &clamped
	}
	if req.Tracking != nil {
		if req.Tracking.ReminderMode != nil {
			if err := validation.ValidateReminderMode(string(*req.Tracking.ReminderMode)); err != nil {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
				return
			}
		}
		if req.Tracking.LoggingStyle != nil {
			if err := validation.ValidateLoggingStyle(string(*req.Tracking.LoggingStyle)); err != nil {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
				return
			}
		}
		resolution.Tracking = req.Tracking
	}

	if err := h.resolutionRepo.Update(r.Context(), resolution); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update resolution")
		return
	}

	respondJSON(w, http.StatusOK, resolution)
}

// DeleteResolution deletes a resolution
func (h *ResolutionHandler) DeleteResolution(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid resolution ID")
		return
	}

	if err := h.resolutionRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Resolution not found")
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete resolution")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddProgress logs progress against a resolution for one date
func (h *ResolutionHandler) AddProgress(w http.ResponseWriter, r *http.Request) {
	resolution, ok := h.loadResolution(w, r)
	if !ok {
		return
	}

	var req AddProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if req.Completed < 0 {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Completed must be zero or greater")
		return
	}

	ctx := r.Context()
	date := req.Date
	if date == "" {
		settings, err := h.appStateRepo.GetSettings(ctx)
		if err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve settings")
			return
		}
		date = tracking.EffectiveDate(settings, h.now())
	} else if _, err := time.Parse(tracking.DateLayout, date); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Date must use the YYYY-MM-DD format")
		return
	}

	// An explicit replace flag wins; otherwise a set_value logging style
	// makes logging overwrite rather than accumulate
	replace := false
	if req.Replace != nil {
		replace = *req.Replace
	} else if resolution.Tracking != nil && resolution.Tracking.LoggingStyle != nil {
		replace = *resolution.Tracking.LoggingStyle == models.LoggingStyleSetValue
	}

	entry := models.ProgressEntry{Date: date, Completed: req.Completed}
	updated, err := h.resolutionRepo.AddProgress(ctx, resolution.ID, entry, replace)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Resolution not found")
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to log progress")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// GetStats returns the current period progress and streak for a resolution
func (h *ResolutionHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	resolution, ok := h.loadResolution(w, r)
	if !ok {
		return
	}

	settings, err := h.appStateRepo.GetSettings(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve settings")
		return
	}

	now := h.now()
	progress := tracking.GetPeriodProgress(resolution, settings, now)
	streak := tracking.Streak(resolution.Progress, tracking.EffectiveDate(settings, now))

	respondJSON(w, http.StatusOK, StatsResponse{
		Current: progress.Current,
		Target:  progress.Target,
		Streak:  streak,
	})
}

// loadResolution parses the path ID and fetches the resolution, writing the
// error response itself when either step fails
func (h *ResolutionHandler) loadResolution(w http.ResponseWriter, r *http.Request) (*models.Resolution, bool) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid resolution ID")
		return nil, false
	}

	resolution, err := h.resolutionRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Resolution not found")
			return nil, false
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve resolution")
		return nil, false
	}
	return resolution, true
}
