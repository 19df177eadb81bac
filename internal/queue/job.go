package queue

import (
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeWeightScoring is a job for scoring a single resolution
	JobTypeWeightScoring JobType = "weight_scoring"
	// JobTypeRescoreAll is a job for rescoring every stored resolution
	JobTypeRescoreAll JobType = "rescore_all"
)

// Job represents a job in the queue
type Job struct {
	ID           uuid.UUID      `json:"id"`
	Type         JobType        `json:"type"`
	ResolutionID *uuid.UUID     `json:"resolution_id,omitempty"` // Unset for rescore_all jobs
	NotBefore    *time.Time     `json:"not_before,omitempty"`    // Earliest time to process job (nil = immediate)
	NotAfter     *time.Time     `json:"not_after,omitempty"`     // Latest time to process job (nil = no expiration)
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	RetryCount   int            `json:"retry_count"`
	MaxRetries   int            `json:"max_retries"`
}

// NewJob creates a new job
func NewJob(jobType JobType, resolutionID *uuid.UUID) *Job {
	return &Job{
		ID:           uuid.New(),
		Type:         jobType,
		ResolutionID: resolutionID,
		Metadata:     make(map[string]any),
		CreatedAt:    time.Now(),
		RetryCount:   0,
		MaxRetries:   3,
	}
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	now := time.Now()

	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}

	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}

	return true
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}

	return time.Now().After(*j.NotAfter)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
