package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/resolvely/resolution-tracker/internal/database"
	"github.com/resolvely/resolution-tracker/internal/models"
	"github.com/resolvely/resolution-tracker/internal/queue"
	"github.com/resolvely/resolution-tracker/internal/services/ai"
)

// Scorer produces a weight for a resolution draft
type Scorer interface {
	Score(ctx context.Context, title string, targetValue float64, targetUnit string, frequency models.Frequency) (models.ResolutionWeight, error)
}

// ResolutionWeigher processes weight scoring jobs
type ResolutionWeigher struct {
	scorer         Scorer
	resolutionRepo database.ResolutionRepositoryInterface
	jobQueue       queue.JobQueue // For re-enqueueing jobs with delays
}

// NewResolutionWeigher creates a new resolution weigher
func NewResolutionWeigher(
	scorer Scorer,
	resolutionRepo database.ResolutionRepositoryInterface,
	jobQueue queue.JobQueue,
) *ResolutionWeigher {
	return &ResolutionWeigher{
		scorer:         scorer,
		resolutionRepo: resolutionRepo,
		jobQueue:       jobQueue,
	}
}

// ProcessWeightScoringJob scores a single resolution and stores the result
func (w *ResolutionWeigher) ProcessWeightScoringJob(ctx context.Context, job *queue.Job) error {
	if job.ResolutionID == nil {
		return fmt.Errorf("resolution_id is required for weight scoring job")
	}

	resolution, err := w.resolutionRepo.GetByID(ctx, *job.ResolutionID)
	if err != nil {
		return fmt.Errorf("failed to get resolution: %w", err)
	}

	// A weight may already be present when the resolution was scored
	// synchronously or by a competing worker
	if resolution.Weight != nil {
		log.Printf("Skipping resolution %s (already weighted)", resolution.ID)
		return nil
	}

	weight, err := w.scorer.Score(ctx, resolution.Title, resolution.TargetValue, resolution.TargetUnit, resolution.Frequency)
	if err != nil {
		return fmt.Errorf("failed to score resolution: %w", err)
	}

	resolution.Weight = &weight
	if err := w.resolutionRepo.Update(ctx, resolution); err != nil {
		return fmt.Errorf("failed to update resolution: %w", err)
	}

	log.Printf("Weighted resolution %s: combined=%d", resolution.ID, weight.Combined)
	return nil
}

// ProcessRescoreAllJob rescores every stored resolution
func (w *ResolutionWeigher) ProcessRescoreAllJob(ctx context.Context) error {
	resolutions, err := w.resolutionRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to get resolutions: %w", err)
	}

	updated := 0
	for _, resolution := range resolutions {
		weight, err := w.scorer.Score(ctx, resolution.Title, resolution.TargetValue, resolution.TargetUnit, resolution.Frequency)
		if err != nil {
			log.Printf("Failed to score resolution %s: %v", resolution.ID, err)
			continue
		}

		resolution.Weight = &weight
		if err := w.resolutionRepo.Update(ctx, resolution); err != nil {
			log.Printf("Failed to update resolution %s: %v", resolution.ID, err)
			continue
		}
		updated++
	}

	log.Printf("Rescored %d of %d resolutions", updated, len(resolutions))
	return nil
}

// ProcessJob processes a job based on its type
func (w *ResolutionWeigher) ProcessJob(ctx context.Context, msg *queue.Message) error {
	job := msg.Job

	if !job.ShouldProcess() {
		log.Printf("Job %s not ready yet (NotBefore: %v), skipping", job.ID, job.NotBefore)
		if ackErr := msg.Ack(); ackErr != nil {
			log.Printf("Failed to ack job for later processing: %v", ackErr)
		}
		return nil
	}

	switch job.Type {
	case queue.JobTypeWeightScoring:
		if err := w.ProcessWeightScoringJob(ctx, job); err != nil {
			return w.handleJobError(ctx, msg, job, err, "weight scoring")
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	case queue.JobTypeRescoreAll:
		if err := w.ProcessRescoreAllJob(ctx); err != nil {
			// Rescore failures are less critical, don't requeue
			if nackErr := msg.Nack(false); nackErr != nil {
				log.Printf("Failed to nack rescore job: %v", nackErr)
			}
			return fmt.Errorf("rescore failed: %w", err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack rescore job: %w", ackErr)
		}
		return nil

	default:
		if nackErr := msg.Nack(false); nackErr != nil { // Unknown job type, send to DLQ
			log.Printf("Failed to nack unknown job type: %v", nackErr)
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleJobError routes failures to a delayed retry, an immediate retry, or
// the DLQ depending on the error class and the retry budget
func (w *ResolutionWeigher) handleJobError(ctx context.Context, msg *queue.Message, job *queue.Job, err error, jobType string) error {
	if ai.IsQuotaError(err) {
		log.Printf("Quota exceeded for %s job %s: %v", jobType, job.ID, err)

		retryDelay := ai.GetRetryDelay(err, job.RetryCount)
		notBefore := time.Now().Add(retryDelay)

		delayedJob := w.delayedRetry(job, notBefore)

		if ackErr := msg.Ack(); ackErr != nil {
			log.Printf("Failed to ack job before re-enqueue: %v", ackErr)
		}

		if w.jobQueue != nil {
			if enqueueErr := w.jobQueue.Enqueue(ctx, delayedJob); enqueueErr != nil {
				log.Printf("Failed to re-enqueue job %s with delay: %v", job.ID, enqueueErr)
				return fmt.Errorf("quota exhausted, failed to re-enqueue: %w", enqueueErr)
			}
			log.Printf("Re-enqueued %s job %s for retry at %v (quota exhausted)", jobType, job.ID, notBefore)
			return nil
		}

		log.Printf("Warning: no queue access, cannot re-enqueue job with delay. Sending to DLQ.")
		if nackErr := msg.Nack(false); nackErr != nil {
			log.Printf("Failed to nack quota error job: %v", nackErr)
		}
		return fmt.Errorf("quota exhausted (job %s): %w", job.ID, err)
	}

	if ai.IsRateLimitError(err) {
		log.Printf("Rate limited for %s job %s: %v", jobType, job.ID, err)

		retryDelay := ai.GetRetryDelay(err, job.RetryCount)

		if job.CanRetry() && w.jobQueue != nil {
			notBefore := time.Now().Add(retryDelay)
			delayedJob := w.delayedRetry(job, notBefore)

			if ackErr := msg.Ack(); ackErr != nil {
				log.Printf("Failed to ack rate limited job: %v", ackErr)
			}

			if enqueueErr := w.jobQueue.Enqueue(ctx, delayedJob); enqueueErr != nil {
				log.Printf("Failed to re-enqueue rate limited job %s: %v", job.ID, enqueueErr)
				if nackErr := msg.Nack(true); nackErr != nil {
					log.Printf("Failed to nack rate limited job: %v", nackErr)
				}
				return fmt.Errorf("rate limited, failed to re-enqueue: %w", enqueueErr)
			}

			log.Printf("Rate limited: re-enqueued %s job %s for retry at %v (delay: %v)",
				jobType, job.ID, notBefore, retryDelay)
			return nil
		}

		if job.CanRetry() {
			job.IncrementRetry()
			log.Printf("Rate limit: will retry job %s immediately (attempt %d/%d)",
				job.ID, job.RetryCount, job.MaxRetries)
			if nackErr := msg.Nack(true); nackErr != nil {
				log.Printf("Failed to nack rate limited job: %v", nackErr)
			}
			return fmt.Errorf("rate limited (will retry): %w", err)
		}
	}

	if job.CanRetry() {
		job.IncrementRetry()
		log.Printf("%s job %s failed (attempt %d/%d): %v, will retry", jobType, job.ID, job.RetryCount, job.MaxRetries, err)
		if nackErr := msg.Nack(true); nackErr != nil {
			log.Printf("Failed to nack job: %v", nackErr)
		}
		return fmt.Errorf("job failed (will retry): %w", err)
	}

	log.Printf("%s job %s failed after %d retries: %v, sending to DLQ", jobType, job.ID, job.MaxRetries, err)
	if nackErr := msg.Nack(false); nackErr != nil {
		log.Printf("Failed to nack job to DLQ: %v", nackErr)
	}
	return fmt.Errorf("job failed (max retries): %w", err)
}

func (w *ResolutionWeigher) delayedRetry(job *queue.Job, notBefore time.Time) *queue.Job {
	return &queue.Job{
		ID:           job.ID,
		Type:         job.Type,
		ResolutionID: job.ResolutionID,
		NotBefore:    &notBefore,
		NotAfter:     job.NotAfter,
		Metadata:     job.Metadata,
		CreatedAt:    job.CreatedAt,
		RetryCount:   job.RetryCount + 1,
		MaxRetries:   job.MaxRetries,
	}
}
