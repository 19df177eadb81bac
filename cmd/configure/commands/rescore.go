package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/resolvely/resolution-tracker/internal/config"
	"github.com/resolvely/resolution-tracker/internal/queue"
	"github.com/spf13/cobra"
)

// NewRescoreCmd creates the rescore command
func NewRescoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rescore",
		Short: "Enqueue a rescore of unweighted resolutions",
		Long:  "Enqueue a job that scores every resolution still missing a weight; requires RabbitMQ and a running worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.RabbitMQURL == "" {
				return fmt.Errorf("RABBITMQ_URL is not configured")
			}

			jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
			if err != nil {
				return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			defer func() {
				if err := jobQueue.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close RabbitMQ connection: %v\n", err)
				}
			}()

			job := queue.NewJob(queue.JobTypeRescoreAll, nil)
			if err := jobQueue.Enqueue(context.Background(), job); err != nil {
				return fmt.Errorf("failed to enqueue rescore job: %w", err)
			}

			fmt.Printf("✓ Enqueued rescore job %s\n", job.ID)
			return nil
		},
	}

	return cmd
}
