package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/resolvely/resolution-tracker/internal/config"
	"github.com/resolvely/resolution-tracker/internal/database"
	"github.com/resolvely/resolution-tracker/internal/tracking"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked resolutions",
		Long:  "List all resolutions with their current period progress and streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()

			resolutionRepo := database.NewResolutionRepository(db)
			appStateRepo := database.NewAppStateRepository(db)
			ctx := context.Background()

			settings, err := appStateRepo.GetSettings(ctx)
			if err != nil {
				return fmt.Errorf("failed to get settings: %w", err)
			}

			resolutions, err := resolutionRepo.GetAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to list resolutions: %w", err)
			}

			if len(resolutions) == 0 {
				fmt.Println("No resolutions tracked yet")
				return nil
			}

			now := time.Now()
			today := tracking.EffectiveDate(settings, now)

			fmt.Println("Tracked resolutions:")
			for _, r := range resolutions {
				progress := tracking.GetPeriodProgress(r, settings, now)
				streak := tracking.Streak(r.Progress, today)

				fmt.Printf("  - %s (%s)\n", r.Title, r.ID)
				fmt.Printf("    Target: %v %s per %s\n", r.TargetValue, r.TargetUnit, r.Frequency)
				fmt.Printf("    This period: %v of %v\n", progress.Current, progress.Target)
				fmt.Printf("    Streak: %d days\n", streak)
				if r.Weight != nil {
					fmt.Printf("    Weight: %d/100\n", r.Weight.Combined)
				} else {
					fmt.Printf("    Weight: not yet scored\n")
				}
				fmt.Println()
			}

			return nil
		},
	}

	return cmd
}
