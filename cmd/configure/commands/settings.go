package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/resolvely/resolution-tracker/internal/config"
	"github.com/resolvely/resolution-tracker/internal/database"
	"github.com/resolvely/resolution-tracker/internal/models"
	"github.com/resolvely/resolution-tracker/internal/validation"
	"github.com/spf13/cobra"
)

// NewSettingsCmd creates the settings command with show and set subcommands
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect or change tracking settings",
	}

	cmd.AddCommand(newSettingsShowCmd())
	cmd.AddCommand(newSettingsSetCmd())

	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current tracking settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			appStateRepo, closeDB, err := openAppState()
			if err != nil {
				return err
			}
			defer closeDB()

			settings, err := appStateRepo.GetSettings(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get settings: %w", err)
			}

			printSettings(settings)
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	var (
		weekStartsOn     string
		dayResetsAt      int
		reminderMode     string
		reminderTime     string
		promptFrequency  string
		promptWhenBehind string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change tracking settings",
		Long:  "Change one or more tracking settings; unset flags leave their setting untouched",
		RunE: func(cmd *cobra.Command, args []string) error {
			appStateRepo, closeDB, err := openAppState()
			if err != nil {
				return err
			}
			defer closeDB()

			ctx := context.Background()
			settings, err := appStateRepo.GetSettings(ctx)
			if err != nil {
				return fmt.Errorf("failed to get settings: %w", err)
			}

			if cmd.Flags().Changed("week-starts-on") {
				if err := validation.ValidateWeekStart(weekStartsOn); err != nil {
					return err
				}
				settings.WeekStartsOn = models.WeekStart(weekStartsOn)
			}
			if cmd.Flags().Changed("day-resets-at") {
				if err := validation.ValidateDayResetsAt(dayResetsAt); err != nil {
					return err
				}
				settings.DayResetsAt = dayResetsAt
			}
			if cmd.Flags().Changed("reminder-mode") {
				if err := validation.ValidateReminderMode(reminderMode); err != nil {
					return err
				}
				settings.ReminderMode = models.ReminderMode(reminderMode)
			}
			if cmd.Flags().Changed("reminder-time") {
				settings.ReminderTime = reminderTime
			}
			if cmd.Flags().Changed("prompt-frequency") {
				if err := validation.ValidatePromptFrequency(promptFrequency); err != nil {
					return err
				}
				settings.InAppPromptFrequency = models.PromptFrequency(promptFrequency)
			}
			if cmd.Flags().Changed("prompt-when-behind") {
				switch promptWhenBehind {
				case "true":
					settings.PromptWhenBehind = true
				case "false":
					settings.PromptWhenBehind = false
				default:
					return fmt.Errorf("--prompt-when-behind must be true or false")
				}
			}

			if err := appStateRepo.SetSettings(ctx, settings); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}

			fmt.Println("Settings updated:")
			printSettings(settings)
			return nil
		},
	}

	cmd.Flags().StringVar(&weekStartsOn, "week-starts-on", "", "Week start day (sunday or monday)")
	cmd.Flags().IntVar(&dayResetsAt, "day-resets-at", 0, "Hour the tracking day resets at (0-23)")
	cmd.Flags().StringVar(&reminderMode, "reminder-mode", "", "Reminder mode (off, in_app, browser)")
	cmd.Flags().StringVar(&reminderTime, "reminder-time", "", "Reminder time, e.g. 09:00")
	cmd.Flags().StringVar(&promptFrequency, "prompt-frequency", "", "In-app prompt frequency (every_visit, once_per_day, off)")
	cmd.Flags().StringVar(&promptWhenBehind, "prompt-when-behind", "", "Only prompt when behind target (true or false)")

	return cmd
}

func printSettings(settings models.TrackingSettings) {
	fmt.Printf("  Week starts on:     %s\n", settings.WeekStartsOn)
	fmt.Printf("  Day resets at:      %02d:00\n", settings.DayResetsAt)
	fmt.Printf("  Reminder mode:      %s\n", settings.ReminderMode)
	if settings.ReminderTime != "" {
		fmt.Printf("  Reminder time:      %s\n", settings.ReminderTime)
	}
	fmt.Printf("  Prompt frequency:   %s\n", settings.InAppPromptFrequency)
	fmt.Printf("  Prompt when behind: %t\n", settings.PromptWhenBehind)
}

// openAppState connects to the database and returns the app-state repository
// plus a cleanup func
func openAppState() (*database.AppStateRepository, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
		}
	}

	return database.NewAppStateRepository(db), closeDB, nil
}
