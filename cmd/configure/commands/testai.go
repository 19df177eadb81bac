package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/resolvely/resolution-tracker/internal/config"
	"github.com/resolvely/resolution-tracker/internal/services/ai"
	"github.com/spf13/cobra"
)

// NewTestAICmd creates the test-ai command
func NewTestAICmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "test-ai",
		Short: "Test the AI provider",
		Long:  "Send a sample resolution through the parse and weight services to verify the AI provider configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.OpenAIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY is not configured")
			}

			provider := ai.NewOpenAIProviderWithConfig(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel)
			parseService := ai.NewParseService(provider)
			weightService := ai.NewWeightService(provider)

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			fmt.Printf("Parsing: %q\n", text)
			result, err := parseService.Parse(ctx, text)
			if err != nil {
				return fmt.Errorf("parse failed: %w", err)
			}

			if result.Clarification != nil {
				fmt.Println("✓ Parse returned a clarification:")
				fmt.Printf("  Message: %s\n", result.Clarification.Message)
				if result.Clarification.Suggestion != "" {
					fmt.Printf("  Suggestion: %s\n", result.Clarification.Suggestion)
				}
				return nil
			}

			draft := result.Resolution
			fmt.Println("✓ Parse returned a draft:")
			fmt.Printf("  Title: %s\n", draft.Title)
			fmt.Printf("  Target: %v %s per %s\n", draft.TargetValue, draft.TargetUnit, draft.Frequency)

			weight, err := weightService.Score(ctx, draft.Title, draft.TargetValue, draft.TargetUnit, draft.Frequency)
			if err != nil {
				return fmt.Errorf("weight scoring failed: %w", err)
			}

			fmt.Println("✓ Weight scoring succeeded:")
			fmt.Printf("  Measurability: %d\n", weight.Measurability)
			fmt.Printf("  Achievability: %d\n", weight.Achievability)
			fmt.Printf("  Importance: %d\n", weight.Importance)
			fmt.Printf("  Combined: %d\n", weight.Combined)

			fmt.Println("\n✓ AI provider test passed")
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "Run 3 times a week", "Resolution text to parse")

	return cmd
}
