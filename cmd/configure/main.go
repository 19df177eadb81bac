package main

import (
	"fmt"
	"os"

	"github.com/resolvely/resolution-tracker/cmd/configure/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "resolution-tracker-configure",
		Short: "Configuration tool for the Resolution Tracker API",
		Long:  "CLI tool for inspecting resolutions, adjusting tracking settings, and testing the AI provider",
	}

	rootCmd.AddCommand(commands.NewSettingsCmd())
	rootCmd.AddCommand(commands.NewListCmd())
	rootCmd.AddCommand(commands.NewTestAICmd())
	rootCmd.AddCommand(commands.NewRescoreCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
