package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aibou-sh/aibou/internal/config"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "aibou",
	Short: "Terminal companion that mirrors your coding activity as a single state",
	Long: `aibou watches a project directory and, optionally, an agent log file,
and resolves everything it sees into one coarse state: idle, thinking,
typing, running, success or error. The state decays over time and is shown
by a terminal UI or printed as a status line.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}
