package cmd

import (
	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the aibou version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("aibou " + version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
