package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for tidyspace
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tidyspace",
		Short: "Sort and clean up cluttered directories",
		Long: `tidyspace scans or watches a directory and files each entry into a
category folder based on its extension, name, content and age.

Every move or delete is recorded in an append-only history kept in the
tidyspace data directory, and re-running over the same directory is a no-op.
Use --dry-run to preview actions without touching any file.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		// main prints the error once
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: ~/.tidyspace/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")

	cmd.AddCommand(NewOrganizeCommand())
	cmd.AddCommand(NewCleanCommand())
	cmd.AddCommand(NewAnalyzeCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewValidateCommand())

	return cmd
}
