package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/tidyspace/internal/config"
	"github.com/harrison/tidyspace/internal/display"
)

// NewAnalyzeCommand creates and returns the analyze subcommand
func NewAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <directory>",
		Short: "Report what tidyspace would do without changing anything",
		Long: `Classify every top-level file of the directory and report totals per
category, files older than 30 days, the suggested actions and groups of files
with equal sizes. Output is JSON unless --text is given.`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().String("mode", "", "Classification mode: organize or cleanup (default from config)")
	cmd.Flags().Bool("text", false, "Print a human-readable report instead of JSON")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("mode") {
		m, _ := cmd.Flags().GetString("mode")
		mode := config.Mode(m)
		cfg.MergeWithFlags(&mode, nil, nil, nil)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s, err := openSession(cmd, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	findings, err := s.organizer.Analyze(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if text, _ := cmd.Flags().GetBool("text"); text {
		display.PrintFindings(cmd.OutOrStdout(), findings)
		return nil
	}
	return display.WriteJSON(cmd.OutOrStdout(), findings)
}
