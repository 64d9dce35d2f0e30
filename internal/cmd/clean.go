package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harrison/tidyspace/internal/config"
)

// NewCleanCommand creates and returns the clean subcommand
func NewCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [directory]...",
		Short: "Archive or delete old files by category and age",
		Long: `Apply the age-based cleanup rules to each directory. Without arguments the
configured cleanup targets are used (default: ~/Downloads and ~/Desktop).

Nothing is changed unless --execute is given.`,
		RunE: runClean,
	}

	cmd.Flags().Bool("execute", false, "Apply the actions instead of previewing them")
	cmd.Flags().Int("retention", 0, "Number of history records to keep (0 = mode default)")
	cmd.Flags().Bool("json", false, "Print the result as JSON")

	return cmd
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	execute, _ := cmd.Flags().GetBool("execute")
	mode := config.ModeCleanup
	dryRun := !execute
	var retentionPtr *int
	if cmd.Flags().Changed("retention") {
		retention, _ := cmd.Flags().GetInt("retention")
		retentionPtr = &retention
	}
	cfg.MergeWithFlags(&mode, &dryRun, nil, retentionPtr)

	if err := cfg.Validate(); err != nil {
		return err
	}

	dirs := args
	if len(dirs) == 0 {
		for _, target := range cfg.Cleanup.Targets {
			dir, err := config.ExpandPath(target)
			if err != nil {
				return err
			}
			dirs = append(dirs, dir)
		}
	}

	s, err := openSession(cmd, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := s.organizer.RunAll(ctx, dirs)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	return reportResult(cmd, result, asJSON)
}
