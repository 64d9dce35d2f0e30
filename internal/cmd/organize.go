package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harrison/tidyspace/internal/config"
	"github.com/harrison/tidyspace/internal/models"
)

// NewOrganizeCommand creates and returns the organize subcommand
func NewOrganizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize [directory]",
		Short: "Sort the files of a directory into category folders",
		Long: `Classify every top-level file of the directory (default: current directory)
and move it into a category folder such as Documents/, Images/ or Receipts/.

With --watch, files are processed as they appear until interrupted.
With --mode cleanup, the age-based cleanup rules are used instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runOrganize,
	}

	cmd.Flags().Bool("dry-run", false, "Show what would happen without changing any file")
	cmd.Flags().Bool("watch", false, "Keep running and process files as they appear")
	cmd.Flags().String("mode", "", "Classification mode: organize or cleanup (default from config)")
	cmd.Flags().Int("retention", 0, "Number of history records to keep (0 = mode default)")
	cmd.Flags().Bool("json", false, "Print the result as JSON")

	return cmd
}

func runOrganize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var modePtr *config.Mode
	if cmd.Flags().Changed("mode") {
		m, _ := cmd.Flags().GetString("mode")
		mode := config.Mode(m)
		modePtr = &mode
	}
	var dryRunPtr *bool
	if cmd.Flags().Changed("dry-run") {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		dryRunPtr = &dryRun
	}
	var retentionPtr *int
	if cmd.Flags().Changed("retention") {
		retention, _ := cmd.Flags().GetInt("retention")
		retentionPtr = &retention
	}
	cfg.MergeWithFlags(modePtr, dryRunPtr, nil, retentionPtr)

	if err := cfg.Validate(); err != nil {
		return err
	}

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	s, err := openSession(cmd, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watch, _ := cmd.Flags().GetBool("watch")
	var result models.RunResult
	if watch {
		result, err = s.organizer.Watch(ctx, dir)
	} else {
		result, err = s.organizer.Run(ctx, dir)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	return reportResult(cmd, result, asJSON)
}
