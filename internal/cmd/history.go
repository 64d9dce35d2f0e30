package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/tidyspace/internal/config"
	"github.com/harrison/tidyspace/internal/display"
	"github.com/harrison/tidyspace/internal/models"
)

// NewHistoryCommand creates and returns the history subcommand
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently recorded actions",
		Long: `Show recently recorded actions.

Organize and cleanup keep separate histories; use --mode cleanup to list
what "tidyspace clean" did.`,
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().String("mode", "", "Show the history of this mode: organize or cleanup (default from config)")
	cmd.Flags().Int("limit", 20, "Number of most recent records to show")
	cmd.Flags().Bool("json", false, "Print records as JSON")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
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

	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 1 {
		return fmt.Errorf("--limit must be at least 1, got %d", limit)
	}

	store, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if records == nil {
			records = []models.ActionRecord{}
		}
		return display.WriteJSON(cmd.OutOrStdout(), records)
	}
	display.PrintHistory(cmd.OutOrStdout(), records, time.Now())
	return nil
}
