package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/tidyspace/internal/display"
	"github.com/harrison/tidyspace/internal/models"
)

// runReport is the JSON shape of a processing command's output.
type runReport struct {
	Root    string                `json:"root,omitempty"`
	Mode    string                `json:"mode"`
	DryRun  bool                  `json:"dry_run"`
	Moved   int                   `json:"moved"`
	Deleted int                   `json:"deleted"`
	Kept    int                   `json:"kept"`
	Errored int                   `json:"errored"`
	Skipped int                   `json:"skipped"`
	Records []models.ActionRecord `json:"records"`
}

// reportResult prints result as JSON or as a human summary and returns an
// error when any action failed, so the exit status reflects it.
func reportResult(cmd *cobra.Command, result models.RunResult, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		records := result.Records
		if records == nil {
			records = []models.ActionRecord{}
		}
		if err := display.WriteJSON(out, runReport{
			Root:    result.Root,
			Mode:    result.Mode,
			DryRun:  result.DryRun,
			Moved:   result.Moved,
			Deleted: result.Deleted,
			Kept:    result.Kept,
			Errored: result.Errored,
			Skipped: result.Skipped,
			Records: records,
		}); err != nil {
			return err
		}
	} else {
		display.PrintSummary(out, result, colorEnabled(out))
		if w, ok := display.WarnPartialMoves(result.Records); ok {
			w.Display(cmd.ErrOrStderr(), colorEnabled(cmd.ErrOrStderr()))
		}
	}

	if result.Errored > 0 {
		return fmt.Errorf("%d of %d actions failed", result.Errored, len(result.Records))
	}
	return nil
}
