package display

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/harrison/tidyspace/internal/models"
)

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintSummary prints the totals of a run and lists failed actions.
func PrintSummary(w io.Writer, result models.RunResult, colorize bool) {
	green := sprinter(color.FgGreen, colorize)
	red := sprinter(color.FgRed, colorize)
	yellow := sprinter(color.FgYellow, colorize)

	title := "Summary"
	if result.DryRun {
		title = yellow("Summary (dry run, nothing was changed)")
	}
	fmt.Fprintln(w, title)
	if result.Root != "" {
		fmt.Fprintf(w, "  Directory: %s\n", result.Root)
	}
	fmt.Fprintf(w, "  Moved:     %s\n", green(fmt.Sprint(result.Moved)))
	fmt.Fprintf(w, "  Deleted:   %s\n", green(fmt.Sprint(result.Deleted)))
	fmt.Fprintf(w, "  Kept:      %d\n", result.Kept)
	fmt.Fprintf(w, "  Skipped:   %d\n", result.Skipped)
	if result.Errored > 0 {
		fmt.Fprintf(w, "  Errors:    %s\n", red(fmt.Sprint(result.Errored)))
	} else {
		fmt.Fprintf(w, "  Errors:    0\n")
	}
	fmt.Fprintf(w, "  Duration:  %s\n", result.Duration.Round(time.Millisecond))

	if result.Errored == 0 {
		return
	}
	fmt.Fprintln(w, "\nFailed:")
	for _, rec := range result.Records {
		if !rec.Success {
			fmt.Fprintf(w, "  %s %s: %s\n", rec.Action, rec.Source, red(rec.ErrorMessage()))
		}
	}
}

// PrintFindings prints an analysis report with human-readable sizes.
func PrintFindings(w io.Writer, f *models.Findings) {
	fmt.Fprintf(w, "Analysis of %s\n", f.Root)
	fmt.Fprintf(w, "  %d files, %s\n", f.TotalFiles, humanize.Bytes(uint64(f.TotalSize)))

	if len(f.ByCategory) > 0 {
		fmt.Fprintln(w, "\nBy category:")
		names := make([]string, 0, len(f.ByCategory))
		for name := range f.ByCategory {
			names = append(names, name)
		}
		sort.Strings(names)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, name := range names {
			stat := f.ByCategory[name]
			fmt.Fprintf(tw, "  %s\t%d\t%s\n", name, stat.Count, humanize.Bytes(uint64(stat.Size)))
		}
		tw.Flush()
	}

	if len(f.OldFiles) > 0 {
		fmt.Fprintf(w, "\nOld files (%d):\n", len(f.OldFiles))
		for _, old := range f.OldFiles {
			fmt.Fprintf(w, "  %s (%.0f days, %s)\n", old.Path, old.AgeDays, humanize.Bytes(uint64(old.Size)))
		}
	}

	if len(f.SuggestedActions) > 0 {
		fmt.Fprintf(w, "\nSuggested actions (%d):\n", len(f.SuggestedActions))
		for _, s := range f.SuggestedActions {
			target := ""
			if s.Destination != "" {
				target = " -> " + s.Destination
			}
			fmt.Fprintf(w, "  %s %s%s (%s)\n", s.Disposition, s.Path, target, s.Reason)
		}
	}

	if len(f.PotentialDuplicates) > 0 {
		fmt.Fprintf(w, "\n%s:\n", capitalize(f.DuplicateHeuristic))
		for _, g := range f.PotentialDuplicates {
			fmt.Fprintf(w, "  %s: %s\n", humanize.Bytes(uint64(g.Size)), strings.Join(g.Paths, ", "))
		}
	}
}

// PrintHistory prints records as a table, newest last.
func PrintHistory(w io.Writer, records []models.ActionRecord, now time.Time) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No history recorded yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tACTION\tSOURCE\tDESTINATION\tSTATUS")
	for _, rec := range records {
		dest := rec.DestinationPath()
		if dest == "" {
			dest = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			humanize.RelTime(rec.Timestamp, now, "ago", "from now"),
			rec.Action, rec.Source, dest, status(rec))
	}
	tw.Flush()
}

func status(rec models.ActionRecord) string {
	switch {
	case rec.Partial:
		return "partial: " + rec.ErrorMessage()
	case !rec.Success:
		return "failed: " + rec.ErrorMessage()
	case rec.DryRun:
		return "dry-run"
	default:
		return "ok"
	}
}

func sprinter(attr color.Attribute, colorize bool) func(string) string {
	if !colorize {
		return func(s string) string { return s }
	}
	c := color.New(attr)
	c.EnableColor()
	return func(s string) string { return c.Sprint(s) }
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
