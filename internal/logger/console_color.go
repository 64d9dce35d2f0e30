package logger

import (
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/tidyspace/internal/models"
)

// colorScheme defines consistent colors for action outcomes.
// Green: applied moves and deletes
// Red: failures
// Yellow: dry-run simulations
// Cyan: keeps
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
}

// newColorScheme creates the standard color scheme.
func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
	}
}

// colorizeAction colors an action line by outcome.
func colorizeAction(rec models.ActionRecord, line string) string {
	scheme := newColorScheme()
	switch {
	case !rec.Success:
		return scheme.fail.Sprint(line)
	case rec.DryRun:
		return scheme.warn.Sprint(line)
	case rec.Action == models.DispositionKeep:
		return scheme.label.Sprint(line)
	default:
		return scheme.success.Sprint(line)
	}
}

// colorizeSummary highlights the error count when the run had failures.
func colorizeSummary(result models.RunResult, summary string) string {
	scheme := newColorScheme()
	if result.Errored == 0 {
		return scheme.success.Sprint(summary)
	}
	errPart := "errors " + strconv.Itoa(result.Errored)
	return strings.Replace(summary, errPart, scheme.fail.Sprint(errPart), 1)
}
