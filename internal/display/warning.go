package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/harrison/tidyspace/internal/models"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning, in yellow when colorize is set
func (w Warning) Display(out io.Writer, colorize bool) {
	var b strings.Builder

	if colorize {
		b.WriteString("\x1b[33m")
	}
	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected file:\n")
		} else {
			b.WriteString("Affected files:\n")
		}

		for i, file := range w.Files {
			b.WriteString("      ")
			b.WriteString(fmt.Sprintf("%d. %s", i+1, file))
			b.WriteString("\n")
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	if colorize {
		b.WriteString("\x1b[0m")
	}

	fmt.Fprint(out, b.String())
}

// WarnPartialMoves returns a warning for moves whose copy landed but whose
// source could not be removed. ok is false when there are none.
func WarnPartialMoves(records []models.ActionRecord) (Warning, bool) {
	var files []string
	for _, rec := range records {
		if rec.Partial {
			files = append(files, fmt.Sprintf("%s -> %s", rec.Source, rec.DestinationPath()))
		}
	}
	if len(files) == 0 {
		return Warning{}, false
	}
	return Warning{
		Title:      "Partial moves",
		Message:    "These files were copied to their destination but the original could not be removed.",
		Files:      files,
		Suggestion: "Check the destination copies, then remove the originals by hand.",
	}, true
}
