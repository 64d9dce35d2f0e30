package logger

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// progressLine renders "[=====     ] done/total (pct%)" for a run position.
// The bar is cyan while files remain and green once the run is through.
func progressLine(done, total, width int, colorize bool) string {
	if width < 1 {
		width = 10
	}

	pct := 0
	if total > 0 {
		pct = min(max(done*100/total, 0), 100)
	}
	filled := pct * width / 100

	line := fmt.Sprintf("[%s%s] %d/%d (%d%%)",
		strings.Repeat("=", filled), strings.Repeat(" ", width-filled), done, total, pct)
	if !colorize {
		return line
	}
	if pct < 100 {
		return color.New(color.FgCyan).Sprint(line)
	}
	return color.New(color.FgGreen).Sprint(line)
}
