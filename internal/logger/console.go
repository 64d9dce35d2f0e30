// Package logger provides logging implementations for tidyspace sessions.
//
// The logger package offers leveled logging of per-file actions and run
// summaries. Implementations are thread-safe and support various output
// destinations (console, run log file, or several at once via Multi).
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/harrison/tidyspace/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs session progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// It supports log level filtering to control message verbosity.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w == os.Stdout || w == os.Stderr {
		// fatih/color checks the TTY and NO_COLOR
		return !color.NoColor
	}
	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	default:
		return "info"
	}
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
// Format: "[HH:MM:SS] [TRACE] <message>"
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}
	cl.writer.Write([]byte(formatted))
}

// colorLevel returns the level label wrapped in its color.
func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogAction logs one executed or simulated action.
// Successful actions log at INFO, failures at ERROR, keeps at DEBUG.
// Format: "[HH:MM:SS] [INFO] move report.pdf -> Documents/report.pdf (extension .pdf)"
func (cl *ConsoleLogger) LogAction(rec models.ActionRecord) {
	level := actionLevel(rec)
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	line := formatAction(rec)
	if cl.colorOutput {
		line = colorizeAction(rec, line)
	}
	cl.logWithLevel(level, line)
}

// LogProgress logs the position within a run at DEBUG level.
func (cl *ConsoleLogger) LogProgress(done, total int) {
	if cl.writer == nil || !cl.shouldLog("debug") {
		return
	}
	cl.logWithLevel("DEBUG", progressLine(done, total, 20, cl.colorOutput))
}

// LogSummary logs the run totals at INFO level.
func (cl *ConsoleLogger) LogSummary(result models.RunResult) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	summary := formatSummary(result)
	if cl.colorOutput {
		summary = colorizeSummary(result, summary)
	}
	cl.logWithLevel("INFO", summary)
}

// timestamp returns the current time formatted as HH:MM:SS.
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// actionLevel picks the log level for a record.
func actionLevel(rec models.ActionRecord) string {
	switch {
	case !rec.Success:
		return "ERROR"
	case rec.Action == models.DispositionKeep:
		return "DEBUG"
	default:
		return "INFO"
	}
}

// formatAction renders a record as a single line.
func formatAction(rec models.ActionRecord) string {
	var sb strings.Builder
	if rec.DryRun {
		sb.WriteString("[dry-run] ")
	}
	sb.WriteString(string(rec.Action))
	sb.WriteString(" ")
	sb.WriteString(rec.Source)
	if dest := rec.DestinationPath(); dest != "" {
		sb.WriteString(" -> ")
		sb.WriteString(dest)
	}
	if rec.Reason != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", rec.Reason))
	}
	if msg := rec.ErrorMessage(); msg != "" {
		sb.WriteString(": ")
		sb.WriteString(msg)
	}
	return sb.String()
}

// formatSummary renders the run counters.
func formatSummary(result models.RunResult) string {
	prefix := ""
	if result.DryRun {
		prefix = "[dry-run] "
	}
	return fmt.Sprintf("%s%s: moved %d, deleted %d, kept %d, errors %d, skipped %d in %s",
		prefix, result.Root, result.Moved, result.Deleted, result.Kept, result.Errored, result.Skipped,
		formatDuration(result.Duration))
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", minutes, seconds)
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

// NewNoOpLogger creates a logger that discards all messages.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string)               {}
func (n *NoOpLogger) LogDebug(string)               {}
func (n *NoOpLogger) LogInfo(string)                {}
func (n *NoOpLogger) LogWarn(string)                {}
func (n *NoOpLogger) LogError(string)               {}
func (n *NoOpLogger) LogAction(models.ActionRecord) {}
func (n *NoOpLogger) LogProgress(int, int)          {}
func (n *NoOpLogger) LogSummary(models.RunResult)   {}
