package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/tidyspace/internal/models"
)

// FileLogger writes session events to a per-run log file under the data home.
// It creates timestamped run-YYYYMMDD-HHMMSS.log files and maintains a
// latest.log symlink pointing to the most recent run.
// Colors are never written to the file.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger in logDir at the given level.
// It creates the log directory if it doesn't exist, opens a timestamped
// run log file, and creates/updates the latest.log symlink.
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", timestamp))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}

	// Symlinks may be unavailable (unprivileged Windows); the run log still works
	_ = os.Symlink(filepath.Base(runFile), symlinkPath)

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== tidyspace run log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of the current run log.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message.
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05")
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", ts, level, message))
}

// LogAction records one action in the run log.
func (fl *FileLogger) LogAction(rec models.ActionRecord) {
	fl.logWithLevel(actionLevel(rec), formatAction(rec))
}

// LogProgress is a no-op; the file carries one line per action already.
func (fl *FileLogger) LogProgress(done, total int) {}

// LogSummary writes the run totals followed by each failed action.
func (fl *FileLogger) LogSummary(result models.RunResult) {
	var sb strings.Builder
	sb.WriteString("\n=== Run Summary ===\n")
	sb.WriteString(fmt.Sprintf("Root: %s\n", result.Root))
	sb.WriteString(fmt.Sprintf("Mode: %s\n", result.Mode))
	sb.WriteString(fmt.Sprintf("Dry run: %t\n", result.DryRun))
	sb.WriteString(fmt.Sprintf("Moved: %d\n", result.Moved))
	sb.WriteString(fmt.Sprintf("Deleted: %d\n", result.Deleted))
	sb.WriteString(fmt.Sprintf("Kept: %d\n", result.Kept))
	sb.WriteString(fmt.Sprintf("Errors: %d\n", result.Errored))
	sb.WriteString(fmt.Sprintf("Skipped: %d\n", result.Skipped))
	sb.WriteString(fmt.Sprintf("Duration: %s\n", formatDuration(result.Duration)))

	if result.Errored > 0 {
		sb.WriteString("\nFailed actions:\n")
		for _, rec := range result.Records {
			if !rec.Success {
				sb.WriteString(fmt.Sprintf("  - %s: %s\n", rec.Source, rec.ErrorMessage()))
			}
		}
	}
	fl.writeRunLog(sb.String())
}

// Close flushes and closes the run log file.
// It should be called when the logger is no longer needed.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		// Flush after each write for real-time logging
		fl.runLog.Sync()
	}
}
