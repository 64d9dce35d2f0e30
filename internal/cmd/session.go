package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/tidyspace/internal/config"
	"github.com/harrison/tidyspace/internal/display"
	"github.com/harrison/tidyspace/internal/history"
	"github.com/harrison/tidyspace/internal/logger"
	"github.com/harrison/tidyspace/internal/organizer"
)

// loadConfig loads the file named by --config, or ~/.tidyspace/config.yaml,
// then applies --log-level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return config.DefaultConfig(), nil
		}
		cfg, err = config.LoadConfigFromDir(home)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		level = strings.ToLower(level)
		cfg.MergeWithFlags(nil, nil, &level, nil)
	}
	return cfg, nil
}

// colorEnabled reports whether w is a terminal that should get colors.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// openStore opens the configured history backend.
func openStore(cmd *cobra.Command, cfg *config.Config) (history.Store, error) {
	path, err := cfg.GetHistoryPath()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.History.Backend, path, cfg.RetentionCap())
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	if js, ok := store.(*history.JSONStore); ok && js.Recovered != "" {
		display.Warning{
			Title:   "History file was unreadable and has been moved aside",
			Files:   []string{js.Recovered},
			Message: "A new, empty history was started.",
		}.Display(cmd.ErrOrStderr(), colorEnabled(cmd.ErrOrStderr()))
	}
	return store, nil
}

// session bundles what a processing command needs.
type session struct {
	cfg       *config.Config
	store     history.Store
	fileLog   *logger.FileLogger
	organizer *organizer.Organizer
}

// openSession opens the history store and loggers and builds the organizer.
// The console logger writes to stderr so stdout stays clean for reports.
func openSession(cmd *cobra.Command, cfg *config.Config) (*session, error) {
	store, err := openStore(cmd, cfg)
	if err != nil {
		return nil, err
	}

	console := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	s := &session{cfg: cfg, store: store}

	var sink logger.Sink = console
	if logDir, err := cfg.GetLogDir(); err == nil {
		if fl, err := logger.NewFileLogger(logDir, cfg.LogLevel); err == nil {
			s.fileLog = fl
			sink = logger.NewMulti(console, fl)
		} else {
			console.LogWarn(fmt.Sprintf("run log disabled: %v", err))
		}
	}

	o, err := organizer.New(cfg, store, organizer.WithLogger(sink))
	if err != nil {
		s.Close()
		return nil, err
	}
	s.organizer = o
	return s, nil
}

// Close releases the history store and run log.
func (s *session) Close() error {
	var firstErr error
	if s.fileLog != nil {
		firstErr = s.fileLog.Close()
	}
	if err := s.store.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
