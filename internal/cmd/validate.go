package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/tidyspace/internal/config"
)

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and print the resolved values",
		Long: `Load the configuration file (--config, or ~/.tidyspace/config.yaml when
present), apply defaults and validate it. YAML, TOML and JSON files are
accepted, chosen by extension.

Exit code: 0 if valid, 1 if errors found`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return printConfig(cmd.OutOrStdout(), cfg)
		},
	}

	return cmd
}

// printConfig writes the resolved configuration in a readable form.
func printConfig(w io.Writer, cfg *config.Config) error {
	home, err := cfg.GetHome()
	if err != nil {
		return err
	}
	historyPath, err := cfg.GetHistoryPath()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Configuration is valid.")
	fmt.Fprintf(w, "  mode:          %s\n", cfg.Mode)
	fmt.Fprintf(w, "  dry run:       %t\n", cfg.DryRun)
	fmt.Fprintf(w, "  log level:     %s\n", cfg.LogLevel)
	fmt.Fprintf(w, "  home:          %s\n", home)
	fmt.Fprintf(w, "  history:       %s (%s, keep %d)\n", historyPath, cfg.History.Backend, cfg.RetentionCap())
	fmt.Fprintf(w, "  disambiguator: %s\n", cfg.Disambiguator())
	fmt.Fprintf(w, "  extraction:    %t (max %d chars)\n", cfg.Extract.Enabled, cfg.Extract.MaxChars)
	fmt.Fprintf(w, "  watch:         debounce %s\n", cfg.Watch.Debounce)
	fmt.Fprintf(w, "  ignore:        %d names, %d globs, hidden=%t\n", len(cfg.Ignore.Names), len(cfg.Ignore.Globs), cfg.Ignore.Hidden)

	categories := cfg.Organize.Categories
	if cfg.Mode == config.ModeCleanup {
		categories = cfg.Cleanup.Categories
	}
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "  categories:")
	for _, name := range names {
		fmt.Fprintf(w, "    %s: %s\n", name, strings.Join(categories[name], " "))
	}

	if cfg.Mode == config.ModeCleanup {
		t := cfg.Cleanup.Thresholds
		fmt.Fprintf(w, "  thresholds:    screenshot %gd, installer %gd, archive %gd, image %gd, document %gd, any %gd\n",
			t.Screenshot, t.Installer, t.Archive, t.Image, t.Document, t.Any)
		fmt.Fprintf(w, "  targets:       %s\n", strings.Join(cfg.Cleanup.Targets, ", "))
	}
	return nil
}
