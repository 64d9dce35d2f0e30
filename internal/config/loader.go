package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with optional fields so unset keys keep their defaults.
type fileConfig struct {
	Mode     *string       `yaml:"mode" toml:"mode" json:"mode"`
	DryRun   *bool         `yaml:"dry_run" toml:"dry_run" json:"dry_run"`
	LogLevel *string       `yaml:"log_level" toml:"log_level" json:"log_level"`
	Home     *string       `yaml:"home" toml:"home" json:"home"`
	History  *fileHistory  `yaml:"history" toml:"history" json:"history"`
	Ignore   *fileIgnore   `yaml:"ignore" toml:"ignore" json:"ignore"`
	Organize *fileOrganize `yaml:"organize" toml:"organize" json:"organize"`
	Cleanup  *fileCleanup  `yaml:"cleanup" toml:"cleanup" json:"cleanup"`
	Extract  *fileExtract  `yaml:"extract" toml:"extract" json:"extract"`
	Watch    *fileWatch    `yaml:"watch" toml:"watch" json:"watch"`
}

type fileHistory struct {
	Backend   *string `yaml:"backend" toml:"backend" json:"backend"`
	Path      *string `yaml:"path" toml:"path" json:"path"`
	Retention *int    `yaml:"retention" toml:"retention" json:"retention"`
}

type fileIgnore struct {
	Names  []string `yaml:"names" toml:"names" json:"names"`
	Globs  []string `yaml:"globs" toml:"globs" json:"globs"`
	Hidden *bool    `yaml:"hidden" toml:"hidden" json:"hidden"`
}

type fileOrganize struct {
	Categories         map[string][]string `yaml:"categories" toml:"categories" json:"categories"`
	ScreenshotPatterns []string            `yaml:"screenshot_patterns" toml:"screenshot_patterns" json:"screenshot_patterns"`
	ReceiptKeywords    []string            `yaml:"receipt_keywords" toml:"receipt_keywords" json:"receipt_keywords"`
	CodeExtensions     []string            `yaml:"code_extensions" toml:"code_extensions" json:"code_extensions"`
	Disambiguator      *string             `yaml:"disambiguator" toml:"disambiguator" json:"disambiguator"`
}

type fileThresholds struct {
	Screenshot *float64 `yaml:"screenshot" toml:"screenshot" json:"screenshot"`
	Installer  *float64 `yaml:"installer" toml:"installer" json:"installer"`
	Archive    *float64 `yaml:"archive" toml:"archive" json:"archive"`
	Image      *float64 `yaml:"image" toml:"image" json:"image"`
	Document   *float64 `yaml:"document" toml:"document" json:"document"`
	Any        *float64 `yaml:"any" toml:"any" json:"any"`
}

type fileDestinations struct {
	Screenshot *string `yaml:"screenshot" toml:"screenshot" json:"screenshot"`
	Archive    *string `yaml:"archive" toml:"archive" json:"archive"`
	Image      *string `yaml:"image" toml:"image" json:"image"`
	Document   *string `yaml:"document" toml:"document" json:"document"`
	Old        *string `yaml:"old" toml:"old" json:"old"`
}

type fileCleanup struct {
	Categories         map[string][]string `yaml:"categories" toml:"categories" json:"categories"`
	ScreenshotPatterns []string            `yaml:"screenshot_patterns" toml:"screenshot_patterns" json:"screenshot_patterns"`
	Thresholds         *fileThresholds     `yaml:"thresholds" toml:"thresholds" json:"thresholds"`
	Destinations       *fileDestinations   `yaml:"destinations" toml:"destinations" json:"destinations"`
	Disambiguator      *string             `yaml:"disambiguator" toml:"disambiguator" json:"disambiguator"`
	Targets            []string            `yaml:"targets" toml:"targets" json:"targets"`
}

type fileExtract struct {
	Enabled  *bool `yaml:"enabled" toml:"enabled" json:"enabled"`
	MaxChars *int  `yaml:"max_chars" toml:"max_chars" json:"max_chars"`
}

type fileWatch struct {
	Debounce *string `yaml:"debounce" toml:"debounce" json:"debounce"`
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns a *ConfigError
// The format is chosen by extension: .toml, .json, otherwise YAML.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("failed to read config file: %w", err)}
	}

	var fc fileConfig
	if err := decodeConfig(path, data, &fc); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	if err := fc.applyTo(cfg); err != nil {
		if cfgErr, ok := err.(*ConfigError); ok {
			cfgErr.Path = path
			return nil, cfgErr
		}
		return nil, &ConfigError{Path: path, Err: err}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .tidyspace/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ".tidyspace", "config.yaml")
	return LoadConfig(configPath)
}

// decodeConfig parses data based on the file extension, rejecting unknown keys.
func decodeConfig(path string, data []byte, fc *fileConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), fc)
		if err != nil {
			return fmt.Errorf("decode TOML: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(fc); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(fc); err != nil {
			// A file holding only comments decodes as an empty document
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode YAML: %w", err)
		}
	}
	return nil
}

// applyTo merges the explicitly set values onto cfg.
func (fc *fileConfig) applyTo(cfg *Config) error {
	if fc.Mode != nil {
		cfg.Mode = Mode(strings.ToLower(*fc.Mode))
	}
	if fc.DryRun != nil {
		cfg.DryRun = *fc.DryRun
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(*fc.LogLevel)
	}
	if fc.Home != nil {
		cfg.Home = *fc.Home
	}

	if h := fc.History; h != nil {
		if h.Backend != nil {
			cfg.History.Backend = strings.ToLower(*h.Backend)
		}
		if h.Path != nil {
			cfg.History.Path = *h.Path
		}
		if h.Retention != nil {
			cfg.History.Retention = *h.Retention
		}
	}

	if ig := fc.Ignore; ig != nil {
		if ig.Names != nil {
			cfg.Ignore.Names = ig.Names
		}
		if ig.Globs != nil {
			cfg.Ignore.Globs = ig.Globs
		}
		if ig.Hidden != nil {
			cfg.Ignore.Hidden = *ig.Hidden
		}
	}

	if o := fc.Organize; o != nil {
		cfg.Organize.Categories = overlayCategories(cfg.Organize.Categories, o.Categories)
		if o.ScreenshotPatterns != nil {
			cfg.Organize.ScreenshotPatterns = o.ScreenshotPatterns
		}
		if o.ReceiptKeywords != nil {
			cfg.Organize.ReceiptKeywords = o.ReceiptKeywords
		}
		if o.CodeExtensions != nil {
			cfg.Organize.CodeExtensions = o.CodeExtensions
		}
		if o.Disambiguator != nil {
			cfg.Organize.Disambiguator = DisambiguatorStyle(strings.ToLower(*o.Disambiguator))
		}
	}

	if c := fc.Cleanup; c != nil {
		cfg.Cleanup.Categories = overlayCategories(cfg.Cleanup.Categories, c.Categories)
		if c.ScreenshotPatterns != nil {
			cfg.Cleanup.ScreenshotPatterns = c.ScreenshotPatterns
		}
		if c.Targets != nil {
			cfg.Cleanup.Targets = c.Targets
		}
		if c.Disambiguator != nil {
			cfg.Cleanup.Disambiguator = DisambiguatorStyle(strings.ToLower(*c.Disambiguator))
		}
		if t := c.Thresholds; t != nil {
			setFloat(&cfg.Cleanup.Thresholds.Screenshot, t.Screenshot)
			setFloat(&cfg.Cleanup.Thresholds.Installer, t.Installer)
			setFloat(&cfg.Cleanup.Thresholds.Archive, t.Archive)
			setFloat(&cfg.Cleanup.Thresholds.Image, t.Image)
			setFloat(&cfg.Cleanup.Thresholds.Document, t.Document)
			setFloat(&cfg.Cleanup.Thresholds.Any, t.Any)
		}
		if d := c.Destinations; d != nil {
			setString(&cfg.Cleanup.Destinations.Screenshot, d.Screenshot)
			setString(&cfg.Cleanup.Destinations.Archive, d.Archive)
			setString(&cfg.Cleanup.Destinations.Image, d.Image)
			setString(&cfg.Cleanup.Destinations.Document, d.Document)
			setString(&cfg.Cleanup.Destinations.Old, d.Old)
		}
	}

	if e := fc.Extract; e != nil {
		if e.Enabled != nil {
			cfg.Extract.Enabled = *e.Enabled
		}
		if e.MaxChars != nil {
			cfg.Extract.MaxChars = *e.MaxChars
		}
	}

	if w := fc.Watch; w != nil && w.Debounce != nil {
		debounce, err := time.ParseDuration(*w.Debounce)
		if err != nil {
			return newConfigError("watch.debounce", fmt.Errorf("invalid duration format %q: %w", *w.Debounce, err))
		}
		cfg.Watch.Debounce = debounce
	}

	return nil
}

// overlayCategories replaces base categories named in overlay.
// An extension claimed by an overlay category is removed from every other base
// category, and an empty overlay list removes the category.
func overlayCategories(base, overlay map[string][]string) map[string][]string {
	if len(overlay) == 0 {
		return base
	}

	claimed := make(map[string]bool)
	for _, exts := range overlay {
		for _, ext := range exts {
			claimed[NormalizeExtension(ext)] = true
		}
	}

	result := make(map[string][]string, len(base)+len(overlay))
	for name, exts := range base {
		if _, replaced := overlay[name]; replaced {
			continue
		}
		kept := make([]string, 0, len(exts))
		for _, ext := range exts {
			if !claimed[NormalizeExtension(ext)] {
				kept = append(kept, ext)
			}
		}
		result[name] = kept
	}
	for name, exts := range overlay {
		if len(exts) == 0 {
			continue
		}
		result[name] = exts
	}
	return result
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
