package config

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Mode selects the classification policy
type Mode string

const (
	// ModeOrganize sorts files into category folders by type and content
	ModeOrganize Mode = "organize"
	// ModeCleanup archives or deletes files by category and age
	ModeCleanup Mode = "cleanup"
)

// DisambiguatorStyle selects the numeric suffix format used on name collisions
type DisambiguatorStyle string

const (
	// DisambiguatorPadded produces report_001.pdf
	DisambiguatorPadded DisambiguatorStyle = "padded"
	// DisambiguatorPlain produces report_1.pdf
	DisambiguatorPlain DisambiguatorStyle = "plain"
)

// History backends
const (
	HistoryBackendJSON   = "json"
	HistoryBackendSQLite = "sqlite"
)

// Default retention caps per mode
const (
	DefaultOrganizeRetention = 100
	DefaultCleanupRetention  = 1000
)

// IgnoreConfig lists paths skipped before any probing
type IgnoreConfig struct {
	// Names are exact base names to skip (files or directories)
	Names []string `yaml:"names" toml:"names" json:"names"`

	// Globs are filepath.Match patterns applied to base names
	Globs []string `yaml:"globs" toml:"globs" json:"globs"`

	// Hidden skips every dotfile
	Hidden bool `yaml:"hidden" toml:"hidden" json:"hidden"`
}

// HistoryConfig controls the action log
type HistoryConfig struct {
	// Backend is "json" (default) or "sqlite"
	Backend string `yaml:"backend" toml:"backend" json:"backend"`

	// Path overrides the history base location (default: <home>/history.json or history.db).
	// The mode is appended to the file name, so organize and cleanup never share a file.
	Path string `yaml:"path" toml:"path" json:"path"`

	// Retention is the number of most recent records kept (0 = mode default)
	Retention int `yaml:"retention" toml:"retention" json:"retention"`
}

// OrganizeConfig holds the category-classification tables
type OrganizeConfig struct {
	// Categories maps a category label to its extensions
	Categories map[string][]string `yaml:"categories" toml:"categories" json:"categories"`

	// ScreenshotPatterns are case-insensitive file name substrings
	ScreenshotPatterns []string `yaml:"screenshot_patterns" toml:"screenshot_patterns" json:"screenshot_patterns"`

	// ReceiptKeywords are case-insensitive substrings looked up in extracted text
	ReceiptKeywords []string `yaml:"receipt_keywords" toml:"receipt_keywords" json:"receipt_keywords"`

	// CodeExtensions distinguish Code from Documents for text/* files
	CodeExtensions []string `yaml:"code_extensions" toml:"code_extensions" json:"code_extensions"`

	// Disambiguator is the collision suffix style
	Disambiguator DisambiguatorStyle `yaml:"disambiguator" toml:"disambiguator" json:"disambiguator"`
}

// Thresholds are age limits in days for cleanup rules
type Thresholds struct {
	Screenshot float64 `yaml:"screenshot" toml:"screenshot" json:"screenshot"`
	Installer  float64 `yaml:"installer" toml:"installer" json:"installer"`
	Archive    float64 `yaml:"archive" toml:"archive" json:"archive"`
	Image      float64 `yaml:"image" toml:"image" json:"image"`
	Document   float64 `yaml:"document" toml:"document" json:"document"`
	Any        float64 `yaml:"any" toml:"any" json:"any"`
}

// Destinations are directory templates for cleanup moves.
// Templates may use ~, $VARS, {year} and {month}.
type Destinations struct {
	Screenshot string `yaml:"screenshot" toml:"screenshot" json:"screenshot"`
	Archive    string `yaml:"archive" toml:"archive" json:"archive"`
	Image      string `yaml:"image" toml:"image" json:"image"`
	Document   string `yaml:"document" toml:"document" json:"document"`
	Old        string `yaml:"old" toml:"old" json:"old"`
}

// CleanupConfig holds the age-classification tables
type CleanupConfig struct {
	// Categories maps a cleanup category to its extensions
	Categories map[string][]string `yaml:"categories" toml:"categories" json:"categories"`

	// ScreenshotPatterns are case-insensitive file name substrings
	ScreenshotPatterns []string `yaml:"screenshot_patterns" toml:"screenshot_patterns" json:"screenshot_patterns"`

	Thresholds   Thresholds   `yaml:"thresholds" toml:"thresholds" json:"thresholds"`
	Destinations Destinations `yaml:"destinations" toml:"destinations" json:"destinations"`

	// Disambiguator is the collision suffix style
	Disambiguator DisambiguatorStyle `yaml:"disambiguator" toml:"disambiguator" json:"disambiguator"`

	// Targets are the directories cleaned when no directory is given
	Targets []string `yaml:"targets" toml:"targets" json:"targets"`
}

// ExtractConfig controls content extraction
type ExtractConfig struct {
	// Enabled turns content extraction on
	Enabled bool `yaml:"enabled" toml:"enabled" json:"enabled"`

	// MaxChars caps the extracted text length
	MaxChars int `yaml:"max_chars" toml:"max_chars" json:"max_chars"`
}

// WatchConfig controls watch mode
type WatchConfig struct {
	// Debounce is how long a file must stay quiet before it is processed
	Debounce time.Duration `yaml:"debounce" toml:"debounce" json:"debounce"`
}

// Config represents the resolved tidyspace configuration
type Config struct {
	// Mode selects the classification policy (organize, cleanup)
	Mode Mode

	// DryRun simulates actions without touching the filesystem
	DryRun bool

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string

	// Home is the data directory for history, logs and locks (empty = GetHome default)
	Home string

	History  HistoryConfig
	Ignore   IgnoreConfig
	Organize OrganizeConfig
	Cleanup  CleanupConfig
	Extract  ExtractConfig
	Watch    WatchConfig
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Mode:     ModeOrganize,
		DryRun:   false,
		LogLevel: "info",
		History: HistoryConfig{
			Backend: HistoryBackendJSON,
		},
		Ignore: IgnoreConfig{
			Names: []string{
				".DS_Store", "Thumbs.db", ".localized", "desktop.ini",
				".git", ".gitignore", ".env", ".venv", "node_modules", "__pycache__",
			},
			Globs:  []string{"*.tmp", "*.temp", "*.part", "*.crdownload", "*.download", "~$*"},
			Hidden: true,
		},
		Organize: OrganizeConfig{
			Categories: map[string][]string{
				"Documents":     {".pdf", ".doc", ".docx", ".odt", ".rtf", ".tex"},
				"Spreadsheets":  {".xls", ".xlsx", ".ods", ".csv", ".tsv"},
				"Presentations": {".ppt", ".pptx", ".odp", ".key"},
				"Images":        {".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".svg", ".ico"},
				"Videos":        {".mp4", ".avi", ".mov", ".mkv", ".webm", ".flv"},
				"Audio":         {".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a"},
				"Archives":      {".zip", ".tar", ".gz", ".bz2", ".7z", ".rar", ".xz", ".tar.gz", ".tar.bz2", ".tar.xz", ".tgz"},
				"Code":          {".py", ".js", ".ts", ".java", ".cpp", ".c", ".h", ".go", ".rs", ".rb", ".php"},
				"Web":           {".html", ".htm", ".css", ".scss", ".sass", ".less"},
				"Data":          {".json", ".xml", ".yaml", ".yml", ".sql", ".db"},
				"Executables":   {".exe", ".msi", ".dmg", ".pkg", ".deb", ".rpm", ".appimage"},
				"Fonts":         {".ttf", ".otf", ".woff", ".woff2", ".eot"},
				"Ebooks":        {".epub", ".mobi", ".azw", ".azw3"},
			},
			ScreenshotPatterns: []string{
				"screenshot", "screen shot", "screencapture", "capture",
				"img_", "image_", "photo_", "pic_", "screen",
			},
			ReceiptKeywords: []string{
				"receipt", "invoice", "bill", "payment", "order", "purchase",
				"transaction", "total", "tax", "subtotal", "amount due",
			},
			CodeExtensions: []string{".py", ".js", ".ts", ".java", ".cpp", ".c", ".go", ".rs"},
			Disambiguator:  DisambiguatorPadded,
		},
		Cleanup: CleanupConfig{
			Categories: map[string][]string{
				"images":     {".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".svg", ".ico"},
				"documents":  {".pdf", ".doc", ".docx", ".txt", ".md", ".rtf", ".odt"},
				"archives":   {".zip", ".tar", ".gz", ".tgz", ".bz2", ".rar", ".7z", ".tar.gz", ".tar.bz2", ".tar.xz"},
				"installers": {".dmg", ".pkg", ".deb", ".rpm", ".exe", ".msi", ".appimage"},
				"code":       {".py", ".js", ".ts", ".java", ".cpp", ".c", ".h", ".go", ".rs", ".rb", ".php"},
				"videos":     {".mp4", ".mov", ".avi", ".mkv", ".flv", ".wmv"},
				"audio":      {".mp3", ".wav", ".flac", ".aac", ".ogg", ".m4a"},
			},
			ScreenshotPatterns: []string{"screenshot", "screen shot", "screencapture", "capture", "img_"},
			Thresholds: Thresholds{
				Screenshot: 7,
				Installer:  30,
				Archive:    60,
				Image:      30,
				Document:   90,
				Any:        180,
			},
			Destinations: Destinations{
				Screenshot: "~/Pictures/Screenshots/{year}/{month}",
				Archive:    "~/Archives/Downloads/{year}",
				Image:      "~/Pictures/Downloads/{year}/{month}",
				Document:   "~/Documents/Downloaded",
				Old:        "~/Archives/OldFiles/{year}",
			},
			Disambiguator: DisambiguatorPlain,
			Targets:       []string{"~/Downloads", "~/Desktop"},
		},
		Extract: ExtractConfig{
			Enabled:  true,
			MaxChars: 5000,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// RetentionCap returns the number of history records kept for the configured mode.
func (c *Config) RetentionCap() int {
	if c.History.Retention > 0 {
		return c.History.Retention
	}
	if c.Mode == ModeCleanup {
		return DefaultCleanupRetention
	}
	return DefaultOrganizeRetention
}

// Disambiguator returns the collision suffix style for the configured mode.
func (c *Config) Disambiguator() DisambiguatorStyle {
	if c.Mode == ModeCleanup {
		return c.Cleanup.Disambiguator
	}
	return c.Organize.Disambiguator
}

// ExtensionTable builds the extension→category lookup for a category table.
// Extensions are lower-cased and given a leading dot.
func ExtensionTable(categories map[string][]string) map[string]string {
	table := make(map[string]string)
	for _, name := range sortedKeys(categories) {
		for _, ext := range categories[name] {
			table[NormalizeExtension(ext)] = name
		}
	}
	return table
}

// NormalizeExtension lower-cases ext and ensures a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(mode *Mode, dryRun *bool, logLevel *string, retention *int) {
	if mode != nil {
		c.Mode = *mode
	}
	if dryRun != nil {
		c.DryRun = *dryRun
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if retention != nil {
		c.History.Retention = *retention
	}
}

// Validate validates the configuration values
// Returns a *ConfigError if any values are invalid
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeOrganize, ModeCleanup:
	default:
		return newConfigError("mode", fmt.Errorf("invalid mode %q, must be one of: organize, cleanup", c.Mode))
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return newConfigError("log_level", fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel))
	}

	switch c.History.Backend {
	case HistoryBackendJSON, HistoryBackendSQLite:
	default:
		return newConfigError("history.backend", fmt.Errorf("invalid backend %q, must be one of: json, sqlite", c.History.Backend))
	}
	if c.History.Retention < 0 {
		return newConfigError("history.retention", fmt.Errorf("must be >= 0, got %d", c.History.Retention))
	}

	for _, glob := range c.Ignore.Globs {
		if err := validateGlob(glob); err != nil {
			return newConfigError("ignore.globs", err)
		}
	}

	if err := validateCategories("organize.categories", c.Organize.Categories); err != nil {
		return err
	}
	if err := validateCategories("cleanup.categories", c.Cleanup.Categories); err != nil {
		return err
	}
	if err := validateStyle("organize.disambiguator", c.Organize.Disambiguator); err != nil {
		return err
	}
	if err := validateStyle("cleanup.disambiguator", c.Cleanup.Disambiguator); err != nil {
		return err
	}

	thresholds := map[string]float64{
		"screenshot": c.Cleanup.Thresholds.Screenshot,
		"installer":  c.Cleanup.Thresholds.Installer,
		"archive":    c.Cleanup.Thresholds.Archive,
		"image":      c.Cleanup.Thresholds.Image,
		"document":   c.Cleanup.Thresholds.Document,
		"any":        c.Cleanup.Thresholds.Any,
	}
	for _, name := range sortedKeys(thresholds) {
		if thresholds[name] < 0 {
			return newConfigError("cleanup.thresholds."+name, fmt.Errorf("must be >= 0, got %v", thresholds[name]))
		}
	}

	destinations := map[string]string{
		"screenshot": c.Cleanup.Destinations.Screenshot,
		"archive":    c.Cleanup.Destinations.Archive,
		"image":      c.Cleanup.Destinations.Image,
		"document":   c.Cleanup.Destinations.Document,
		"old":        c.Cleanup.Destinations.Old,
	}
	for _, name := range sortedKeys(destinations) {
		if strings.TrimSpace(destinations[name]) == "" {
			return newConfigError("cleanup.destinations."+name, fmt.Errorf("destination template cannot be empty"))
		}
	}

	if c.Extract.Enabled && c.Extract.MaxChars <= 0 {
		return newConfigError("extract.max_chars", fmt.Errorf("must be > 0 when extraction is enabled, got %d", c.Extract.MaxChars))
	}
	if c.Watch.Debounce < 0 {
		return newConfigError("watch.debounce", fmt.Errorf("must be >= 0, got %v", c.Watch.Debounce))
	}

	return nil
}

// validateCategories rejects empty labels and extensions claimed by two categories
func validateCategories(field string, categories map[string][]string) error {
	owner := make(map[string]string)
	for _, name := range sortedKeys(categories) {
		if strings.TrimSpace(name) == "" {
			return newConfigError(field, fmt.Errorf("category name cannot be empty"))
		}
		if strings.ContainsAny(name, `/\`) {
			return newConfigError(field, fmt.Errorf("category name %q must not contain path separators", name))
		}
		for _, ext := range categories[name] {
			norm := NormalizeExtension(ext)
			if norm == "" || norm == "." {
				return newConfigError(field, fmt.Errorf("category %q has an empty extension", name))
			}
			if prev, ok := owner[norm]; ok && prev != name {
				return newConfigError(field, fmt.Errorf("extension %s is mapped to both %q and %q", norm, prev, name))
			}
			owner[norm] = name
		}
	}
	return nil
}

func validateStyle(field string, style DisambiguatorStyle) error {
	switch style {
	case DisambiguatorPadded, DisambiguatorPlain:
		return nil
	default:
		return newConfigError(field, fmt.Errorf("invalid style %q, must be one of: padded, plain", style))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
