package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeOrganize {
		t.Errorf("Mode = %q, want %q", cfg.Mode, ModeOrganize)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.DryRun {
		t.Errorf("DryRun = %v, want false", cfg.DryRun)
	}
	if cfg.History.Backend != HistoryBackendJSON {
		t.Errorf("History.Backend = %q, want %q", cfg.History.Backend, HistoryBackendJSON)
	}
	if cfg.Cleanup.Thresholds.Screenshot != 7 || cfg.Cleanup.Thresholds.Installer != 30 {
		t.Errorf("unexpected cleanup thresholds: %+v", cfg.Cleanup.Thresholds)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 500ms", cfg.Watch.Debounce)
	}

	require.NoError(t, cfg.Validate(), "default config must validate")
}

func TestRetentionCap(t *testing.T) {
	tests := []struct {
		name      string
		mode      Mode
		retention int
		want      int
	}{
		{"organize default", ModeOrganize, 0, DefaultOrganizeRetention},
		{"cleanup default", ModeCleanup, 0, DefaultCleanupRetention},
		{"override", ModeCleanup, 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Mode = tt.mode
			cfg.History.Retention = tt.retention
			assert.Equal(t, tt.want, cfg.RetentionCap())
		})
	}
}

func TestDisambiguatorPerMode(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DisambiguatorPadded, cfg.Disambiguator())

	cfg.Mode = ModeCleanup
	assert.Equal(t, DisambiguatorPlain, cfg.Disambiguator())
}

func TestExtensionTable(t *testing.T) {
	table := ExtensionTable(map[string][]string{
		"Docs":   {"PDF", ".Txt"},
		"Images": {".png"},
	})

	assert.Equal(t, "Docs", table[".pdf"])
	assert.Equal(t, "Docs", table[".txt"])
	assert.Equal(t, "Images", table[".png"])
	assert.Len(t, table, 3)
}

// TestLoadConfigFileNotExists tests fallback to defaults when file doesn't exist
func TestLoadConfigFileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() should not error on missing file, got: %v", err)
	}
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "config.yaml",
			content: `mode: cleanup
dry_run: true
log_level: debug
history:
  retention: 50
cleanup:
  thresholds:
    installer: 14
watch:
  debounce: 2s
`,
		},
		{
			name: "toml",
			file: "config.toml",
			content: `mode = "cleanup"
dry_run = true
log_level = "debug"

[history]
retention = 50

[cleanup.thresholds]
installer = 14

[watch]
debounce = "2s"
`,
		},
		{
			name: "json",
			file: "config.json",
			content: `{"mode": "cleanup", "dry_run": true, "log_level": "debug",
 "history": {"retention": 50},
 "cleanup": {"thresholds": {"installer": 14}},
 "watch": {"debounce": "2s"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := LoadConfig(path)
			require.NoError(t, err)

			assert.Equal(t, ModeCleanup, cfg.Mode)
			assert.True(t, cfg.DryRun)
			assert.Equal(t, "debug", cfg.LogLevel)
			assert.Equal(t, 50, cfg.History.Retention)
			assert.Equal(t, 14.0, cfg.Cleanup.Thresholds.Installer)
			// Unset thresholds keep their defaults
			assert.Equal(t, 60.0, cfg.Cleanup.Thresholds.Archive)
			assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
		})
	}
}

func TestLoadConfigEmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("# nothing configured yet\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigMalformed(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		field   string
	}{
		{"invalid yaml", "config.yaml", "mode: [unclosed\n", ""},
		{"unknown yaml key", "config.yaml", "colour: blue\n", ""},
		{"unknown toml key", "config.toml", "colour = \"blue\"\n", ""},
		{"unknown json key", "config.json", `{"colour": "blue"}`, ""},
		{"bad debounce", "config.yaml", "watch:\n  debounce: soon\n", "watch.debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := LoadConfig(path)
			require.Error(t, err)
			assert.Nil(t, cfg)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected *ConfigError, got %T", err)
			assert.Equal(t, path, cfgErr.Path)
			if tt.field != "" {
				assert.Equal(t, tt.field, cfgErr.Field)
			}
		})
	}
}

func TestLoadConfigFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".tidyspace"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tidyspace", "config.yaml"), []byte("log_level: warn\n"), 0644))

	cfg, err := LoadConfigFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestOverlayCategories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `organize:
  categories:
    Books: [".pdf", ".epub"]
    Fonts: []
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	cats := cfg.Organize.Categories
	assert.Equal(t, []string{".pdf", ".epub"}, cats["Books"])
	assert.NotContains(t, cats["Documents"], ".pdf", "claimed extension must leave its default category")
	assert.NotContains(t, cats["Ebooks"], ".epub")
	assert.Contains(t, cats["Documents"], ".docx")
	_, hasFonts := cats["Fonts"]
	assert.False(t, hasFonts, "empty overlay removes the category")

	require.NoError(t, cfg.Validate())
}

func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()
	mode := ModeCleanup
	dryRun := true
	level := "trace"

	cfg.MergeWithFlags(&mode, &dryRun, &level, nil)

	assert.Equal(t, ModeCleanup, cfg.Mode)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.Equal(t, 0, cfg.History.Retention, "nil flag leaves value untouched")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad mode", func(c *Config) { c.Mode = "tidy" }, "mode"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad backend", func(c *Config) { c.History.Backend = "redis" }, "history.backend"},
		{"negative retention", func(c *Config) { c.History.Retention = -1 }, "history.retention"},
		{"bad glob", func(c *Config) { c.Ignore.Globs = []string{"[abc"} }, "ignore.globs"},
		{"duplicate extension", func(c *Config) {
			c.Organize.Categories["Docs2"] = []string{".pdf"}
		}, "organize.categories"},
		{"category with separator", func(c *Config) {
			c.Cleanup.Categories["a/b"] = []string{".abc"}
		}, "cleanup.categories"},
		{"bad disambiguator", func(c *Config) { c.Cleanup.Disambiguator = "roman" }, "cleanup.disambiguator"},
		{"negative threshold", func(c *Config) { c.Cleanup.Thresholds.Image = -3 }, "cleanup.thresholds.image"},
		{"empty destination", func(c *Config) { c.Cleanup.Destinations.Old = " " }, "cleanup.destinations.old"},
		{"zero max chars", func(c *Config) { c.Extract.MaxChars = 0 }, "extract.max_chars"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, "watch.debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, IsConfigError(err))

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.True(t, strings.HasPrefix(err.Error(), "config: "+tt.field))
		})
	}
}

func TestGetHome(t *testing.T) {
	t.Run("explicit home", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")
		cfg := DefaultConfig()
		cfg.Home = dir

		home, err := cfg.GetHome()
		require.NoError(t, err)
		assert.Equal(t, dir, home)
		assert.DirExists(t, home)
	})

	t.Run("env var", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "envhome")
		t.Setenv("TIDYSPACE_HOME", dir)

		home, err := DefaultConfig().GetHome()
		require.NoError(t, err)
		assert.Equal(t, dir, home)
	})

	t.Run("xdg data home", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("TIDYSPACE_HOME", "")
		t.Setenv("XDG_DATA_HOME", dir)

		home, err := DefaultConfig().GetHome()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "tidyspace"), home)
	})
}

func TestGetHistoryPath(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Home = dir

	path, err := cfg.GetHistoryPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "history-organize.json"), path)

	cfg.Mode = ModeCleanup
	path, err = cfg.GetHistoryPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "history-cleanup.json"), path)

	cfg.History.Backend = HistoryBackendSQLite
	path, err = cfg.GetHistoryPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "history-cleanup.db"), path)

	cfg.History.Path = filepath.Join(dir, "custom", "actions.db")
	path, err = cfg.GetHistoryPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom", "actions-cleanup.db"), path)

	lockDir, err := cfg.GetLockDir()
	require.NoError(t, err)
	assert.DirExists(t, lockDir)
}

func TestExpandPath(t *testing.T) {
	userHome, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("TIDY_TEST_DIR", "/srv/files")

	tests := []struct {
		in   string
		want string
	}{
		{"~", userHome},
		{"~/Downloads", filepath.Join(userHome, "Downloads")},
		{"$TIDY_TEST_DIR/inbox", "/srv/files/inbox"},
		{"/abs/path", "/abs/path"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
