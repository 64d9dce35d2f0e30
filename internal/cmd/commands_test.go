package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/tidyspace/internal/config"
	"github.com/harrison/tidyspace/internal/models"
)

func TestOrganize_DryRunJSON(t *testing.T) {
	dataHome, _ := setupEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "report.pdf"), "%PDF-1.4\n")

	stdout, _, err := execute(t, "organize", dir, "--dry-run", "--json")
	require.NoError(t, err)

	var report runReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.True(t, report.DryRun)
	assert.Equal(t, "organize", report.Mode)
	assert.Equal(t, 1, report.Moved)
	require.Len(t, report.Records, 1)
	assert.Equal(t, filepath.Join(dir, "Documents", "report.pdf"), report.Records[0].DestinationPath())

	assert.FileExists(t, filepath.Join(dir, "report.pdf"))
	assert.NoDirExists(t, filepath.Join(dir, "Documents"))
	assert.FileExists(t, filepath.Join(dataHome, "history-organize.json"))
	assert.FileExists(t, filepath.Join(dataHome, "logs", "latest.log"))
}

func TestOrganize_ThenHistory(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "song.mp3"), "ID3")
	writeFile(t, filepath.Join(dir, "notes.md"), "# Notes\n")

	stdout, _, err := execute(t, "organize", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Moved:     2")
	assert.FileExists(t, filepath.Join(dir, "Audio", "song.mp3"))

	stdout, _, err = execute(t, "history", "--json", "--limit", "1")
	require.NoError(t, err)
	var records []models.ActionRecord
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join(dir, "song.mp3"), records[0].Source)

	stdout, _, err = execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "WHEN")
	assert.Contains(t, stdout, filepath.Join(dir, "notes.md"))
}

func TestOrganize_InvalidMode(t *testing.T) {
	setupEnv(t)
	_, _, err := execute(t, "organize", t.TempDir(), "--mode", "shuffle")
	require.Error(t, err)
	assert.True(t, config.IsConfigError(err))
	assert.Contains(t, err.Error(), "mode")
}

func TestOrganize_CleanupModeWithSQLite(t *testing.T) {
	dataHome, _ := setupEnv(t)
	dir := t.TempDir()
	writeAged(t, filepath.Join(dir, "old_installer.dmg"), "dmg", 45)

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, cfgPath, "[history]\nbackend = \"sqlite\"\n")

	_, _, err := execute(t, "organize", dir, "--mode", "cleanup", "--config", cfgPath)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "old_installer.dmg"))
	assert.FileExists(t, filepath.Join(dataHome, "history-cleanup.db"))

	stdout, _, err := execute(t, "history", "--json", "--mode", "cleanup", "--config", cfgPath)
	require.NoError(t, err)
	var records []models.ActionRecord
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 1)
	assert.Equal(t, models.DispositionDelete, records[0].Action)
	assert.Equal(t, "Old installer (45 days)", records[0].Reason)
}

func TestClean_PreviewThenExecute(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()
	installer := filepath.Join(dir, "old_installer.dmg")
	writeAged(t, installer, "dmg", 45)

	stdout, _, err := execute(t, "clean", dir, "--json")
	require.NoError(t, err)
	var report runReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Deleted)
	assert.FileExists(t, installer)

	_, _, err = execute(t, "clean", dir, "--execute")
	require.NoError(t, err)
	assert.NoFileExists(t, installer)

	writeFile(t, filepath.Join(dir, "notes.txt"), "notes")
	_, _, err = execute(t, "organize", dir)
	require.NoError(t, err)

	stdout, _, err = execute(t, "history", "--json", "--mode", "cleanup")
	require.NoError(t, err)
	var records []models.ActionRecord
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 2, "preview and executed delete, untouched by the organize run")
	assert.Equal(t, installer, records[1].Source)
	assert.False(t, records[1].DryRun)

	stdout, _, err = execute(t, "history", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join(dir, "notes.txt"), records[0].Source)
}

func TestClean_DefaultTargets(t *testing.T) {
	_, userHome := setupEnv(t)
	downloads := filepath.Join(userHome, "Downloads")
	writeAged(t, filepath.Join(downloads, "setup.exe"), "MZ", 60)

	stdout, stderr, err := execute(t, "clean", "--json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "not a directory", "missing ~/Desktop is reported")

	var report runReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "cleanup", report.Mode)
	require.Len(t, report.Records, 1)
	assert.Equal(t, filepath.Join(downloads, "setup.exe"), report.Records[0].Source)
}

func TestAnalyze(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.pdf"), "%PDF-1.4\n")
	writeFile(t, filepath.Join(dir, "b.pdf"), "%PDF-1.4\n")

	stdout, _, err := execute(t, "analyze", dir)
	require.NoError(t, err)

	var findings models.Findings
	require.NoError(t, json.Unmarshal([]byte(stdout), &findings))
	assert.Equal(t, 2, findings.TotalFiles)
	assert.Equal(t, 2, findings.ByCategory["Documents"].Count)
	require.Len(t, findings.PotentialDuplicates, 1)
	assert.FileExists(t, filepath.Join(dir, "a.pdf"))

	stdout, _, err = execute(t, "analyze", dir, "--text")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Analysis of "+dir)

	_, _, err = execute(t, "analyze")
	assert.Error(t, err)
}

func TestHistory_EmptyAndBadLimit(t *testing.T) {
	setupEnv(t)

	stdout, _, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No history recorded yet.")

	stdout, _, err = execute(t, "history", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", stdout)

	_, _, err = execute(t, "history", "--limit", "0")
	assert.Error(t, err)
}

func TestHistory_CorruptFileIsMovedAside(t *testing.T) {
	dataHome, _ := setupEnv(t)
	writeFile(t, filepath.Join(dataHome, "history-organize.json"), "{not json")

	stdout, stderr, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No history recorded yet.")
	assert.Contains(t, stderr, "moved aside")

	matches, _ := filepath.Glob(filepath.Join(dataHome, "history-organize.json.corrupt-*"))
	assert.Len(t, matches, 1)
}

func TestValidate(t *testing.T) {
	dataHome, userHome := setupEnv(t)

	t.Run("defaults", func(t *testing.T) {
		stdout, _, err := execute(t, "validate")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Configuration is valid.")
		assert.Contains(t, stdout, "mode:          organize")
		assert.Contains(t, stdout, filepath.Join(dataHome, "history-organize.json"))
		assert.Contains(t, stdout, "Documents: .pdf")
	})

	t.Run("home directory config", func(t *testing.T) {
		path := filepath.Join(userHome, ".tidyspace", "config.yaml")
		writeFile(t, path, "mode: cleanup\ncleanup:\n  thresholds:\n    installer: 14\n")
		defer os.Remove(path)

		stdout, _, err := execute(t, "validate")
		require.NoError(t, err)
		assert.Contains(t, stdout, "mode:          cleanup")
		assert.Contains(t, stdout, "installer 14d")
	})

	t.Run("explicit invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		writeFile(t, path, "history:\n  retention: -3\n")

		_, _, err := execute(t, "validate", "--config", path)
		require.Error(t, err)
		assert.True(t, config.IsConfigError(err))
		assert.Contains(t, err.Error(), "history.retention")
	})

	t.Run("log level flag", func(t *testing.T) {
		stdout, _, err := execute(t, "validate", "--log-level", "DEBUG")
		require.NoError(t, err)
		assert.Contains(t, stdout, "log level:     debug")
	})
}
