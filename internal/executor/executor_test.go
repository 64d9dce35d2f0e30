package executor

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/tidyspace/internal/models"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// memoryStore is an in-memory history.Store
type memoryStore struct {
	mu      sync.Mutex
	records []models.ActionRecord
	err     error
}

func (m *memoryStore) Append(rec models.ActionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryStore) Records() ([]models.ActionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ActionRecord(nil), m.records...), nil
}

func (m *memoryStore) Recent(n int) ([]models.ActionRecord, error) { return m.Records() }
func (m *memoryStore) Handled(string) (bool, error)               { return false, nil }
func (m *memoryStore) Close() error                               { return nil }

type captureLogger struct {
	warnings []string
}

func (c *captureLogger) LogWarn(message string) {
	c.warnings = append(c.warnings, message)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestExecuteMove(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "report.pdf")
	dest := filepath.Join(root, "Documents", "report.pdf")
	writeFile(t, src, "pdf bytes")

	store := &memoryStore{}
	e := New(WithHistory(store), WithRunID("run-42"), WithClock(fixedClock))

	rec := e.Execute(src, models.Move("Documents", "Documents", "extension .pdf"), dest)

	assert.True(t, rec.Success)
	assert.False(t, rec.DryRun)
	assert.Equal(t, models.DispositionMove, rec.Action)
	assert.Equal(t, src, rec.Source)
	assert.Equal(t, dest, rec.DestinationPath())
	assert.Equal(t, "Documents", rec.Category)
	assert.Equal(t, "run-42", rec.RunID)
	assert.Equal(t, fixedNow, rec.Timestamp)
	assert.NotEmpty(t, rec.ID)
	assert.Nil(t, rec.Error)

	assert.NoFileExists(t, src)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))

	records, _ := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, rec, records[0])
}

func TestExecuteDelete(t *testing.T) {
	src := filepath.Join(t.TempDir(), "old_installer.dmg")
	writeFile(t, src, "installer")

	store := &memoryStore{}
	rec := New(WithHistory(store)).Execute(src, models.Delete("installers", "Old installer (45 days)"), "")

	assert.True(t, rec.Success)
	assert.Equal(t, models.DispositionDelete, rec.Action)
	assert.Nil(t, rec.Destination)
	assert.NoFileExists(t, src)
	records, _ := store.Records()
	assert.Len(t, records, 1)
}

func TestExecuteKeep(t *testing.T) {
	src := filepath.Join(t.TempDir(), "notes.txt")
	writeFile(t, src, "keep me")

	store := &memoryStore{}
	rec := New(WithHistory(store)).Execute(src, models.Keep("other", "recent or no matching rule"), "")

	assert.True(t, rec.Success)
	assert.Equal(t, models.DispositionKeep, rec.Action)
	assert.FileExists(t, src)
	records, _ := store.Records()
	assert.Len(t, records, 1)
}

func TestExecuteDryRun(t *testing.T) {
	root := t.TempDir()
	moveSrc := filepath.Join(root, "a.pdf")
	delSrc := filepath.Join(root, "b.dmg")
	writeFile(t, moveSrc, "a")
	writeFile(t, delSrc, "b")

	store := &memoryStore{}
	e := New(WithHistory(store), WithDryRun(true))
	assert.True(t, e.DryRun())

	moveRec := e.Execute(moveSrc, models.Move("Documents", "Documents", "r"), filepath.Join(root, "Documents", "a.pdf"))
	delRec := e.Execute(delSrc, models.Delete("installers", "r"), "")

	for _, rec := range []models.ActionRecord{moveRec, delRec} {
		assert.True(t, rec.Success)
		assert.True(t, rec.DryRun)
	}
	assert.Equal(t, filepath.Join(root, "Documents", "a.pdf"), moveRec.DestinationPath())

	assert.FileExists(t, moveSrc)
	assert.FileExists(t, delSrc)
	assert.NoDirExists(t, filepath.Join(root, "Documents"))

	records, _ := store.Records()
	assert.Len(t, records, 2)
}

func TestExecuteFailures(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name     string
		setup    func() (string, models.Decision, string)
		contains string
	}{
		{
			name: "missing source",
			setup: func() (string, models.Decision, string) {
				return filepath.Join(root, "gone.pdf"), models.Move("Documents", "Documents", "r"), filepath.Join(root, "Documents", "gone.pdf")
			},
			contains: "move ",
		},
		{
			name: "destination exists",
			setup: func() (string, models.Decision, string) {
				src := filepath.Join(root, "dup.pdf")
				dest := filepath.Join(root, "Documents", "dup.pdf")
				writeFile(t, src, "new")
				writeFile(t, dest, "old")
				return src, models.Move("Documents", "Documents", "r"), dest
			},
			contains: "file already exists",
		},
		{
			name: "delete missing file",
			setup: func() (string, models.Decision, string) {
				return filepath.Join(root, "nothing.dmg"), models.Delete("installers", "r"), ""
			},
			contains: "delete ",
		},
		{
			name: "invalid decision",
			setup: func() (string, models.Decision, string) {
				return filepath.Join(root, "x"), models.Decision{Disposition: models.DispositionMove}, ""
			},
			contains: "invalid decision",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStore{}
			src, d, dest := tt.setup()

			rec := New(WithHistory(store)).Execute(src, d, dest)

			assert.False(t, rec.Success)
			require.NotNil(t, rec.Error)
			assert.Contains(t, *rec.Error, tt.contains)
			records, _ := store.Records()
			assert.Len(t, records, 1, "failures are recorded exactly once")
		})
	}

	t.Run("existing destination is untouched", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(root, "Documents", "dup.pdf"))
		require.NoError(t, err)
		assert.Equal(t, "old", string(data))
	})
}

func TestHistoryFailureIsLoggedNotPropagated(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, src, "a")

	logger := &captureLogger{}
	store := &memoryStore{err: errors.New("disk full")}
	rec := New(WithHistory(store), WithLogger(logger)).Execute(src, models.Delete("documents", "r"), "")

	assert.True(t, rec.Success, "the action itself succeeded")
	require.Len(t, logger.warnings, 1)
	assert.Contains(t, logger.warnings[0], "disk full")
}

func TestRecordIsNotPersisted(t *testing.T) {
	store := &memoryStore{}
	e := New(WithHistory(store), WithDryRun(true), WithClock(fixedClock))

	rec := e.Record("/x/a.pdf", models.Keep("Documents", "already in Documents/"))
	assert.True(t, rec.Success)
	assert.True(t, rec.DryRun)
	assert.Equal(t, models.DispositionKeep, rec.Action)
	assert.Equal(t, "already in Documents/", rec.Reason)

	records, _ := store.Records()
	assert.Empty(t, records)
}

func TestReject(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.pdf")
	writeFile(t, src, "pdf")

	store := &memoryStore{}
	e := New(WithHistory(store), WithClock(fixedClock))

	rec := e.Reject(src, models.Move("Documents", "Documents", "extension .pdf"), errors.New("no free name"))
	assert.False(t, rec.Success)
	assert.Equal(t, "no free name", rec.ErrorMessage())
	assert.FileExists(t, src)

	records, _ := store.Records()
	require.Len(t, records, 1)
	assert.Equal(t, rec.ID, records[0].ID)
}
