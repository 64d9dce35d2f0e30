//go:build !windows

package executor

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/tidyspace/internal/models"
)

func exdevRename(oldpath, newpath string) error {
	return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
}

func TestMoveAcrossDevices(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "photo.jpg")
	dest := filepath.Join(root, "Images", "photo.jpg")
	writeFile(t, src, "jpeg bytes")
	require.NoError(t, os.Chmod(src, 0600))
	mtime := time.Date(2023, 6, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	e := New(WithHistory(&memoryStore{}))
	e.rename = exdevRename

	rec := e.Execute(src, models.Move("Images", "Images", "r"), dest)
	require.True(t, rec.Success, rec.ErrorMessage())

	assert.NoFileExists(t, src)
	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))
}

func TestMoveAcrossDevicesPartial(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "photo.jpg")
	dest := filepath.Join(root, "Images", "photo.jpg")
	writeFile(t, src, "jpeg bytes")

	store := &memoryStore{}
	e := New(WithHistory(store))
	e.rename = exdevRename
	e.remove = func(string) error { return errors.New("read-only source") }

	rec := e.Execute(src, models.Move("Images", "Images", "r"), dest)

	assert.False(t, rec.Success)
	assert.True(t, rec.Partial)
	assert.Equal(t, dest, rec.DestinationPath())
	assert.Equal(t, "copied to "+dest+" but could not remove source: read-only source", rec.ErrorMessage())
	assert.FileExists(t, src)
	assert.FileExists(t, dest)

	records, _ := store.Records()
	require.Len(t, records, 1)
	assert.True(t, records[0].Partial)
}

func TestIsCrossDevice(t *testing.T) {
	assert.True(t, isCrossDevice(exdevRename("a", "b")))
	assert.False(t, isCrossDevice(&os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.ENOENT}))
}
