package filelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockUnlock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")
	lock := NewFileLock(lockPath)
	assert.Equal(t, lockPath, lock.Path())

	require.NoError(t, lock.Lock())
	require.NoError(t, lock.Unlock())
}

func TestTryLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	lock1 := NewFileLock(lockPath)
	acquired, err := lock1.TryLock()
	require.NoError(t, err)
	require.True(t, acquired)
	defer lock1.Unlock()

	lock2 := NewFileLock(lockPath)
	acquired, err = lock2.TryLock()
	require.NoError(t, err)
	assert.False(t, acquired, "second lock should not be acquired while first is held")
}

func TestSessionLockPath(t *testing.T) {
	lockDir := t.TempDir()

	a, err := SessionLockPath(lockDir, "/home/me/Downloads")
	require.NoError(t, err)
	b, err := SessionLockPath(lockDir, "/home/me/Downloads/")
	require.NoError(t, err)
	c, err := SessionLockPath(lockDir, "/home/me/Desktop")
	require.NoError(t, err)

	assert.Equal(t, a, b, "trailing separator must not change the lock")
	assert.NotEqual(t, a, c)
	assert.Equal(t, lockDir, filepath.Dir(a))
	assert.True(t, strings.HasSuffix(a, ".lock"))
}

func TestAcquireSession(t *testing.T) {
	lockDir := filepath.Join(t.TempDir(), "locks")
	root := t.TempDir()

	lock, err := AcquireSession(lockDir, root)
	require.NoError(t, err)

	_, err = AcquireSession(lockDir, root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocked))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "session lock must not touch the organized directory")

	require.NoError(t, lock.Unlock())

	again, err := AcquireSession(lockDir, root)
	require.NoError(t, err)
	require.NoError(t, again.Unlock())
}

func TestAtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	require.NoError(t, AtomicWrite(path, []byte("first")))
	require.NoError(t, AtomicWrite(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "temp file left behind: %s", e.Name())
	}
}

func TestConcurrentLockAndWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, LockAndWrite(path, []byte(fmt.Sprintf("writer-%02d", n))))
		}(i)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Regexp(t, `^writer-\d{2}$`, string(data), "file must hold exactly one complete write")
}
