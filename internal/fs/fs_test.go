package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestOSFSGlob(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "pg_2.tar"))
	touch(t, filepath.Join(dir, "pg_1.tar"))
	touch(t, filepath.Join(dir, "notes.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "pg_dir.tar"), 0o755))

	got, err := New().Glob(dir, "pg_*.tar")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, filepath.Join(dir, "pg_1.tar"), got[0].Path)
	assert.Equal(t, filepath.Join(dir, "pg_2.tar"), got[1].Path)
	assert.EqualValues(t, 1, got[0].Size)
}

func TestGlobSkipsDotFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.tar"))
	touch(t, filepath.Join(dir, ".fsprobe_final"))

	got, err := New().Glob(dir, "*")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(dir, "a.tar"), got[0].Path)

	got, err = New().Glob(dir, ".*")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	m := NewMem()
	m.Add("/b/.partial", 1, time.Now())
	got, err = m.Glob("/b", "*")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOSFSGlobBadPattern(t *testing.T) {
	_, err := New().Glob(t.TempDir(), "[")
	assert.Error(t, err)
}

func TestOSFSRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a")
	touch(t, path)

	o := New()
	require.NoError(t, o.Remove(context.Background(), path))
	_, err := o.Stat(path)
	assert.True(t, IsNotExist(err))

	err = o.Remove(context.Background(), path)
	require.Error(t, err)
	assert.True(t, IsNotExist(err), "missing file is a permanent error: %v", err)
}

func TestRetryTransient(t *testing.T) {
	old := retryBase
	retryBase = time.Millisecond
	t.Cleanup(func() { retryBase = old })

	calls := 0
	err := retry(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return syscall.EBUSY
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryGivesUp(t *testing.T) {
	old := retryBase
	retryBase = time.Millisecond
	t.Cleanup(func() { retryBase = old })

	calls := 0
	err := retry(context.Background(), "op", func() error {
		calls++
		return syscall.EAGAIN
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, syscall.EAGAIN))
	assert.Equal(t, maxRetries, calls)
}

func TestRetryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := retry(ctx, "op", func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemFS(t *testing.T) {
	m := NewMem()
	now := time.Now()
	m.Add("/b/one", 1, now)
	m.Add("/b/two", 2, now)
	m.Add("/c/three", 3, now)

	got, err := m.Glob("/b", "*")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, m.Remove(context.Background(), "/b/one"))
	assert.False(t, m.Exists("/b/one"))
	assert.True(t, IsNotExist(m.Remove(context.Background(), "/b/one")))

	m.FailRemove("/b/two", syscall.EACCES)
	assert.ErrorIs(t, m.Remove(context.Background(), "/b/two"), syscall.EACCES)
}
