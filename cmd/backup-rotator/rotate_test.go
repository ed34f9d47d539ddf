package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pgFormat = "pg_%Y-%m-%d_%H-%M-%S.tar"

var origin = time.Date(2024, time.January, 1, 3, 0, 0, 0, time.UTC)

func pgName(n int) string {
	return origin.AddDate(0, 0, n).Format("pg_2006-01-02_15-04-05.tar")
}

// seedDir writes one backup per day for offsets 0..days-1.
func seedDir(t *testing.T, days int) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var files []string
	for n := 0; n < days; n++ {
		path := filepath.Join(dir, pgName(n))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		files = append(files, path)
	}
	return dir, files
}

func remaining(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRotateFiles(t *testing.T) {
	dir, files := seedDir(t, 34)

	args := append([]string{"rotate", "--format", pgFormat, "--daily", "7", "--weekly", "3", "--monthly", "1"}, files...)
	out, _, err := run(t, args...)
	require.NoError(t, err)

	want := []string{}
	for _, n := range []int{14, 21, 25, 26, 27, 28, 29, 30, 31, 32, 33} {
		want = append(want, pgName(n))
	}
	assert.Equal(t, want, remaining(t, dir))
	assert.Contains(t, out, "remove "+files[0])
	assert.Contains(t, out, "kept 11 of 34 (daily 7, weekly 3, monthly 1)")
}

func TestRotateDryRun(t *testing.T) {
	dir, files := seedDir(t, 34)

	args := append([]string{"rotate", "--format", pgFormat, "--daily", "7", "--weekly", "3", "--monthly", "1", "--dry-run"}, files...)
	out, _, err := run(t, args...)
	require.NoError(t, err)

	assert.Len(t, remaining(t, dir), 34)
	assert.Equal(t, 23, strings.Count(out, "would remove"))
}

func TestRotateNoFiles(t *testing.T) {
	out, _, err := run(t, "rotate")
	require.NoError(t, err)
	assert.Contains(t, out, "no backups given")
}

func TestRotateBadName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pg_latest.tar")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, _, err := run(t, "rotate", "--format", pgFormat, path)
	require.Error(t, err)
	assert.FileExists(t, path)
}

func TestRotateStrictMissingFile(t *testing.T) {
	_, files := seedDir(t, 10)
	require.NoError(t, os.Remove(files[1]))

	_, errOut, err := run(t, append([]string{"rotate", "--format", pgFormat, "--daily", "2", "--policy", "strict"}, files...)...)
	require.Error(t, err)
	assert.Contains(t, errOut, "failed")
	assert.Contains(t, errOut, files[1])
	assert.FileExists(t, files[3], "removals after the failure are not applied")
}

func TestRotateBadPolicy(t *testing.T) {
	_, files := seedDir(t, 1)
	_, _, err := run(t, append([]string{"rotate", "--policy", "yolo"}, files...)...)
	assert.Error(t, err)
}

func TestRotateWithConfig(t *testing.T) {
	dir, _ := seedDir(t, 34)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	cfg := fmt.Sprintf(`source:
  kind: dir
  path: %s
  pattern: "pg_*.tar"
  format: %q
retention:
  daily: 7
  weekly: 3
  monthly: 1
`, dir, pgFormat)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	out, _, err := run(t, "rotate", "--config", cfgPath)
	require.NoError(t, err)
	assert.Len(t, remaining(t, dir), 11)
	assert.Contains(t, out, "kept 11 of 34")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "backup-rotator "+Version)
}
