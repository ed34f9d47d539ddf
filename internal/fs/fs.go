// Package fs defines the filesystem abstraction used by backup-rotator.
// It provides the FS interface and the FileInfo type shared across the system.
package fs

import (
	"context"
	"path/filepath"
	"strings"
	"time"
)

type FileInfo struct {
	Path  string
	Size  int64
	MTime time.Time
}

type FS interface {
	Stat(path string) (FileInfo, error)
	// Glob lists regular files in dir whose base name matches pattern.
	// Dot files only match a pattern that starts with a dot.
	Glob(dir, pattern string) ([]FileInfo, error)
	Remove(ctx context.Context, path string) error
}

func matches(pattern, name string) bool {
	if strings.HasPrefix(name, ".") && !strings.HasPrefix(pattern, ".") {
		return false
	}
	ok, _ := filepath.Match(pattern, name)
	return ok
}
