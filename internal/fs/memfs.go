package fs

import (
	"context"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// MemFS is an in-memory FS used by tests and dry runs against fixtures.
type MemFS struct {
	mu    sync.Mutex
	files map[string]FileInfo
	fail  map[string]error
}

func NewMem() *MemFS {
	return &MemFS{
		files: map[string]FileInfo{},
		fail:  map[string]error{},
	}
}

// Add creates or replaces a file.
func (m *MemFS) Add(path string, size int64, mtime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(path)] = FileInfo{Path: path, Size: size, MTime: mtime}
}

// FailRemove makes every Remove of path return err.
func (m *MemFS) FailRemove(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[filepath.Clean(path)] = err
}

// Exists reports whether path is present.
func (m *MemFS) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[filepath.Clean(path)]
	return ok
}

func (m *MemFS) Stat(path string) (FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fi, ok := m.files[filepath.Clean(path)]
	if !ok {
		return FileInfo{}, &iofs.PathError{Op: "stat", Path: path, Err: iofs.ErrNotExist}
	}
	return fi, nil
}

func (m *MemFS) Glob(dir, pattern string) ([]FileInfo, error) {
	if pattern == "" {
		pattern = "*"
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	dir = filepath.Clean(dir)
	var out []FileInfo
	for p, fi := range m.files {
		if filepath.Dir(p) != dir {
			continue
		}
		if matches(pattern, filepath.Base(p)) {
			out = append(out, fi)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (m *MemFS) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := filepath.Clean(path)
	if err, ok := m.fail[key]; ok {
		return &iofs.PathError{Op: "remove", Path: path, Err: err}
	}
	if _, ok := m.files[key]; !ok {
		return &iofs.PathError{Op: "remove", Path: path, Err: iofs.ErrNotExist}
	}
	delete(m.files, key)
	return nil
}
