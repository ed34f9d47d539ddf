package artifact

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/raoulx24/backup-rotator/internal/fs"
)

// ErrTimestampParse is returned when a backup name does not match the format.
var ErrTimestampParse = errors.New("cannot parse timestamp")

// Factory builds an Artifact for a path.
type Factory interface {
	Create(ctx context.Context, path string) (Artifact, error)
}

// PathFactory reads the timestamp out of the file name using a strftime
// format such as "pg_%Y-%m-%d_%H-%M-%S.tar".
type PathFactory struct {
	format string
	names  *nameFormat
}

// NewPathFactory validates format and returns a factory for it.
func NewPathFactory(format string) (*PathFactory, error) {
	if format == "" {
		return nil, errors.New("empty timestamp format")
	}
	names, err := compileFormat(format)
	if err != nil {
		return nil, fmt.Errorf("unsupported timestamp format %q: %w", format, err)
	}
	return &PathFactory{format: format, names: names}, nil
}

// Format returns the strftime format the factory was built with.
func (f *PathFactory) Format() string {
	return f.format
}

// Create parses the base name of path. Formats without %z are read as UTC;
// formats with %z honour the offset and are normalized to UTC.
func (f *PathFactory) Create(_ context.Context, path string) (Artifact, error) {
	ts, err := f.parse(filepath.Base(path))
	if err != nil {
		return Artifact{}, err
	}
	return New(path, ts), nil
}

func (f *PathFactory) parse(name string) (time.Time, error) {
	ts, err := f.names.parse(name)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q with format %q: %v", ErrTimestampParse, name, f.format, err)
	}
	return ts.UTC(), nil
}

// FSFactory takes the timestamp from the file modification time.
type FSFactory struct {
	fs fs.FS
}

func NewFSFactory(filesystem fs.FS) *FSFactory {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &FSFactory{fs: filesystem}
}

func (f *FSFactory) Create(_ context.Context, path string) (Artifact, error) {
	info, err := f.fs.Stat(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("stat %s: %w", path, err)
	}
	a := New(path, info.MTime)
	a.Size = info.Size
	return a, nil
}

// Collect builds one artifact per path, in path order. The first failure
// aborts the whole collection.
func Collect(ctx context.Context, f Factory, paths []string) ([]Artifact, error) {
	out := make([]Artifact, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, err := f.Create(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
