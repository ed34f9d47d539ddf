// Package source lists the backups a rotation run works on.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/raoulx24/backup-rotator/internal/artifact"
	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/fs"
	"github.com/raoulx24/backup-rotator/internal/objectstore"
)

// Source produces the full current list of backups.
type Source interface {
	Artifacts(ctx context.Context) ([]artifact.Artifact, error)
}

// Paths is a fixed list of files, as given on the command line.
type Paths struct {
	paths   []string
	factory artifact.Factory
}

func NewPaths(paths []string, factory artifact.Factory) *Paths {
	return &Paths{paths: paths, factory: factory}
}

func (p *Paths) Artifacts(ctx context.Context) ([]artifact.Artifact, error) {
	return artifact.Collect(ctx, p.factory, p.paths)
}

// Dir lists a directory on every call, so it sees files created or removed
// between runs.
type Dir struct {
	fs      fs.FS
	dir     string
	pattern string
	factory artifact.Factory
}

func NewDir(filesystem fs.FS, dir, pattern string, factory artifact.Factory) *Dir {
	return &Dir{fs: filesystem, dir: dir, pattern: pattern, factory: factory}
}

func (d *Dir) Artifacts(ctx context.Context) ([]artifact.Artifact, error) {
	infos, err := d.fs.Glob(d.dir, d.pattern)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", d.dir, err)
	}
	paths := make([]string, len(infos))
	for i, fi := range infos {
		paths[i] = fi.Path
	}
	return artifact.Collect(ctx, d.factory, paths)
}

// Objects lists keys under a bucket prefix.
type Objects struct {
	store  objectstore.Store
	prefix string
	names  *artifact.PathFactory
}

// NewObjects reads timestamps from key names when names is set, otherwise
// from LastModified.
func NewObjects(store objectstore.Store, prefix string, names *artifact.PathFactory) *Objects {
	return &Objects{store: store, prefix: prefix, names: names}
}

func (o *Objects) Artifacts(ctx context.Context) ([]artifact.Artifact, error) {
	objs, err := o.store.List(ctx, o.prefix)
	if err != nil {
		return nil, fmt.Errorf("listing %q: %w", o.prefix, err)
	}
	out := make([]artifact.Artifact, 0, len(objs))
	for _, meta := range objs {
		a, err := artifact.FromObject(meta, o.names)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Factory picks the artifact factory for a strftime format: names when
// format is set, modification times otherwise.
func Factory(format string, filesystem fs.FS) (artifact.Factory, error) {
	if format == "" {
		return artifact.NewFSFactory(filesystem), nil
	}
	return artifact.NewPathFactory(format)
}

// FromConfig builds the configured source. store is only used for kind s3
// and must be non-nil then.
func FromConfig(cfg config.SourceConfig, filesystem fs.FS, store objectstore.Store) (Source, error) {
	switch cfg.Kind {
	case config.SourceDir:
		f, err := Factory(cfg.Format, filesystem)
		if err != nil {
			return nil, err
		}
		return NewDir(filesystem, cfg.Path, cfg.Pattern, f), nil

	case config.SourceS3:
		if store == nil {
			return nil, errors.New("s3 source needs an object store")
		}
		var names *artifact.PathFactory
		if cfg.Format != "" {
			pf, err := artifact.NewPathFactory(cfg.Format)
			if err != nil {
				return nil, err
			}
			names = pf
		}
		return NewObjects(store, cfg.S3.Prefix, names), nil

	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
