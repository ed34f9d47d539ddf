package main

import (
	"context"
	"fmt"

	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/executor"
	"github.com/raoulx24/backup-rotator/internal/fs"
	"github.com/raoulx24/backup-rotator/internal/logging"
	"github.com/raoulx24/backup-rotator/internal/objectstore"
	"github.com/raoulx24/backup-rotator/internal/objectstore/s3"
	"github.com/raoulx24/backup-rotator/internal/source"
)

// backend is where backups live: the local filesystem, or an object store
// for kind s3.
type backend struct {
	fs    fs.FS
	store objectstore.Store
}

func openBackend(ctx context.Context, cfg config.SourceConfig) (*backend, error) {
	b := &backend{fs: fs.New()}
	if cfg.Kind != config.SourceS3 {
		return b, nil
	}

	store, err := s3.New(ctx, cfg.S3)
	if err != nil {
		return nil, err
	}
	b.store = store
	return b, nil
}

func (b *backend) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}

// newExecutor returns the executor for policy, bound to the backend.
func (b *backend) newExecutor(policy string, log logging.Logger) (executor.Executor, error) {
	p, err := executor.ParsePolicy(policy)
	if err != nil {
		return nil, err
	}
	if b.store != nil {
		return executor.NewObjectStore(b.store, p, log), nil
	}
	return executor.NewFS(b.fs, p, log), nil
}

// newSource returns the configured source, or an explicit file list when
// files is not empty.
func (b *backend) newSource(cfg config.SourceConfig, files []string) (source.Source, error) {
	if len(files) > 0 {
		if b.store != nil {
			return nil, fmt.Errorf("file arguments cannot be used with an %s source", cfg.Kind)
		}
		f, err := source.Factory(cfg.Format, b.fs)
		if err != nil {
			return nil, err
		}
		return source.NewPaths(files, f), nil
	}
	return source.FromConfig(cfg, b.fs, b.store)
}
