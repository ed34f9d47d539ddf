package executor

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"

	"github.com/raoulx24/backup-rotator/internal/fs"
	"github.com/raoulx24/backup-rotator/internal/logging"
	"github.com/raoulx24/backup-rotator/internal/plan"
)

// FS removes backups from a local filesystem.
type FS struct {
	fs     fs.FS
	policy Policy
	log    logging.Logger
}

// NewFS returns a filesystem executor. A nil filesystem means the OS one.
func NewFS(filesystem fs.FS, policy Policy, log logging.Logger) *FS {
	if filesystem == nil {
		filesystem = fs.New()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &FS{fs: filesystem, policy: policy, log: log}
}

func (e *FS) Policy() Policy {
	return e.policy
}

func (e *FS) Execute(ctx context.Context, a plan.Action) error {
	if a.Kind != plan.Remove {
		return &ActionError{Action: a, Err: ErrUnsupportedAction}
	}

	path := a.Artifact.Path
	if e.policy == Idempotent {
		if _, err := e.fs.Stat(path); err != nil {
			if fs.IsNotExist(err) {
				e.log.Debug("backup already gone", "path", path)
				return nil
			}
			return &ActionError{Action: a, Err: fmt.Errorf("stat: %w", pathCause(err))}
		}
	}

	if err := e.fs.Remove(ctx, path); err != nil {
		if e.policy == Idempotent && fs.IsNotExist(err) {
			e.log.Debug("backup removed concurrently", "path", path)
			return nil
		}
		return &ActionError{Action: a, Err: pathCause(err)}
	}
	return nil
}

// pathCause drops the path from a filesystem error; ActionError already
// names it.
func pathCause(err error) error {
	var pe *iofs.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
