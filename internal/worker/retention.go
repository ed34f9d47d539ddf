package worker

import (
	"context"

	"github.com/raoulx24/backup-rotator/internal/artifact"
	"github.com/raoulx24/backup-rotator/internal/retention"
)

// Retention is the part of retention.Engine the worker drives.
type Retention interface {
	Apply(ctx context.Context, items []artifact.Artifact) (retention.Report, error)
}
