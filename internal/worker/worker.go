// Package worker runs retention for jobs taken from the mailbox.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/raoulx24/backup-rotator/internal/logging"
	"github.com/raoulx24/backup-rotator/internal/mailbox"
	"github.com/raoulx24/backup-rotator/internal/retention"
	"github.com/raoulx24/backup-rotator/internal/source"
)

// Worker lists the source and applies retention, one job at a time.
type Worker struct {
	mu        sync.RWMutex
	src       source.Source
	retention Retention
	log       logging.Logger
	mb        *mailbox.Mailbox[Job]

	// OnDone, when set, is called after every handled job.
	OnDone func(job Job, rep retention.Report, err error)
}

// New creates a worker reading jobs from mb.
func New(src source.Source, r Retention, mb *mailbox.Mailbox[Job], log logging.Logger) *Worker {
	if log == nil {
		log = logging.Nop()
	}
	log.Debug("creating worker")
	return &Worker{
		src:       src,
		retention: r,
		log:       log,
		mb:        mb,
	}
}

// Start runs the worker loop until ctx is canceled. A failing job is
// logged and the loop goes on with the next one.
func (w *Worker) Start(ctx context.Context) error {
	w.log.Info("starting worker")
	for {
		job, err := w.mb.Take(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				w.log.Info("worker stopped")
				return nil
			}
			return err
		}
		_, _ = w.Handle(ctx, job)
	}
}

// Handle lists the source and applies retention for one job.
func (w *Worker) Handle(ctx context.Context, job Job) (retention.Report, error) {
	w.mu.RLock()
	src := w.src
	w.mu.RUnlock()

	log := w.log.With("trigger", job.Trigger)
	log.Debug("handling job", "queued_at", job.At)

	rep, err := w.handle(ctx, src)
	if err != nil {
		log.Error("retention run failed", "error", err)
	} else {
		log.Info("retention run done",
			"run", rep.RunID.String(),
			"candidates", rep.Total,
			"kept", rep.Retained.Len(),
			"removed", len(rep.Removed),
			"dry_run", rep.DryRun)
	}

	if w.OnDone != nil {
		w.OnDone(job, rep, err)
	}
	return rep, err
}

func (w *Worker) handle(ctx context.Context, src source.Source) (retention.Report, error) {
	items, err := src.Artifacts(ctx)
	if err != nil {
		return retention.Report{}, fmt.Errorf("listing backups: %w", err)
	}
	return w.retention.Apply(ctx, items)
}

// UpdateSource swaps the source used by the next job.
func (w *Worker) UpdateSource(src source.Source) {
	w.log.Debug("entering Worker.UpdateSource()")
	w.mu.Lock()
	w.src = src
	w.mu.Unlock()
}
