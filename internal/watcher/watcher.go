// Package watcher monitors a backup directory and asks the worker for a
// retention run when a new backup lands.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/fs"
	"github.com/raoulx24/backup-rotator/internal/fsprobe"
	"github.com/raoulx24/backup-rotator/internal/logging"
	"github.com/raoulx24/backup-rotator/internal/mailbox"
	"github.com/raoulx24/backup-rotator/internal/worker"
)

// Watcher observes the newest matching file and enqueues a job whenever a
// newer one appears and has stopped growing.
type Watcher struct {
	mu sync.RWMutex

	dir       string
	pattern   string
	interval  time.Duration
	mode      string
	debounce  time.Duration
	stability time.Duration

	fs  fs.FS
	log logging.Logger

	lastModTime time.Time

	mb *mailbox.Mailbox[worker.Job]
}

// New creates a watcher from the source configuration.
func New(cfg config.SourceConfig, filesystem fs.FS, log logging.Logger, mb *mailbox.Mailbox[worker.Job]) *Watcher {
	if filesystem == nil {
		filesystem = fs.New()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Watcher{
		dir:       cfg.Path,
		pattern:   cfg.Pattern,
		interval:  cfg.Watch.PollInterval,
		mode:      cfg.Watch.Mode,
		debounce:  cfg.Watch.DebounceWindow,
		stability: cfg.Watch.StabilityWindow,
		fs:        filesystem,
		log:       log.With("component", "watcher"),
		mb:        mb,
	}
}

// Start chooses the watching strategy based on config and blocks until ctx
// is done. The current newest file is checked once up front.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.RLock()
	mode := w.mode
	dir := w.dir
	w.mu.RUnlock()

	switch mode {
	case "", "off":
		w.log.Info("watching disabled")
		return nil

	case "fsnotify":
		w.detect(ctx)
		return w.StartFsNotify(ctx)

	case "poll":
		w.detect(ctx)
		w.StartPolling(ctx)
		return nil

	case "auto":
		w.detect(ctx)
		res := fsprobe.Probe(dir, 0)
		if res.Supported {
			w.log.Info("using fsnotify", "dir", dir)
			return w.StartFsNotify(ctx)
		}
		w.log.Warn("fsnotify disabled, polling", "reason", res.Reason)
		w.StartPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}
