package watcher

import (
	"github.com/raoulx24/backup-rotator/internal/worker"
)

// enqueue hands a run to the worker. A pending job is replaced, so a burst
// of new backups still yields a single run.
func (w *Watcher) enqueue(path string) {
	w.mb.Put(worker.NewJob(worker.TriggerWatch))
	w.log.Info("new backup detected", "path", path)
}
