package watcher

import (
	"context"
)

// detect enqueues a job if a newer backup than the last one seen is present
// and stable. Removals never trigger a job.
func (w *Watcher) detect(ctx context.Context) {
	w.mu.RLock()
	dir := w.dir
	pattern := w.pattern
	last := w.lastModTime
	w.mu.RUnlock()

	newest, ok := w.scan(dir, pattern)
	if !ok || !newest.MTime.After(last) {
		return
	}

	if !w.isStable(ctx, newest.Path) {
		w.log.Debug("newest backup still changing", "path", newest.Path)
		return
	}

	// a concurrent detect may already have recorded a newer backup
	w.mu.Lock()
	if !newest.MTime.After(w.lastModTime) {
		w.mu.Unlock()
		return
	}
	w.lastModTime = newest.MTime
	w.mu.Unlock()

	w.enqueue(newest.Path)
}
