package watcher

import (
	"context"
	"time"
)

// isStable reports whether path keeps the same size over the stability
// window. A zero window skips the check.
func (w *Watcher) isStable(ctx context.Context, path string) bool {
	w.mu.RLock()
	stability := w.stability
	w.mu.RUnlock()

	if stability <= 0 {
		return true
	}

	info1, err := w.fs.Stat(path)
	if err != nil {
		return false
	}

	t := time.NewTimer(stability)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
	}

	info2, err := w.fs.Stat(path)
	if err != nil {
		return false
	}

	return info1.Size == info2.Size && info1.MTime.Equal(info2.MTime)
}
