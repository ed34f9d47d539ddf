package watcher

import (
	"time"

	"github.com/raoulx24/backup-rotator/internal/config"
)

// UpdateConfig updates watcher fields atomically for hot-reload. A mode
// change takes effect on the next Start.
func (w *Watcher) UpdateConfig(cfg config.SourceConfig) {
	w.mu.Lock()
	defer w.mu.Unlock()

	targetChanged := cfg.Path != w.dir || cfg.Pattern != w.pattern

	w.dir = cfg.Path
	w.pattern = cfg.Pattern
	w.interval = cfg.Watch.PollInterval
	w.mode = cfg.Watch.Mode
	w.debounce = cfg.Watch.DebounceWindow
	w.stability = cfg.Watch.StabilityWindow

	if targetChanged {
		w.lastModTime = time.Time{}
	}
}
