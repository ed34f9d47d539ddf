package watcher

import (
	"github.com/raoulx24/backup-rotator/internal/fs"
)

// scan returns the matching file with the latest modification time.
// ok is false when nothing matches or the directory cannot be read.
func (w *Watcher) scan(dir, pattern string) (newest fs.FileInfo, ok bool) {
	infos, err := w.fs.Glob(dir, pattern)
	if err != nil {
		w.log.Error("scan failed", "dir", dir, "error", err)
		return fs.FileInfo{}, false
	}

	for _, fi := range infos {
		if !ok || fi.MTime.After(newest.MTime) {
			newest, ok = fi, true
		}
	}
	return newest, ok
}
