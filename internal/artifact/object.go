package artifact

import (
	"path"
	"time"

	"github.com/raoulx24/backup-rotator/internal/objectstore"
)

// FromObject builds an artifact from a bucket listing entry. When names is
// set the key's base name is parsed, otherwise LastModified is used.
func FromObject(meta objectstore.ObjectMeta, names *PathFactory) (Artifact, error) {
	var ts time.Time
	if names != nil {
		t, err := names.parse(path.Base(meta.Key))
		if err != nil {
			return Artifact{}, err
		}
		ts = t
	} else {
		ts = time.UnixMilli(meta.LastModified)
	}
	a := New(meta.Key, ts)
	a.Size = meta.Size
	return a, nil
}
