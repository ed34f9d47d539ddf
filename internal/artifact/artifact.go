// Package artifact describes dated backup files and how they are built from
// paths, filesystem metadata or object listings.
package artifact

import (
	"fmt"
	"sort"
	"time"
)

// Artifact is a single backup. Its identity is Path alone; two artifacts
// with the same Path are the same backup whatever their timestamps.
type Artifact struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// New returns an artifact with its timestamp normalized to UTC.
func New(path string, ts time.Time) Artifact {
	return Artifact{Path: path, Timestamp: ts.UTC()}
}

// ID returns the identity used for set membership.
func (a Artifact) ID() string {
	return a.Path
}

// Date implements rotation.Dated.
func (a Artifact) Date() time.Time {
	return a.Timestamp
}

func (a Artifact) String() string {
	return fmt.Sprintf("%s (%s)", a.Path, a.Timestamp.Format(time.RFC3339))
}

// SortByDate orders items oldest first. Equal timestamps keep their input order.
func SortByDate(items []Artifact) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.Before(items[j].Timestamp)
	})
}
