// Package plan turns the difference between the backups on disk and the
// backups worth keeping into an ordered list of actions.
package plan

import (
	"fmt"

	"github.com/raoulx24/backup-rotator/internal/artifact"
)

// Kind is the operation an Action performs.
type Kind int

const (
	// Remove deletes the artifact from its store.
	Remove Kind = iota
)

func (k Kind) String() string {
	switch k {
	case Remove:
		return "remove"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Action is one operation over one artifact.
type Action struct {
	Kind     Kind
	Artifact artifact.Artifact
}

// NewRemove returns a Remove action for a.
func NewRemove(a artifact.Artifact) Action {
	return Action{Kind: Remove, Artifact: a}
}

func (a Action) String() string {
	return fmt.Sprintf("%s %s", a.Kind, a.Artifact.Path)
}
