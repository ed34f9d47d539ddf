// Package executor applies plan actions to the store holding the backups.
//
// Two removal policies exist and an executor is bound to exactly one:
//
//   - idempotent: check that the backup exists, delete it if it does, and
//     treat an already missing backup as done.
//   - strict: delete unconditionally; a missing backup is an error.
package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raoulx24/backup-rotator/internal/plan"
)

// ErrInvalidPolicy is returned by ParsePolicy for unknown names.
var ErrInvalidPolicy = errors.New("invalid removal policy")

// ErrUnsupportedAction is returned for action kinds an executor cannot apply.
var ErrUnsupportedAction = errors.New("unsupported action")

// Policy decides how a Remove treats a backup that is already gone.
type Policy string

const (
	Idempotent Policy = "idempotent"
	Strict     Policy = "strict"
)

// ParsePolicy maps a config or flag value to a Policy. Empty means Idempotent.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Idempotent:
		return Idempotent, nil
	case Strict:
		return Strict, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidPolicy, s, Idempotent, Strict)
	}
}

// Executor applies one action.
type Executor interface {
	Execute(ctx context.Context, a plan.Action) error
}

// ActionError reports which action failed and why.
type ActionError struct {
	Action plan.Action
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action.Kind, e.Action.Artifact.Path, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
