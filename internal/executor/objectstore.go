package executor

import (
	"context"
	"errors"

	"github.com/raoulx24/backup-rotator/internal/logging"
	"github.com/raoulx24/backup-rotator/internal/objectstore"
	"github.com/raoulx24/backup-rotator/internal/plan"
)

// ObjectStore removes backups from a bucket. Artifact paths are object keys.
type ObjectStore struct {
	store  objectstore.Store
	policy Policy
	log    logging.Logger
}

func NewObjectStore(store objectstore.Store, policy Policy, log logging.Logger) *ObjectStore {
	if log == nil {
		log = logging.Nop()
	}
	return &ObjectStore{store: store, policy: policy, log: log}
}

func (e *ObjectStore) Policy() Policy {
	return e.policy
}

// Execute checks the key first under both policies, since an S3 delete of a
// missing key succeeds silently and strict mode must still see it.
func (e *ObjectStore) Execute(ctx context.Context, a plan.Action) error {
	if a.Kind != plan.Remove {
		return &ActionError{Action: a, Err: ErrUnsupportedAction}
	}

	key := a.Artifact.Path
	if _, err := e.store.Head(ctx, key); err != nil {
		if errors.Is(err, objectstore.ErrNotFound) && e.policy == Idempotent {
			e.log.Debug("backup already gone", "key", key)
			return nil
		}
		return &ActionError{Action: a, Err: err}
	}

	if err := e.store.Delete(ctx, key); err != nil {
		return &ActionError{Action: a, Err: err}
	}
	return nil
}
