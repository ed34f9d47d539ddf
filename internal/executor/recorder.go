package executor

import (
	"context"
	"slices"
	"sync"

	"github.com/raoulx24/backup-rotator/internal/plan"
)

// Recorder is an Executor that only records what it was asked to do.
// It backs dry runs and tests.
type Recorder struct {
	mu       sync.Mutex
	executed []plan.Action
	fail     map[string]error
}

func NewRecorder() *Recorder {
	return &Recorder{fail: map[string]error{}}
}

// FailOn makes Execute return err for the artifact at path.
func (r *Recorder) FailOn(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[path] = err
}

func (r *Recorder) Execute(_ context.Context, a plan.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.fail[a.Artifact.Path]; ok {
		return &ActionError{Action: a, Err: err}
	}
	r.executed = append(r.executed, a)
	return nil
}

// Executed returns the successfully applied actions in order.
func (r *Recorder) Executed() []plan.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.executed)
}
