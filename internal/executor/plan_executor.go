package executor

import (
	"context"
	"errors"

	"github.com/raoulx24/backup-rotator/internal/logging"
	"github.com/raoulx24/backup-rotator/internal/plan"
)

// Result lists the actions a PlanExecutor applied.
type Result struct {
	Executed []plan.Action
}

// PlanExecutor drains a plan through an Executor, in order, one action at a
// time. It never retries; the first failing action aborts the rest.
type PlanExecutor struct {
	exec Executor
	log  logging.Logger

	// OnAction, when set, is called after every attempted action.
	OnAction func(a plan.Action, err error)
}

func NewPlanExecutor(exec Executor, log logging.Logger) *PlanExecutor {
	if log == nil {
		log = logging.Nop()
	}
	return &PlanExecutor{exec: exec, log: log}
}

// Run consumes p. On failure the returned error is an *ActionError and the
// Result holds what was applied before it.
func (pe *PlanExecutor) Run(ctx context.Context, p *plan.Plan) (Result, error) {
	var res Result
	for a, ok := p.Next(); ok; a, ok = p.Next() {
		if err := ctx.Err(); err != nil {
			return res, &ActionError{Action: a, Err: err}
		}

		pe.log.Info("executing action", "action", a.Kind.String(), "path", a.Artifact.Path)
		err := pe.exec.Execute(ctx, a)
		if pe.OnAction != nil {
			pe.OnAction(a, err)
		}
		if err != nil {
			var ae *ActionError
			if !errors.As(err, &ae) {
				err = &ActionError{Action: a, Err: err}
			}
			pe.log.Error("action failed", "action", a.Kind.String(), "path", a.Artifact.Path, "error", err)
			return res, err
		}
		res.Executed = append(res.Executed, a)
	}
	return res, nil
}
