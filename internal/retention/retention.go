// Package retention runs the rotator over a set of backups and applies the
// resulting removal plan.
package retention

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/raoulx24/backup-rotator/internal/artifact"
	"github.com/raoulx24/backup-rotator/internal/config"
	"github.com/raoulx24/backup-rotator/internal/executor"
	"github.com/raoulx24/backup-rotator/internal/logging"
	"github.com/raoulx24/backup-rotator/internal/metrics"
	"github.com/raoulx24/backup-rotator/internal/plan"
	"github.com/raoulx24/backup-rotator/internal/rotation"
	"github.com/raoulx24/backup-rotator/internal/telemetry"
)

type Engine struct {
	mu     sync.RWMutex
	limits rotation.Limits
	dryRun bool
	exec   executor.Executor

	log     logging.Logger
	metrics *metrics.RetentionMetrics
	tracer  trace.Tracer

	// OnAction, when set, is called after every attempted removal.
	OnAction func(a plan.Action, err error)
}

// New builds an engine. m may be nil.
func New(cfg config.RetentionConfig, exec executor.Executor, log logging.Logger, m *metrics.RetentionMetrics) *Engine {
	if log == nil {
		log = logging.Nop()
	}
	return &Engine{
		limits:  cfg.Limits,
		dryRun:  cfg.DryRun,
		exec:    exec,
		log:     log,
		metrics: m,
		tracer:  telemetry.Tracer("retention"),
	}
}

// UpdateConfig swaps limits and dry-run for the next run. A nil exec keeps
// the current executor.
func (e *Engine) UpdateConfig(cfg config.RetentionConfig, exec executor.Executor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.limits = cfg.Limits
	e.dryRun = cfg.DryRun
	if exec != nil {
		e.exec = exec
	}
	e.log.Info("retention config updated",
		"daily", cfg.Daily, "weekly", cfg.Weekly, "monthly", cfg.Monthly, "dry_run", cfg.DryRun)
}

func (e *Engine) settings() (rotation.Limits, bool, executor.Executor) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.limits, e.dryRun, e.exec
}

// Outcome is what a run decided: the backups each tier keeps and the plan
// removing everything else.
type Outcome struct {
	Retained rotation.RetentionPlan[artifact.Artifact]
	Plan     *plan.Plan
}

// Plan classifies items oldest first and diffs the result against the
// input. items is not modified.
func (e *Engine) Plan(ctx context.Context, items []artifact.Artifact) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	limits, _, _ := e.settings()
	return classify(limits, items), nil
}

func classify(limits rotation.Limits, items []artifact.Artifact) Outcome {
	sorted := slices.Clone(items)
	artifact.SortByDate(sorted)

	r := rotation.New[artifact.Artifact](limits)
	for _, a := range sorted {
		r.Add(a)
	}
	retained := r.Snapshot()
	return Outcome{
		Retained: retained,
		Plan:     plan.Diff(sorted, retained.Items()),
	}
}

// Report summarizes one Apply.
type Report struct {
	RunID    uuid.UUID
	Started  time.Time
	Finished time.Time
	DryRun   bool

	Total    int
	Retained rotation.RetentionPlan[artifact.Artifact]

	// Removed holds the applied actions. In dry-run mode it holds the
	// actions that would have been applied.
	Removed []plan.Action
}

// Apply plans over items and executes the plan. On failure the report holds
// the removals done before the failing one.
func (e *Engine) Apply(ctx context.Context, items []artifact.Artifact) (Report, error) {
	limits, dryRun, exec := e.settings()
	rep := Report{
		RunID:   uuid.New(),
		Started: time.Now(),
		DryRun:  dryRun,
		Total:   len(items),
	}
	log := e.log.With("run", rep.RunID.String())

	ctx, span := e.tracer.Start(ctx, "retention.apply", trace.WithAttributes(
		attribute.String("run.id", rep.RunID.String()),
		attribute.Int("candidates", len(items)),
		attribute.Bool("dry_run", dryRun),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return e.finish(rep, span, err)
	}

	out := classify(limits, items)
	rep.Retained = out.Retained
	e.metrics.RecordRetained(len(items), len(out.Retained.Daily), len(out.Retained.Weekly), len(out.Retained.Monthly))
	log.Info("retention planned",
		"candidates", len(items),
		"daily", len(out.Retained.Daily),
		"weekly", len(out.Retained.Weekly),
		"monthly", len(out.Retained.Monthly),
		"remove", out.Plan.Len())

	if dryRun {
		rep.Removed = out.Plan.Pending()
		for _, a := range rep.Removed {
			log.Info("dry-run: would execute", "action", a.Kind.String(), "path", a.Artifact.Path)
		}
		return e.finish(rep, span, nil)
	}

	pe := executor.NewPlanExecutor(exec, log)
	pe.OnAction = func(a plan.Action, err error) {
		e.metrics.RecordAction(a.Kind.String(), err)
		if e.OnAction != nil {
			e.OnAction(a, err)
		}
	}
	res, err := pe.Run(ctx, out.Plan)
	rep.Removed = res.Executed
	return e.finish(rep, span, err)
}

func (e *Engine) finish(rep Report, span trace.Span, err error) (Report, error) {
	rep.Finished = time.Now()
	span.SetAttributes(attribute.Int("removed", len(rep.Removed)))

	result := metrics.ResultOK
	switch {
	case err != nil:
		result = metrics.ResultError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case rep.DryRun:
		result = metrics.ResultDryRun
	}
	e.metrics.RecordRun(result, rep.Started, rep.Finished)
	return rep, err
}
