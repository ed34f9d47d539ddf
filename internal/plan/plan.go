package plan

import (
	"slices"

	"github.com/raoulx24/backup-rotator/internal/artifact"
)

// Plan is a one-shot FIFO of actions. Once drained it stays empty.
// A Plan is not safe for concurrent use.
type Plan struct {
	actions []Action
}

// New returns a plan holding actions in the given order.
func New(actions ...Action) *Plan {
	return &Plan{actions: slices.Clone(actions)}
}

// Next pops the front action. ok is false once the plan is exhausted.
func (p *Plan) Next() (a Action, ok bool) {
	if len(p.actions) == 0 {
		return Action{}, false
	}
	a = p.actions[0]
	p.actions[0] = Action{}
	p.actions = p.actions[1:]
	return a, true
}

// Len returns the number of actions not yet consumed.
func (p *Plan) Len() int {
	return len(p.actions)
}

// Pending returns a copy of the remaining actions without consuming them.
func (p *Plan) Pending() []Action {
	return slices.Clone(p.actions)
}

// Diff returns a Remove action for every artifact of before whose identity
// is missing from after, in before's order. Timestamps are not compared.
func Diff(before, after []artifact.Artifact) *Plan {
	keep := make(map[string]struct{}, len(after))
	for _, a := range after {
		keep[a.ID()] = struct{}{}
	}

	p := &Plan{}
	for _, a := range before {
		if _, ok := keep[a.ID()]; ok {
			continue
		}
		p.actions = append(p.actions, NewRemove(a))
	}
	return p
}

// Planner holds one before/after comparison.
type Planner struct {
	before []artifact.Artifact
	after  []artifact.Artifact
}

func NewPlanner(before, after []artifact.Artifact) *Planner {
	return &Planner{before: before, after: after}
}

// Plan computes a fresh Plan on every call.
func (p *Planner) Plan() *Plan {
	return Diff(p.before, p.after)
}
