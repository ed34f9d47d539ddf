package rotation

import "time"

// weekGap is the distance an item must exceed to open a new weekly slot.
const weekGap = 7*24*time.Hour - 24*time.Hour

// Limits caps how many items each tier keeps.
type Limits struct {
	Daily   int `yaml:"daily"`
	Weekly  int `yaml:"weekly"`
	Monthly int `yaml:"monthly"`
}

// mark remembers the last item routed to a tier, even if the tier evicted it.
type mark struct {
	at  time.Time
	set bool
}

func (m *mark) update(t time.Time) {
	m.at = t
	m.set = true
}

// Rotator assigns items to tiers in the order they are added.
// Items must be added in non-decreasing date order. A Rotator is not safe
// for concurrent use.
type Rotator[T Dated] struct {
	limits Limits
	plan   RetentionPlan[T]

	lastMonthly mark
	lastWeekly  mark
	lastDaily   mark
}

// New returns an empty Rotator. Negative limits are treated as zero.
func New[T Dated](limits Limits) *Rotator[T] {
	limits.Daily = max(limits.Daily, 0)
	limits.Weekly = max(limits.Weekly, 0)
	limits.Monthly = max(limits.Monthly, 0)
	return &Rotator[T]{limits: limits}
}

// Limits returns the capacities the rotator was built with.
func (r *Rotator[T]) Limits() Limits {
	return r.limits
}

// Add classifies item into at most one tier. Items that open no new month,
// week or day are dropped.
func (r *Rotator[T]) Add(item T) {
	t := item.Date().UTC()

	if r.isNewMonth(t) {
		r.lastMonthly.update(t)
		r.plan.Monthly = push(r.plan.Monthly, item, r.limits.Monthly)
		return
	}

	// isNewMonth returned false, so a monthly item has been seen.
	if isNewWeek(t, r.lastMonthly.at, r.lastWeekly) {
		r.lastWeekly.update(t)
		r.plan.Weekly = push(r.plan.Weekly, item, r.limits.Weekly)
		return
	}

	if r.isNewDay(t) {
		r.lastDaily.update(t)
		r.plan.Daily = push(r.plan.Daily, item, r.limits.Daily)
	}
}

// Snapshot returns a copy of the current tiers.
func (r *Rotator[T]) Snapshot() RetentionPlan[T] {
	return r.plan.Clone()
}

func (r *Rotator[T]) isNewMonth(t time.Time) bool {
	if !r.lastMonthly.set {
		return true
	}
	// Month of year only: January 2024 and January 2025 compare equal.
	return t.Month() != r.lastMonthly.at.Month()
}

func isNewWeek(t, lastMonthly time.Time, lastWeekly mark) bool {
	if !lastWeekly.set {
		return t.Sub(lastMonthly) > weekGap
	}
	return t.Sub(lastWeekly.at) > weekGap
}

func (r *Rotator[T]) isNewDay(t time.Time) bool {
	if !r.lastDaily.set {
		return true
	}
	// Day of month only, same as isNewMonth.
	return t.Day() != r.lastDaily.at.Day()
}

// push appends item and drops from the front until the tier fits limit.
func push[T any](tier []T, item T, limit int) []T {
	tier = append(tier, item)
	for len(tier) > limit {
		var zero T
		tier[0] = zero
		tier = tier[1:]
	}
	return tier
}
