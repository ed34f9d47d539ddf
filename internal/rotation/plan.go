// Package rotation classifies dated backups into daily, weekly and monthly tiers.
package rotation

import (
	"slices"
	"time"
)

// Dated is anything that can report the point in time it belongs to.
type Dated interface {
	Date() time.Time
}

// RetentionPlan holds the retained items of each tier, oldest first.
type RetentionPlan[T any] struct {
	Daily   []T
	Weekly  []T
	Monthly []T
}

// Items flattens the plan: daily, then weekly, then monthly.
// The result is not time ordered across tiers.
func (p RetentionPlan[T]) Items() []T {
	out := make([]T, 0, p.Len())
	out = append(out, p.Daily...)
	out = append(out, p.Weekly...)
	out = append(out, p.Monthly...)
	return out
}

// Len returns the number of retained items across all tiers.
func (p RetentionPlan[T]) Len() int {
	return len(p.Daily) + len(p.Weekly) + len(p.Monthly)
}

// Clone returns a copy that shares no backing arrays with p.
func (p RetentionPlan[T]) Clone() RetentionPlan[T] {
	return RetentionPlan[T]{
		Daily:   slices.Clone(p.Daily),
		Weekly:  slices.Clone(p.Weekly),
		Monthly: slices.Clone(p.Monthly),
	}
}

// Equal reports whether a and b hold the same items in the same tiers and order.
func Equal[T comparable](a, b RetentionPlan[T]) bool {
	return slices.Equal(a.Daily, b.Daily) &&
		slices.Equal(a.Weekly, b.Weekly) &&
		slices.Equal(a.Monthly, b.Monthly)
}
