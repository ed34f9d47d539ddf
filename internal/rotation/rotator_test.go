package rotation

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var origin = time.Date(2024, time.January, 1, 3, 0, 0, 0, time.UTC)

// day is a backup taken n days after origin.
type day int

func (d day) Date() time.Time {
	return origin.AddDate(0, 0, int(d))
}

func days(n ...int) []day {
	out := make([]day, len(n))
	for i, v := range n {
		out[i] = day(v)
	}
	return out
}

func feed(r *Rotator[day], from, to int) {
	for i := from; i <= to; i++ {
		r.Add(day(i))
	}
}

func TestRotatorThirtyFourDays(t *testing.T) {
	r := New[day](Limits{Daily: 7, Weekly: 3, Monthly: 1})
	feed(r, 0, 33)

	want := RetentionPlan[day]{
		Daily:   days(25, 26, 27, 29, 30, 32, 33),
		Weekly:  days(14, 21, 28),
		Monthly: days(31),
	}
	got := r.Snapshot()
	assert.Equal(t, want, got)
	assert.True(t, Equal(want, got))
}

func TestRotatorFirstItemIsMonthly(t *testing.T) {
	r := New[day](Limits{Daily: 7, Weekly: 3, Monthly: 1})
	r.Add(day(10))

	got := r.Snapshot()
	assert.Equal(t, days(10), got.Monthly)
	assert.Empty(t, got.Weekly)
	assert.Empty(t, got.Daily)
}

func TestRotatorWeekMeasuredFromMonthlyUntilFirstWeekly(t *testing.T) {
	r := New[day](Limits{Daily: 10, Weekly: 10, Monthly: 10})
	r.Add(day(0))
	r.Add(day(6)) // six days is not more than six days
	r.Add(day(7))

	got := r.Snapshot()
	assert.Equal(t, days(0), got.Monthly)
	assert.Equal(t, days(7), got.Weekly)
	assert.Equal(t, days(6), got.Daily)
}

// stamp is a backup taken at an arbitrary instant.
type stamp struct{ at time.Time }

func (s stamp) Date() time.Time { return s.at }

func TestRotatorSameDayIsDropped(t *testing.T) {
	r := New[stamp](Limits{Daily: 10, Weekly: 10, Monthly: 10})
	r.Add(stamp{origin})
	r.Add(stamp{origin.AddDate(0, 0, 1)})
	r.Add(stamp{origin.AddDate(0, 0, 1).Add(2 * time.Hour)})

	got := r.Snapshot()
	assert.Equal(t, 2, got.Len())
	assert.Len(t, got.Items(), got.Len())
}

func TestRotatorEqualTimestampsKeepFirst(t *testing.T) {
	type named struct {
		stamp
		name string
	}
	at := origin.AddDate(0, 0, 1)
	r := New[named](Limits{Daily: 5, Weekly: 5, Monthly: 5})
	r.Add(named{stamp{origin}, "m"})
	r.Add(named{stamp{at}, "first"})
	r.Add(named{stamp{at}, "second"})

	got := r.Snapshot()
	require.Len(t, got.Daily, 1)
	assert.Equal(t, "first", got.Daily[0].name)
}

func TestRotatorEvictsOldestFirst(t *testing.T) {
	r := New[day](Limits{Daily: 2, Weekly: 10, Monthly: 10})
	feed(r, 0, 4)

	got := r.Snapshot()
	assert.Equal(t, days(3, 4), got.Daily)
}

func TestRotatorZeroMonthlyKeepsHistory(t *testing.T) {
	r := New[day](Limits{Daily: 7, Weekly: 3, Monthly: 0})
	feed(r, 0, 9)

	got := r.Snapshot()
	assert.Empty(t, got.Monthly)
	// day 7 is a week after the evicted monthly day 0, so history still counts.
	assert.Equal(t, days(7), got.Weekly)
	assert.Equal(t, days(2, 3, 4, 5, 6, 8, 9), got.Daily)
}

func TestRotatorZeroEverywhereRetainsNothing(t *testing.T) {
	r := New[day](Limits{})
	feed(r, 0, 60)
	assert.Zero(t, r.Snapshot().Len())
}

func TestRotatorNegativeLimitsClampToZero(t *testing.T) {
	r := New[day](Limits{Daily: -1, Weekly: -5, Monthly: 2})
	assert.Equal(t, Limits{Daily: 0, Weekly: 0, Monthly: 2}, r.Limits())
	feed(r, 0, 40)
	got := r.Snapshot()
	assert.Empty(t, got.Daily)
	assert.Empty(t, got.Weekly)
	assert.Equal(t, days(0, 31), got.Monthly)
}

func TestRotatorMonthComparesMonthOfYearOnly(t *testing.T) {
	r := New[day](Limits{Daily: 5, Weekly: 5, Monthly: 5})
	r.Add(day(0))   // 2024-01-01
	r.Add(day(366)) // 2025-01-01, same month number

	got := r.Snapshot()
	assert.Equal(t, days(0), got.Monthly)
	assert.Equal(t, days(366), got.Weekly)
}

func TestRotatorLimitsHoldAfterEveryAdd(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	limits := []Limits{
		{Daily: 7, Weekly: 4, Monthly: 12},
		{Daily: 1, Weekly: 1, Monthly: 1},
		{Daily: 0, Weekly: 2, Monthly: 0},
		{Daily: 3, Weekly: 0, Monthly: 6},
	}
	for _, l := range limits {
		r := New[stamp](l)
		at := origin
		for range 500 {
			at = at.Add(time.Duration(rng.IntN(72)) * time.Hour)
			r.Add(stamp{at})
			got := r.Snapshot()
			require.LessOrEqual(t, len(got.Daily), l.Daily)
			require.LessOrEqual(t, len(got.Weekly), l.Weekly)
			require.LessOrEqual(t, len(got.Monthly), l.Monthly)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r := New[day](Limits{Daily: 7, Weekly: 3, Monthly: 1})
	feed(r, 0, 3)

	snap := r.Snapshot()
	snap.Daily[0] = day(99)
	feed(r, 4, 5)

	assert.Equal(t, day(1), r.Snapshot().Daily[0])
	assert.Equal(t, day(99), snap.Daily[0])
}
