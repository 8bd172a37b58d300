package cycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDue(t *testing.T) {
	hire := day(2024, time.January, 1)

	// First cycle ends one frequency after the anchor.
	assert.Equal(t, day(2024, time.March, 31), NextDue(hire, day(2024, time.January, 2), 90))

	// Stepping continues past elapsed cycles.
	assert.Equal(t, day(2024, time.June, 29), NextDue(hire, day(2024, time.April, 15), 90))

	// A due date landing exactly on today stays.
	assert.Equal(t, day(2024, time.March, 31), NextDue(hire, day(2024, time.March, 31), 90))
}

func TestLastElapsedDue(t *testing.T) {
	hire := day(2024, time.January, 1)

	_, ok := LastElapsedDue(hire, day(2024, time.February, 1), 90)
	assert.False(t, ok, "no cycle elapsed yet")

	elapsed, ok := LastElapsedDue(hire, day(2024, time.April, 15), 90)
	require.True(t, ok)
	assert.Equal(t, day(2024, time.March, 31), elapsed)

	elapsed, ok = LastElapsedDue(hire, day(2024, time.August, 1), 90)
	require.True(t, ok)
	assert.Equal(t, day(2024, time.June, 29), elapsed)
}

func TestDueDateHireAnchorScenario(t *testing.T) {
	// Hired 2024-01-01, 90-day cadence, enabling on 2024-04-15: the first
	// cycle ended 2024-03-31 and is still inside the grace window, so the
	// evaluation is due now, back-dated to 2024-03-31.
	due, dueNow := DueDate(day(2024, time.January, 1), day(2024, time.April, 15), 90, 30)
	assert.Equal(t, day(2024, time.March, 31), due)
	assert.True(t, dueNow)
}

func TestDueDateFutureCycle(t *testing.T) {
	due, dueNow := DueDate(day(2024, time.April, 1), day(2024, time.April, 15), 90, 30)
	assert.Equal(t, day(2024, time.June, 30), due)
	assert.False(t, dueNow)
}

func TestDueDateBeyondGraceWindowDefersToNextCycle(t *testing.T) {
	// 2024-03-31 elapsed 45 days ago, past the 30-day grace window, so the
	// stale cycle is skipped and the next future end is scheduled instead.
	due, dueNow := DueDate(day(2024, time.January, 1), day(2024, time.May, 15), 90, 30)
	assert.Equal(t, day(2024, time.June, 29), due)
	assert.False(t, dueNow)
}

func TestDueDateExactlyToday(t *testing.T) {
	due, dueNow := DueDate(day(2024, time.January, 1), day(2024, time.March, 31), 90, 30)
	assert.Equal(t, day(2024, time.March, 31), due)
	assert.True(t, dueNow)
}

func TestDueDateNormalizesTimestamps(t *testing.T) {
	anchor := time.Date(2024, time.January, 1, 17, 30, 0, 0, time.UTC)
	today := time.Date(2024, time.April, 15, 9, 5, 0, 0, time.UTC)

	due, dueNow := DueDate(anchor, today, 90, 30)
	assert.Equal(t, day(2024, time.March, 31), due)
	assert.True(t, dueNow)
}

func TestApplyTransitionPolicy(t *testing.T) {
	today := day(2024, time.April, 15)
	cycleEnd := day(2024, time.May, 10)

	assert.Equal(t, today, ApplyTransitionPolicy(PolicyImmediate, today, cycleEnd, 90))
	assert.Equal(t, day(2024, time.July, 14), ApplyTransitionPolicy(PolicyNextPeriod, today, cycleEnd, 90))
	assert.Equal(t, cycleEnd, ApplyTransitionPolicy(PolicyCompleteCycle, today, cycleEnd, 90))

	// Unknown or empty policy behaves like complete_cycle.
	assert.Equal(t, cycleEnd, ApplyTransitionPolicy(Policy(""), today, cycleEnd, 90))
}

func TestApplyTransitionPolicyIsPure(t *testing.T) {
	today := day(2024, time.April, 15)
	cycleEnd := day(2024, time.May, 10)

	first := ApplyTransitionPolicy(PolicyNextPeriod, today, cycleEnd, 30)
	second := ApplyTransitionPolicy(PolicyNextPeriod, today, cycleEnd, 30)
	assert.Equal(t, first, second)
}
