package cycle

import (
	"time"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/recurrence"
)

// NextDue steps from the anchor in frequencyDays increments and returns
// the first due date on or after today. The anchor itself is never a due
// date; the first cycle ends one full frequency after it.
func NextDue(anchor, today time.Time, frequencyDays int) time.Time {
	anchor = recurrence.StartOfDay(anchor)
	today = recurrence.StartOfDay(today)

	due := anchor.AddDate(0, 0, frequencyDays)
	for due.Before(today) {
		due = due.AddDate(0, 0, frequencyDays)
	}
	return due
}

// LastElapsedDue returns the most recent due date at or before today, if
// at least one full cycle has elapsed since the anchor.
func LastElapsedDue(anchor, today time.Time, frequencyDays int) (time.Time, bool) {
	anchor = recurrence.StartOfDay(anchor)
	today = recurrence.StartOfDay(today)

	due := anchor.AddDate(0, 0, frequencyDays)
	if due.After(today) {
		return time.Time{}, false
	}
	for {
		next := due.AddDate(0, 0, frequencyDays)
		if next.After(today) {
			return due, true
		}
		due = next
	}
}

// DueDate resolves an employee's evaluation due date against today.
//
// If a cycle end has already passed and is still inside the grace window,
// that elapsed date is the due date and the evaluation should be created
// immediately, back-dated to when it was actually due. Otherwise the due
// date is the next future cycle end. dueNow reports whether an evaluation
// should be created in this run.
func DueDate(anchor, today time.Time, frequencyDays, graceWindowDays int) (due time.Time, dueNow bool) {
	today = recurrence.StartOfDay(today)

	if elapsed, ok := LastElapsedDue(anchor, today, frequencyDays); ok {
		overdueDays := int(today.Sub(elapsed).Hours() / 24)
		if overdueDays <= graceWindowDays {
			return elapsed, true
		}
	}

	next := NextDue(anchor, today, frequencyDays)
	return next, !next.After(today)
}

// ApplyTransitionPolicy resolves the due date for an employee already
// mid-cycle when auto-scheduling is re-enabled. Pure in its inputs; it
// must not depend on what a prior scheduling run created.
func ApplyTransitionPolicy(policy Policy, today, currentCycleEnd time.Time, frequencyDays int) time.Time {
	today = recurrence.StartOfDay(today)
	switch policy {
	case PolicyImmediate:
		return today
	case PolicyNextPeriod:
		return today.AddDate(0, 0, frequencyDays)
	default: // complete_cycle
		return recurrence.StartOfDay(currentCycleEnd)
	}
}
