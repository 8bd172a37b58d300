// Package cycle computes evaluation due dates from each employee's cadence
// anchor and batch-schedules evaluations when auto-scheduling is toggled.
package cycle

import (
	"time"

	"github.com/google/uuid"
)

// CycleStart selects the anchor an employee's cadence steps from.
type CycleStart string

const (
	CycleStartHireDate       CycleStart = "hire_date"
	CycleStartLastEvaluation CycleStart = "last_evaluation"
)

// Policy governs how in-flight cycles are treated when auto-scheduling is
// re-enabled for employees already mid-cycle.
type Policy string

const (
	PolicyCompleteCycle Policy = "complete_cycle"
	PolicyImmediate     Policy = "immediate"
	PolicyNextPeriod    Policy = "next_period"
)

// Profile is the scheduling view of one employee from the directory.
type Profile struct {
	EmployeeID         uuid.UUID  `json:"employee_id"`
	Name               string     `json:"name"`
	HireDate           time.Time  `json:"hire_date"`
	EvaluatorID        *uuid.UUID `json:"evaluator_id,omitempty"`
	FrequencyDays      int        `json:"frequency_days,omitempty"` // 0 falls back to the org default
	NextEvaluationDate *time.Time `json:"next_evaluation_date,omitempty"`
}

// HasEvaluator reports whether the employee can be scheduled at all.
func (p *Profile) HasEvaluator() bool {
	return p.EvaluatorID != nil
}

// Settings is the organization's scheduling policy.
type Settings struct {
	AutoSchedule    bool       `json:"auto_schedule"`
	FrequencyDays   int        `json:"frequency_days"`
	CycleStart      CycleStart `json:"cycle_start"`
	TransitionMode  Policy     `json:"transition_mode"`
	GraceWindowDays int        `json:"grace_window_days"`
	TemplateID      uuid.UUID  `json:"template_id"`
}

// Tally is the user-facing outcome of a batch scheduling run. Skips are
// the normal outcome for employees not yet due, not an error.
type Tally struct {
	Scheduled int      `json:"scheduled"`
	Skipped   int      `json:"skipped"`
	Issues    []string `json:"issues,omitempty"`
}
