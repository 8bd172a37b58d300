package cycle

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrConfiguration rejects a scheduling run whose preconditions fail for
// some employees. Nothing is written when this is returned.
type ErrConfiguration struct {
	UnassignedEvaluators int
	EmployeeIDs          []uuid.UUID
}

func (e *ErrConfiguration) Error() string {
	return fmt.Sprintf("cannot enable auto-scheduling: %d employees have no evaluator assigned", e.UnassignedEvaluators)
}
