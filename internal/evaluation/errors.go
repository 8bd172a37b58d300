package evaluation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MissingAnswer identifies one required question left unanswered.
type MissingAnswer struct {
	Key      string `json:"key"`
	Section  string `json:"section"`
	Question string `json:"question"`
}

// ErrValidation indicates required questions were left unanswered. The
// evaluation is unchanged when this is returned.
type ErrValidation struct {
	Missing []MissingAnswer
}

func (e *ErrValidation) Error() string {
	parts := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		parts[i] = fmt.Sprintf("%s: %s", m.Section, m.Question)
	}
	return fmt.Sprintf("%d required questions unanswered: %s", len(e.Missing), strings.Join(parts, "; "))
}

// ErrStateConflict indicates a transition attempted from the wrong status,
// or a concurrent writer changed the status first. Callers should refetch
// and retry.
type ErrStateConflict struct {
	EvaluationID uuid.UUID
	Operation    string
	Status       Status
	Expected     Status
}

func (e *ErrStateConflict) Error() string {
	return fmt.Sprintf("cannot %s evaluation %s: status is %q, expected %q",
		e.Operation, e.EvaluationID, e.Status, e.Expected)
}

// ErrEvaluationNotFound indicates an unknown evaluation id.
type ErrEvaluationNotFound struct {
	EvaluationID uuid.UUID
}

func (e *ErrEvaluationNotFound) Error() string {
	return fmt.Sprintf("evaluation not found: %s", e.EvaluationID)
}

// ErrTemplateNotFound indicates an evaluation references a template that
// no longer exists.
type ErrTemplateNotFound struct {
	TemplateID uuid.UUID
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("evaluation template not found: %s", e.TemplateID)
}
