// Package evaluation drives the multi-party evaluation lifecycle: the
// self-evaluation / manager-review / review-session state machine and the
// grading-scale score aggregation used to reconcile the two rating sets.
package evaluation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is an evaluation's lifecycle state.
type Status string

const (
	StatusPendingSelf   Status = "pending_self_evaluation"
	StatusPendingReview Status = "pending_manager_review"
	StatusInSession     Status = "in_review_session"
	StatusCompleted     Status = "completed"
)

// Party identifies whose answer set a draft write targets.
type Party string

const (
	PartyEmployee Party = "employee"
	PartyManager  Party = "manager"
)

// Question types.
const (
	QuestionTypeRating = "rating"
	QuestionTypeText   = "text"
)

// Evaluation is one employee's evaluation record. It is mutated only
// through the workflow transitions in this package.
type Evaluation struct {
	ID                uuid.UUID      `json:"id"`
	EmployeeID        uuid.UUID      `json:"employee_id"`
	EvaluatorID       uuid.UUID      `json:"evaluator_id"`
	TemplateID        uuid.UUID      `json:"template_id"`
	Status            Status         `json:"status"`
	ScheduledDate     time.Time      `json:"scheduled_date"`
	ReviewSessionDate *time.Time     `json:"review_session_date,omitempty"`
	SelfRatings       map[string]any `json:"self_ratings,omitempty"`
	ManagerRatings    map[string]any `json:"manager_ratings,omitempty"`
	OverallComments   *string        `json:"overall_comments,omitempty"`
	Acknowledged      bool           `json:"acknowledged"`
	AcknowledgedAt    *time.Time     `json:"acknowledged_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// Open reports whether the evaluation is still in flight.
func (e *Evaluation) Open() bool {
	return e.Status != StatusCompleted
}

// Template is the question document an evaluation is answered against.
type Template struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Sections []Section `json:"sections"`
}

// Section groups related questions under a heading.
type Section struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Question is a single prompt. Rating questions carry a grading scale.
type Question struct {
	Text         string        `json:"text"`
	Type         string        `json:"type"`
	Required     bool          `json:"required"`
	GradingScale *GradingScale `json:"grading_scale,omitempty"`
}

// GradingScale is an ordered set of labeled values for rating questions.
type GradingScale struct {
	Grades []Grade `json:"grades"`
}

// Grade is one level on a grading scale.
type Grade struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// QuestionKey is the answer-map key for the question at the given section
// and question indexes.
func QuestionKey(sectionIndex, questionIndex int) string {
	return fmt.Sprintf("%d-%d", sectionIndex, questionIndex)
}
