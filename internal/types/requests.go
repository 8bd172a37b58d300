// Package types provides request and response definitions for the HTTP API.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// MaterializeRequest asks for a scheduled item's instance on a date,
// creating it if needed. Date is "YYYY-MM-DD"; empty means today.
type MaterializeRequest struct {
	Date string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// AutoScheduleRequest toggles organization-wide evaluation auto-scheduling.
type AutoScheduleRequest struct {
	Enabled bool   `json:"enabled"`
	Policy  string `json:"policy,omitempty" validate:"omitempty,oneof=complete_cycle immediate next_period"`
}

// SubmitSelfRequest carries the employee's self-evaluation answers.
type SubmitSelfRequest struct {
	Answers map[string]any `json:"answers" validate:"required,min=1"`
}

// SessionRequest schedules the review session, or starts it immediately
// when StartNow is set.
type SessionRequest struct {
	Date     *time.Time `json:"date,omitempty"`
	StartNow bool       `json:"start_now,omitempty"`
}

// DraftRequest saves partial answers for one party without advancing the
// evaluation's state.
type DraftRequest struct {
	Party   string         `json:"party" validate:"required,oneof=employee manager"`
	Answers map[string]any `json:"answers" validate:"required"`
}

// CompleteRequest closes the evaluation with the manager's final answers.
type CompleteRequest struct {
	Answers         map[string]any `json:"answers" validate:"required,min=1"`
	OverallComments string         `json:"overall_comments,omitempty"`
}

// CompleteWorkItemRequest marks one entry of an instance completed.
type CompleteWorkItemRequest struct {
	Index       int    `json:"index" validate:"gte=0"`
	CompletedBy string `json:"completed_by" validate:"required,uuid"`
}

// ReopenWorkItemRequest puts a completed entry back to pending.
type ReopenWorkItemRequest struct {
	Index int `json:"index" validate:"gte=0"`
}

// Validate validates the MaterializeRequest using the validator.
func (r *MaterializeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the AutoScheduleRequest using the validator.
func (r *AutoScheduleRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SubmitSelfRequest using the validator.
func (r *SubmitSelfRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SessionRequest using the validator.
func (r *SessionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the DraftRequest using the validator.
func (r *DraftRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CompleteRequest using the validator.
func (r *CompleteRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CompleteWorkItemRequest using the validator.
func (r *CompleteWorkItemRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ReopenWorkItemRequest using the validator.
func (r *ReopenWorkItemRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
