package evaluation

import (
	"strings"
	"time"
)

// The workflow below is the only way an evaluation changes state:
//
//	pending_self_evaluation -> pending_manager_review -> in_review_session -> completed
//
// in_review_session is entered either by scheduling a session date or by
// the evaluator's "start now" shortcut. Each transition validates its
// pre-state and leaves the evaluation untouched on failure.

// SubmitSelfEvaluation stores the employee's answers and moves the
// evaluation to manager review. Every required question in the template
// must have a non-empty answer.
func SubmitSelfEvaluation(e *Evaluation, tmpl *Template, answers map[string]any, now time.Time) error {
	if e.Status != StatusPendingSelf {
		return &ErrStateConflict{EvaluationID: e.ID, Operation: "submit self-evaluation", Status: e.Status, Expected: StatusPendingSelf}
	}
	if missing := missingRequiredAnswers(tmpl, answers); len(missing) > 0 {
		return &ErrValidation{Missing: missing}
	}

	e.SelfRatings = copyAnswers(answers)
	e.Status = StatusPendingReview
	e.UpdatedAt = now
	return nil
}

// ScheduleReviewSession sets the session date and moves the evaluation
// into the review session.
func ScheduleReviewSession(e *Evaluation, date time.Time, now time.Time) error {
	if e.Status != StatusPendingReview {
		return &ErrStateConflict{EvaluationID: e.ID, Operation: "schedule review session", Status: e.Status, Expected: StatusPendingReview}
	}
	e.ReviewSessionDate = &date
	e.Status = StatusInSession
	e.UpdatedAt = now
	return nil
}

// StartReviewNow moves the evaluation into the review session without a
// scheduled date.
func StartReviewNow(e *Evaluation, now time.Time) error {
	if e.Status != StatusPendingReview {
		return &ErrStateConflict{EvaluationID: e.ID, Operation: "start review", Status: e.Status, Expected: StatusPendingReview}
	}
	e.ReviewSessionDate = nil
	e.Status = StatusInSession
	e.UpdatedAt = now
	return nil
}

// SaveDraft merges partial answers into the given party's answer set
// without changing status. Allowed in any non-completed state.
func SaveDraft(e *Evaluation, party Party, partial map[string]any, now time.Time) error {
	if e.Status == StatusCompleted {
		return &ErrStateConflict{EvaluationID: e.ID, Operation: "save draft", Status: e.Status, Expected: StatusInSession}
	}

	switch party {
	case PartyManager:
		if e.ManagerRatings == nil {
			e.ManagerRatings = make(map[string]any, len(partial))
		}
		for k, v := range partial {
			e.ManagerRatings[k] = v
		}
	default:
		if e.SelfRatings == nil {
			e.SelfRatings = make(map[string]any, len(partial))
		}
		for k, v := range partial {
			e.SelfRatings[k] = v
		}
	}
	e.UpdatedAt = now
	return nil
}

// CompleteEvaluation stores the manager's answers and comments and closes
// the evaluation. Allowed only while the review session is in progress,
// with the same required-question validation as the self-evaluation.
func CompleteEvaluation(e *Evaluation, tmpl *Template, managerAnswers map[string]any, overallComments string, now time.Time) error {
	if e.Status != StatusInSession {
		return &ErrStateConflict{EvaluationID: e.ID, Operation: "complete", Status: e.Status, Expected: StatusInSession}
	}
	if missing := missingRequiredAnswers(tmpl, managerAnswers); len(missing) > 0 {
		return &ErrValidation{Missing: missing}
	}

	e.ManagerRatings = copyAnswers(managerAnswers)
	if overallComments != "" {
		e.OverallComments = &overallComments
	}
	e.Status = StatusCompleted
	e.UpdatedAt = now
	return nil
}

// Acknowledge records the employee's sign-off on a completed evaluation.
// Acknowledging twice is a no-op, not an error.
func Acknowledge(e *Evaluation, now time.Time) error {
	if e.Status != StatusCompleted {
		return &ErrStateConflict{EvaluationID: e.ID, Operation: "acknowledge", Status: e.Status, Expected: StatusCompleted}
	}
	if e.Acknowledged {
		return nil
	}
	e.Acknowledged = true
	ackAt := now
	e.AcknowledgedAt = &ackAt
	e.UpdatedAt = now
	return nil
}

// missingRequiredAnswers walks the template section by section and collects
// every required question whose answer is absent or blank.
func missingRequiredAnswers(tmpl *Template, answers map[string]any) []MissingAnswer {
	var missing []MissingAnswer
	for si, section := range tmpl.Sections {
		for qi, q := range section.Questions {
			if !q.Required {
				continue
			}
			key := QuestionKey(si, qi)
			if !answered(answers[key]) {
				missing = append(missing, MissingAnswer{
					Key:      key,
					Section:  section.Title,
					Question: q.Text,
				})
			}
		}
	}
	return missing
}

// answered reports whether a stored value counts as a non-empty answer.
// Numeric zero is a legitimate rating; only nil and blank strings are not.
func answered(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	default:
		return true
	}
}

func copyAnswers(answers map[string]any) map[string]any {
	out := make(map[string]any, len(answers))
	for k, v := range answers {
		out[k] = v
	}
	return out
}
