package evaluation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence contract for evaluations and their templates.
//
// UpdateEvaluation must apply the write only if the stored status still
// equals expected, and return ErrStateConflict otherwise. That optimistic
// check is what guards against two concurrent submissions.
type Store interface {
	GetEvaluation(ctx context.Context, id uuid.UUID) (*Evaluation, error)
	ListEvaluationsForEmployee(ctx context.Context, employeeID uuid.UUID) ([]Evaluation, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*Template, error)
	UpdateEvaluation(ctx context.Context, e *Evaluation, expected Status) error
}

// CycleNotifier is told when an evaluation completes, so the employee's
// next evaluation date can be recomputed under the last_evaluation anchor.
type CycleNotifier interface {
	EvaluationCompleted(ctx context.Context, employeeID uuid.UUID, completedOn time.Time) error
}

// Service loads an evaluation, applies one workflow transition, and
// persists the result under the optimistic status check.
type Service struct {
	store    Store
	notifier CycleNotifier
}

// NewService creates an evaluation service. The notifier may be nil when
// auto-scheduling is not wired in (e.g. tests).
func NewService(store Store, notifier CycleNotifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// Get returns one evaluation.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	return s.load(ctx, id)
}

// ListForEmployee returns an employee's evaluations.
func (s *Service) ListForEmployee(ctx context.Context, employeeID uuid.UUID) ([]Evaluation, error) {
	evals, err := s.store.ListEvaluationsForEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return evals, nil
}

// SubmitSelf runs the employee's self-evaluation submission.
func (s *Service) SubmitSelf(ctx context.Context, id uuid.UUID, answers map[string]any, now time.Time) (*Evaluation, error) {
	e, tmpl, err := s.loadWithTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := e.Status
	if err := SubmitSelfEvaluation(e, tmpl, answers, now); err != nil {
		return nil, err
	}
	if err := s.store.UpdateEvaluation(ctx, e, expected); err != nil {
		return nil, err
	}
	return e, nil
}

// ScheduleSession sets the review session date, or starts the session
// immediately when startNow is set.
func (s *Service) ScheduleSession(ctx context.Context, id uuid.UUID, date *time.Time, startNow bool, now time.Time) (*Evaluation, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := e.Status
	if startNow || date == nil {
		err = StartReviewNow(e, now)
	} else {
		err = ScheduleReviewSession(e, *date, now)
	}
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateEvaluation(ctx, e, expected); err != nil {
		return nil, err
	}
	return e, nil
}

// SaveDraft merges partial answers for one party without advancing state.
func (s *Service) SaveDraft(ctx context.Context, id uuid.UUID, party Party, partial map[string]any, now time.Time) (*Evaluation, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := e.Status
	if err := SaveDraft(e, party, partial, now); err != nil {
		return nil, err
	}
	if err := s.store.UpdateEvaluation(ctx, e, expected); err != nil {
		return nil, err
	}
	return e, nil
}

// Complete closes the evaluation with the manager's answers, then lets the
// cycle scheduler recompute the employee's next evaluation date.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, managerAnswers map[string]any, overallComments string, now time.Time) (*Evaluation, error) {
	e, tmpl, err := s.loadWithTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := e.Status
	if err := CompleteEvaluation(e, tmpl, managerAnswers, overallComments, now); err != nil {
		return nil, err
	}
	if err := s.store.UpdateEvaluation(ctx, e, expected); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.EvaluationCompleted(ctx, e.EmployeeID, now); err != nil {
			return nil, fmt.Errorf("failed to reschedule after completion: %w", err)
		}
	}
	return e, nil
}

// Acknowledge records the employee's sign-off.
func (s *Service) Acknowledge(ctx context.Context, id uuid.UUID, now time.Time) (*Evaluation, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := e.Status
	if err := Acknowledge(e, now); err != nil {
		return nil, err
	}
	if err := s.store.UpdateEvaluation(ctx, e, expected); err != nil {
		return nil, err
	}
	return e, nil
}

// Summary builds the score aggregation and comparison view.
func (s *Service) Summary(ctx context.Context, id uuid.UUID) (*Summary, error) {
	e, tmpl, err := s.loadWithTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	return Summarize(tmpl, e), nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	e, err := s.store.GetEvaluation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	if e == nil {
		return nil, &ErrEvaluationNotFound{EvaluationID: id}
	}
	return e, nil
}

func (s *Service) loadWithTemplate(ctx context.Context, id uuid.UUID) (*Evaluation, *Template, error) {
	e, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	tmpl, err := s.store.GetTemplate(ctx, e.TemplateID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get template: %w", err)
	}
	if tmpl == nil {
		return nil, nil, &ErrTemplateNotFound{TemplateID: e.TemplateID}
	}
	return e, tmpl, nil
}
