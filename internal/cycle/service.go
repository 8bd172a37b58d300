package cycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/evaluation"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/recurrence"
)

// Directory reads employee scheduling profiles.
type Directory interface {
	ListProfiles(ctx context.Context) ([]Profile, error)
	GetProfile(ctx context.Context, employeeID uuid.UUID) (*Profile, error)
}

// Store persists the scheduling side effects of a batch run.
type Store interface {
	LastCompletedEvaluation(ctx context.Context, employeeID uuid.UUID) (*time.Time, error)
	HasOpenEvaluation(ctx context.Context, employeeID uuid.UUID) (bool, error)
	CreateEvaluation(ctx context.Context, e *evaluation.Evaluation) error
	SaveProfileSchedule(ctx context.Context, employeeID uuid.UUID, next *time.Time) error
}

// SettingsStore reads and writes the organization scheduling policy.
type SettingsStore interface {
	GetSettings(ctx context.Context) (*Settings, error)
	SaveAutoSchedule(ctx context.Context, enabled bool, policy Policy) error
}

// Service runs batch scheduling over the whole directory.
type Service struct {
	directory Directory
	store     Store
	settings  SettingsStore
}

// NewService creates a cycle scheduler over the given collaborators.
func NewService(directory Directory, store Store, settings SettingsStore) *Service {
	return &Service{directory: directory, store: store, settings: settings}
}

// SetAutoSchedule toggles organization-wide evaluation auto-scheduling.
//
// Enabling validates upfront that every employee has an evaluator; any
// violation rejects the whole run with ErrConfiguration and no writes.
// It then computes each employee's due date, creates evaluations for
// those due now (or past due inside the grace window), and persists the
// next date for everyone else. Per-employee failures are recorded in the
// tally and never abort the batch. Disabling only flips the flag;
// existing evaluations and dates are left untouched.
func (s *Service) SetAutoSchedule(ctx context.Context, enabled bool, policy Policy, today time.Time) (*Tally, error) {
	if !enabled {
		if err := s.settings.SaveAutoSchedule(ctx, false, policy); err != nil {
			return nil, fmt.Errorf("failed to disable auto-scheduling: %w", err)
		}
		return &Tally{}, nil
	}

	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduling settings: %w", err)
	}
	if policy == "" {
		policy = settings.TransitionMode
	}

	profiles, err := s.directory.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	// Upfront validation across the whole directory, before any write.
	var unassigned []uuid.UUID
	for i := range profiles {
		if !profiles[i].HasEvaluator() {
			unassigned = append(unassigned, profiles[i].EmployeeID)
		}
	}
	if len(unassigned) > 0 {
		return nil, &ErrConfiguration{UnassignedEvaluators: len(unassigned), EmployeeIDs: unassigned}
	}

	tally := &Tally{}
	for i := range profiles {
		scheduled, err := s.scheduleEmployee(ctx, &profiles[i], settings, policy, today)
		switch {
		case err != nil:
			tally.Skipped++
			tally.Issues = append(tally.Issues, fmt.Sprintf("%s: %v", profiles[i].EmployeeID, err))
		case scheduled:
			tally.Scheduled++
		default:
			tally.Skipped++
		}
	}

	if err := s.settings.SaveAutoSchedule(ctx, true, policy); err != nil {
		return nil, fmt.Errorf("failed to enable auto-scheduling: %w", err)
	}
	return tally, nil
}

// scheduleEmployee handles one employee inside the batch, reporting
// whether an evaluation was created. Errors surface only as tally issues.
func (s *Service) scheduleEmployee(ctx context.Context, profile *Profile, settings *Settings, policy Policy, today time.Time) (bool, error) {
	freq := profile.FrequencyDays
	if freq <= 0 {
		freq = settings.FrequencyDays
	}

	due, dueNow, err := s.resolveDueDate(ctx, profile, settings, policy, today, freq)
	if err != nil {
		return false, err
	}

	open, err := s.store.HasOpenEvaluation(ctx, profile.EmployeeID)
	if err != nil {
		return false, fmt.Errorf("failed to check open evaluations: %w", err)
	}

	scheduled := false
	if dueNow && !open {
		eval := &evaluation.Evaluation{
			ID:            uuid.New(),
			EmployeeID:    profile.EmployeeID,
			EvaluatorID:   *profile.EvaluatorID,
			TemplateID:    settings.TemplateID,
			Status:        evaluation.StatusPendingSelf,
			ScheduledDate: due,
			CreatedAt:     today,
			UpdatedAt:     today,
		}
		if err := s.store.CreateEvaluation(ctx, eval); err != nil {
			return false, fmt.Errorf("failed to create evaluation: %w", err)
		}
		scheduled = true
	}

	if err := s.store.SaveProfileSchedule(ctx, profile.EmployeeID, &due); err != nil {
		return scheduled, fmt.Errorf("failed to save next evaluation date: %w", err)
	}
	return scheduled, nil
}

func (s *Service) resolveDueDate(ctx context.Context, profile *Profile, settings *Settings, policy Policy, today time.Time, freq int) (time.Time, bool, error) {
	// Re-enabling with a date already on the books means the employee is
	// mid-cycle; the transition policy decides what happens to that cycle.
	if profile.NextEvaluationDate != nil {
		due := ApplyTransitionPolicy(policy, today, *profile.NextEvaluationDate, freq)
		return due, !due.After(recurrence.StartOfDay(today)), nil
	}

	anchor := profile.HireDate
	if settings.CycleStart == CycleStartLastEvaluation {
		last, err := s.store.LastCompletedEvaluation(ctx, profile.EmployeeID)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("failed to find last evaluation: %w", err)
		}
		if last != nil {
			anchor = *last
		}
	}

	due, dueNow := DueDate(anchor, today, freq, settings.GraceWindowDays)
	return due, dueNow, nil
}

// EvaluationCompleted recomputes the employee's next evaluation date after
// a completed evaluation, when cadences anchor on the last evaluation.
func (s *Service) EvaluationCompleted(ctx context.Context, employeeID uuid.UUID, completedOn time.Time) error {
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load scheduling settings: %w", err)
	}
	if !settings.AutoSchedule || settings.CycleStart != CycleStartLastEvaluation {
		return nil
	}

	profile, err := s.directory.GetProfile(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to load employee profile: %w", err)
	}
	if profile == nil {
		return nil
	}
	freq := profile.FrequencyDays
	if freq <= 0 {
		freq = settings.FrequencyDays
	}

	next := recurrence.StartOfDay(completedOn).AddDate(0, 0, freq)
	if err := s.store.SaveProfileSchedule(ctx, employeeID, &next); err != nil {
		return fmt.Errorf("failed to save next evaluation date: %w", err)
	}
	return nil
}
