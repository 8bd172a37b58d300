package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/evaluation"
)

const evaluationColumns = `SELECT id, employee_id, evaluator_id, template_id, status, scheduled_date,
	review_session_date, self_ratings, manager_ratings, overall_comments,
	acknowledged, acknowledged_at, created_at, updated_at`

// GetEvaluation retrieves an evaluation by ID. Returns nil when no row exists.
func (db *DB) GetEvaluation(ctx context.Context, id uuid.UUID) (*evaluation.Evaluation, error) {
	return db.scanEvaluation(db.pool.QueryRow(ctx,
		evaluationColumns+` FROM evaluations WHERE id = $1`,
		id,
	))
}

// ListEvaluationsForEmployee retrieves an employee's evaluations, newest first.
func (db *DB) ListEvaluationsForEmployee(ctx context.Context, employeeID uuid.UUID) ([]evaluation.Evaluation, error) {
	rows, err := db.pool.Query(ctx,
		evaluationColumns+` FROM evaluations WHERE employee_id = $1 ORDER BY scheduled_date DESC`,
		employeeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	defer rows.Close()

	var evals []evaluation.Evaluation
	for rows.Next() {
		e, err := db.scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evals = append(evals, *e)
	}
	return evals, nil
}

// CreateEvaluation inserts a new evaluation record.
func (db *DB) CreateEvaluation(ctx context.Context, e *evaluation.Evaluation) error {
	selfBytes, managerBytes, err := encodeRatings(e)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO evaluations (id, employee_id, evaluator_id, template_id, status, scheduled_date,
			review_session_date, self_ratings, manager_ratings, overall_comments,
			acknowledged, acknowledged_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		e.ID, e.EmployeeID, e.EvaluatorID, e.TemplateID, e.Status, e.ScheduledDate,
		e.ReviewSessionDate, selfBytes, managerBytes, e.OverallComments,
		e.Acknowledged, e.AcknowledgedAt, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

// UpdateEvaluation persists an evaluation only if its stored status still
// equals expected. The status predicate in the UPDATE is the optimistic
// check that serializes concurrent workflow transitions.
func (db *DB) UpdateEvaluation(ctx context.Context, e *evaluation.Evaluation, expected evaluation.Status) error {
	selfBytes, managerBytes, err := encodeRatings(e)
	if err != nil {
		return err
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE evaluations SET status = $1, scheduled_date = $2, review_session_date = $3,
			self_ratings = $4, manager_ratings = $5, overall_comments = $6,
			acknowledged = $7, acknowledged_at = $8, updated_at = $9
		 WHERE id = $10 AND status = $11`,
		e.Status, e.ScheduledDate, e.ReviewSessionDate,
		selfBytes, managerBytes, e.OverallComments,
		e.Acknowledged, e.AcknowledgedAt, e.UpdatedAt,
		e.ID, expected,
	)
	if err != nil {
		return fmt.Errorf("failed to update evaluation: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Nothing matched: either the row is gone or a concurrent writer moved
	// the status first. Re-read to report which.
	current, err := db.GetEvaluation(ctx, e.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return &evaluation.ErrEvaluationNotFound{EvaluationID: e.ID}
	}
	return &evaluation.ErrStateConflict{
		EvaluationID: e.ID,
		Operation:    "update",
		Status:       current.Status,
		Expected:     expected,
	}
}

// LastCompletedEvaluation returns the completion date of the employee's
// most recent completed evaluation, or nil when none exists.
func (db *DB) LastCompletedEvaluation(ctx context.Context, employeeID uuid.UUID) (*time.Time, error) {
	var completed time.Time
	err := db.pool.QueryRow(ctx,
		`SELECT updated_at FROM evaluations
		 WHERE employee_id = $1 AND status = $2
		 ORDER BY updated_at DESC LIMIT 1`,
		employeeID, evaluation.StatusCompleted,
	).Scan(&completed)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find last completed evaluation: %w", err)
	}
	return &completed, nil
}

// HasOpenEvaluation reports whether the employee has an evaluation still
// in flight.
func (db *DB) HasOpenEvaluation(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	var open bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM evaluations WHERE employee_id = $1 AND status <> $2)`,
		employeeID, evaluation.StatusCompleted,
	).Scan(&open)
	if err != nil {
		return false, fmt.Errorf("failed to check open evaluations: %w", err)
	}
	return open, nil
}

func encodeRatings(e *evaluation.Evaluation) (selfBytes, managerBytes []byte, err error) {
	if e.SelfRatings != nil {
		selfBytes, err = json.Marshal(e.SelfRatings)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal self ratings: %w", err)
		}
	}
	if e.ManagerRatings != nil {
		managerBytes, err = json.Marshal(e.ManagerRatings)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal manager ratings: %w", err)
		}
	}
	return selfBytes, managerBytes, nil
}

func (db *DB) scanEvaluation(row pgx.Row) (*evaluation.Evaluation, error) {
	var (
		e            evaluation.Evaluation
		selfBytes    []byte
		managerBytes []byte
	)
	err := row.Scan(&e.ID, &e.EmployeeID, &e.EvaluatorID, &e.TemplateID, &e.Status, &e.ScheduledDate,
		&e.ReviewSessionDate, &selfBytes, &managerBytes, &e.OverallComments,
		&e.Acknowledged, &e.AcknowledgedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	if len(selfBytes) > 0 {
		if err := json.Unmarshal(selfBytes, &e.SelfRatings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal self ratings for %s: %w", e.ID, err)
		}
	}
	if len(managerBytes) > 0 {
		if err := json.Unmarshal(managerBytes, &e.ManagerRatings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal manager ratings for %s: %w", e.ID, err)
		}
	}
	return &e, nil
}
