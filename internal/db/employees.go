package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/cycle"
)

const profileColumns = `SELECT id, name, hire_date, evaluator_id, frequency_days, next_evaluation_date`

// ListProfiles retrieves the scheduling profile of every employee.
func (db *DB) ListProfiles(ctx context.Context) ([]cycle.Profile, error) {
	rows, err := db.pool.Query(ctx, profileColumns+` FROM employees ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var profiles []cycle.Profile
	for rows.Next() {
		var p cycle.Profile
		if err := rows.Scan(&p.EmployeeID, &p.Name, &p.HireDate, &p.EvaluatorID,
			&p.FrequencyDays, &p.NextEvaluationDate); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// GetProfile retrieves one employee's scheduling profile. Returns nil when
// no row exists.
func (db *DB) GetProfile(ctx context.Context, employeeID uuid.UUID) (*cycle.Profile, error) {
	var p cycle.Profile
	err := db.pool.QueryRow(ctx,
		profileColumns+` FROM employees WHERE id = $1`,
		employeeID,
	).Scan(&p.EmployeeID, &p.Name, &p.HireDate, &p.EvaluatorID,
		&p.FrequencyDays, &p.NextEvaluationDate)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &p, nil
}

// SaveProfileSchedule persists an employee's next evaluation date.
func (db *DB) SaveProfileSchedule(ctx context.Context, employeeID uuid.UUID, next *time.Time) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE employees SET next_evaluation_date = $1 WHERE id = $2`,
		next, employeeID,
	)
	if err != nil {
		return fmt.Errorf("failed to save next evaluation date: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employee not found: %s", employeeID)
	}
	return nil
}

// CreateEmployee inserts an employee record and returns its ID.
func (db *DB) CreateEmployee(ctx context.Context, p *cycle.Profile) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO employees (name, hire_date, evaluator_id, frequency_days, next_evaluation_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		p.Name, p.HireDate, p.EvaluatorID, p.FrequencyDays, p.NextEvaluationDate,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return id, nil
}
