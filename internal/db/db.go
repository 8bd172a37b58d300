// Package db provides PostgreSQL persistence for scheduled items, their
// materialized instances, employees, evaluations, and organization settings.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables and constraints the application expects.
// Safe to run on every startup.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS scheduled_items (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			recurring BOOLEAN NOT NULL DEFAULT false,
			recurrence JSONB,
			work_items JSONB NOT NULL DEFAULT '[]',
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS schedule_instances (
			id UUID PRIMARY KEY,
			scheduled_item_id UUID NOT NULL REFERENCES scheduled_items(id) ON DELETE CASCADE,
			date DATE NOT NULL,
			slot_key TEXT NOT NULL,
			work_items JSONB NOT NULL DEFAULT '[]',
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (scheduled_item_id, slot_key)
		)`,
		`CREATE TABLE IF NOT EXISTS employees (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			hire_date DATE NOT NULL,
			evaluator_id UUID,
			frequency_days INTEGER NOT NULL DEFAULT 0,
			next_evaluation_date DATE
		)`,
		`CREATE TABLE IF NOT EXISTS evaluation_templates (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			document JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS evaluations (
			id UUID PRIMARY KEY,
			employee_id UUID NOT NULL REFERENCES employees(id),
			evaluator_id UUID NOT NULL,
			template_id UUID NOT NULL REFERENCES evaluation_templates(id),
			status TEXT NOT NULL,
			scheduled_date DATE NOT NULL,
			review_session_date DATE,
			self_ratings JSONB,
			manager_ratings JSONB,
			overall_comments TEXT,
			acknowledged BOOLEAN NOT NULL DEFAULT false,
			acknowledged_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_employee ON evaluations(employee_id, status)`,
		`CREATE TABLE IF NOT EXISTS org_settings (
			id INTEGER PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			auto_schedule BOOLEAN NOT NULL DEFAULT false,
			frequency_days INTEGER NOT NULL DEFAULT 90,
			cycle_start TEXT NOT NULL DEFAULT 'hire_date',
			transition_mode TEXT NOT NULL DEFAULT 'complete_cycle',
			grace_window_days INTEGER NOT NULL DEFAULT 30,
			template_id UUID
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
