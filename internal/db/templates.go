package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/evaluation"
)

// GetTemplate retrieves an evaluation template by ID. Returns nil when no
// row exists. The question document lives in a JSONB column so template
// edits never require a migration.
func (db *DB) GetTemplate(ctx context.Context, id uuid.UUID) (*evaluation.Template, error) {
	var (
		tmpl     evaluation.Template
		document []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, document FROM evaluation_templates WHERE id = $1`,
		id,
	).Scan(&tmpl.ID, &tmpl.Name, &document)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	if err := json.Unmarshal(document, &tmpl.Sections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template %s: %w", id, err)
	}
	return &tmpl, nil
}

// CreateTemplate stores a validated template document and returns its ID.
func (db *DB) CreateTemplate(ctx context.Context, name string, sections []evaluation.Section) (uuid.UUID, error) {
	document, err := json.Marshal(sections)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal template: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO evaluation_templates (name, document) VALUES ($1, $2) RETURNING id`,
		name, document,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create template: %w", err)
	}
	return id, nil
}
