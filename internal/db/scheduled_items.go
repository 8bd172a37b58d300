package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/recurrence"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/schedule"
)

// GetItem retrieves a scheduled item by ID. Returns nil when no row exists.
func (db *DB) GetItem(ctx context.Context, id uuid.UUID) (*schedule.Item, error) {
	var (
		item            schedule.Item
		recurrenceBytes []byte
		workItemBytes   []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, kind, recurring, recurrence, work_items, active, created_at, updated_at
		 FROM scheduled_items WHERE id = $1`,
		id,
	).Scan(&item.ID, &item.Name, &item.Kind, &item.Recurring, &recurrenceBytes,
		&workItemBytes, &item.Active, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get scheduled item: %w", err)
	}

	if err := decodeItemDocs(&item, recurrenceBytes, workItemBytes); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListActiveItems retrieves all active scheduled items.
func (db *DB) ListActiveItems(ctx context.Context) ([]schedule.Item, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, kind, recurring, recurrence, work_items, active, created_at, updated_at
		 FROM scheduled_items WHERE active ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled items: %w", err)
	}
	defer rows.Close()

	var items []schedule.Item
	for rows.Next() {
		var (
			item            schedule.Item
			recurrenceBytes []byte
			workItemBytes   []byte
		)
		if err := rows.Scan(&item.ID, &item.Name, &item.Kind, &item.Recurring, &recurrenceBytes,
			&workItemBytes, &item.Active, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scheduled item: %w", err)
		}
		if err := decodeItemDocs(&item, recurrenceBytes, workItemBytes); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// CreateItem inserts a scheduled item definition and returns its ID.
func (db *DB) CreateItem(ctx context.Context, item *schedule.Item) (uuid.UUID, error) {
	recurrenceBytes, err := encodeRecurrence(item.Recurrence)
	if err != nil {
		return uuid.Nil, err
	}
	workItemBytes, err := json.Marshal(item.WorkItems)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal work items: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO scheduled_items (name, kind, recurring, recurrence, work_items, active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		item.Name, item.Kind, item.Recurring, recurrenceBytes, workItemBytes, item.Active,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create scheduled item: %w", err)
	}
	return id, nil
}

func encodeRecurrence(spec *recurrence.Spec) ([]byte, error) {
	if spec == nil {
		return nil, nil
	}
	b, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recurrence: %w", err)
	}
	return b, nil
}

func decodeItemDocs(item *schedule.Item, recurrenceBytes, workItemBytes []byte) error {
	if len(recurrenceBytes) > 0 {
		var spec recurrence.Spec
		if err := json.Unmarshal(recurrenceBytes, &spec); err != nil {
			return fmt.Errorf("failed to unmarshal recurrence for item %s: %w", item.ID, err)
		}
		item.Recurrence = &spec
	}
	if len(workItemBytes) > 0 {
		if err := json.Unmarshal(workItemBytes, &item.WorkItems); err != nil {
			return fmt.Errorf("failed to unmarshal work items for item %s: %w", item.ID, err)
		}
	}
	return nil
}
