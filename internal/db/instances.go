package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/schedule"
)

// FindForSlot retrieves the instance occupying a slot, or nil when the
// slot is empty.
func (db *DB) FindForSlot(ctx context.Context, itemID uuid.UUID, slotKey string) (*schedule.Instance, error) {
	return db.scanInstance(db.pool.QueryRow(ctx,
		instanceColumns+` FROM schedule_instances WHERE scheduled_item_id = $1 AND slot_key = $2`,
		itemID, slotKey,
	))
}

// InsertIfAbsent inserts the instance unless its slot is already taken.
// The UNIQUE (scheduled_item_id, slot_key) constraint makes the insert
// atomic against concurrent callers; losers re-read the winning row.
func (db *DB) InsertIfAbsent(ctx context.Context, inst *schedule.Instance) (*schedule.Instance, bool, error) {
	workItemBytes, err := json.Marshal(inst.WorkItems)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal instance work items: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`INSERT INTO schedule_instances (id, scheduled_item_id, date, slot_key, work_items, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (scheduled_item_id, slot_key) DO NOTHING`,
		inst.ID, inst.ScheduledItemID, inst.Date, inst.SlotKey, workItemBytes,
		inst.Status, inst.CreatedAt, inst.UpdatedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert instance: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return inst, true, nil
	}

	// Lost the race: another caller holds the slot.
	existing, err := db.FindForSlot(ctx, inst.ScheduledItemID, inst.SlotKey)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("instance slot %s/%s vanished after conflict", inst.ScheduledItemID, inst.SlotKey)
	}
	return existing, false, nil
}

// GetInstance retrieves an instance by ID. Returns nil when no row exists.
func (db *DB) GetInstance(ctx context.Context, id uuid.UUID) (*schedule.Instance, error) {
	return db.scanInstance(db.pool.QueryRow(ctx,
		instanceColumns+` FROM schedule_instances WHERE id = $1`,
		id,
	))
}

// UpdateInstance persists work-item state and status changes.
func (db *DB) UpdateInstance(ctx context.Context, inst *schedule.Instance) error {
	workItemBytes, err := json.Marshal(inst.WorkItems)
	if err != nil {
		return fmt.Errorf("failed to marshal instance work items: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE schedule_instances SET work_items = $1, status = $2, updated_at = $3 WHERE id = $4`,
		workItemBytes, inst.Status, inst.UpdatedAt, inst.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update instance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &schedule.ErrInstanceNotFound{InstanceID: inst.ID}
	}
	return nil
}

const instanceColumns = `SELECT id, scheduled_item_id, date, slot_key, work_items, status, created_at, updated_at`

func (db *DB) scanInstance(row pgx.Row) (*schedule.Instance, error) {
	var (
		inst          schedule.Instance
		workItemBytes []byte
	)
	err := row.Scan(&inst.ID, &inst.ScheduledItemID, &inst.Date, &inst.SlotKey,
		&workItemBytes, &inst.Status, &inst.CreatedAt, &inst.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get instance: %w", err)
	}
	if len(workItemBytes) > 0 {
		if err := json.Unmarshal(workItemBytes, &inst.WorkItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal work items for instance %s: %w", inst.ID, err)
		}
	}
	return &inst, nil
}
