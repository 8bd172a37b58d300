package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/recurrence"
)

// InstanceStore is the persistence contract the materializer needs.
//
// InsertIfAbsent must be atomic against concurrent callers for the same
// (scheduled_item_id, slot_key) pair, backed by a uniqueness constraint:
// it either inserts the given instance and reports created=true, or
// returns the instance that already occupies the slot. A plain
// read-then-write is not an acceptable implementation.
type InstanceStore interface {
	FindForSlot(ctx context.Context, itemID uuid.UUID, slotKey string) (*Instance, error)
	InsertIfAbsent(ctx context.Context, inst *Instance) (*Instance, bool, error)
}

// Materializer creates instances of scheduled items exactly once per slot.
// Two users opening the same checklist at the same moment must end up on
// the same instance; that guarantee is the reason this type exists.
type Materializer struct {
	instances InstanceStore
	group     singleflight.Group
}

// NewMaterializer creates a materializer over the given store.
func NewMaterializer(instances InstanceStore) *Materializer {
	return &Materializer{instances: instances}
}

// GetOrCreate returns the instance of item for the given date, creating it
// if none exists yet.
//
// Non-recurring items have at most one instance ever, regardless of the
// date requested; recurring items have at most one per local calendar day.
// The now parameter stamps creation time and is injected for determinism.
func (m *Materializer) GetOrCreate(ctx context.Context, item *Item, date time.Time, now time.Time) (*Instance, error) {
	if item == nil || !item.Active {
		id := uuid.Nil
		if item != nil {
			id = item.ID
		}
		return nil, &ErrItemNotFound{ItemID: id}
	}

	slot := SlotKey(item, date)
	key := item.ID.String() + "|" + slot

	// Collapse concurrent in-process callers onto one lookup-or-insert.
	// The store's uniqueness constraint remains the real guarantee; this
	// just avoids burning inserts that would lose the conflict anyway.
	v, err, _ := m.group.Do(key, func() (any, error) {
		return m.materialize(ctx, item, date, slot, now)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Instance), nil
}

func (m *Materializer) materialize(ctx context.Context, item *Item, date time.Time, slot string, now time.Time) (*Instance, error) {
	existing, err := m.instances.FindForSlot(ctx, item.ID, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to look up instance for %s on %s: %w", item.ID, slot, err)
	}
	if existing != nil {
		return existing, nil
	}

	// Losing the insert race still yields the winner's instance.
	inst := newInstance(item, date, slot, now)
	stored, _, err := m.instances.InsertIfAbsent(ctx, inst)
	if err != nil {
		return nil, fmt.Errorf("failed to create instance for %s on %s: %w", item.ID, slot, err)
	}
	return stored, nil
}

// newInstance copies the item's current work items into a fresh pending
// instance for the given slot.
func newInstance(item *Item, date time.Time, slot string, now time.Time) *Instance {
	workItems := make([]InstanceWorkItem, len(item.WorkItems))
	for i, wi := range item.WorkItems {
		workItems[i] = InstanceWorkItem{
			Title:      wi.Title,
			Status:     WorkItemPending,
			AssignedTo: wi.AssignedTo,
		}
	}
	return &Instance{
		ID:              uuid.New(),
		ScheduledItemID: item.ID,
		Date:            recurrence.StartOfDay(date),
		SlotKey:         slot,
		WorkItems:       workItems,
		Status:          InstanceInProgress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
