package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ItemStore reads scheduled-item definitions.
type ItemStore interface {
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	ListActiveItems(ctx context.Context) ([]Item, error)
}

// InstanceFullStore extends InstanceStore with the reads and writes the
// completion flow needs.
type InstanceFullStore interface {
	InstanceStore
	GetInstance(ctx context.Context, id uuid.UUID) (*Instance, error)
	UpdateInstance(ctx context.Context, inst *Instance) error
}

// Service ties the materializer and projector to the stores, giving the
// HTTP layer one surface for task and checklist screens.
type Service struct {
	items        ItemStore
	instances    InstanceFullStore
	materializer *Materializer
}

// NewService creates a schedule service over the given stores.
func NewService(items ItemStore, instances InstanceFullStore) *Service {
	return &Service{
		items:        items,
		instances:    instances,
		materializer: NewMaterializer(instances),
	}
}

// GetItem returns one scheduled item definition.
func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled item: %w", err)
	}
	if item == nil {
		return nil, &ErrItemNotFound{ItemID: id}
	}
	return item, nil
}

// ListItems returns all active scheduled items.
func (s *Service) ListItems(ctx context.Context) ([]Item, error) {
	items, err := s.items.ListActiveItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled items: %w", err)
	}
	return items, nil
}

// Materialize loads the item and returns its instance for the date,
// creating one if needed.
func (s *Service) Materialize(ctx context.Context, itemID uuid.UUID, date time.Time, now time.Time) (*Instance, error) {
	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled item: %w", err)
	}
	if item == nil {
		return nil, &ErrItemNotFound{ItemID: itemID}
	}
	return s.materializer.GetOrCreate(ctx, item, date, now)
}

// Upcoming projects which items come due over the horizon starting after from.
func (s *Service) Upcoming(ctx context.Context, from time.Time, horizonDays int) ([]DaySchedule, error) {
	items, err := s.items.ListActiveItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled items: %w", err)
	}
	return ProjectUpcoming(items, from, horizonDays), nil
}

// CompleteWorkItem marks one entry of an instance completed. When every
// entry is completed the instance itself flips to completed.
func (s *Service) CompleteWorkItem(ctx context.Context, instanceID uuid.UUID, index int, completedBy uuid.UUID, now time.Time) (*Instance, error) {
	inst, err := s.instances.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get instance: %w", err)
	}
	if inst == nil {
		return nil, &ErrInstanceNotFound{InstanceID: instanceID}
	}
	if index < 0 || index >= len(inst.WorkItems) {
		return nil, &ErrWorkItemIndex{InstanceID: instanceID, Index: index}
	}

	inst.WorkItems[index].Status = WorkItemCompleted
	inst.WorkItems[index].CompletedBy = &completedBy
	completedAt := now
	inst.WorkItems[index].CompletedAt = &completedAt
	inst.Status = instanceStatus(inst.WorkItems)
	inst.UpdatedAt = now

	if err := s.instances.UpdateInstance(ctx, inst); err != nil {
		return nil, fmt.Errorf("failed to update instance: %w", err)
	}
	return inst, nil
}

// ReopenWorkItem puts a completed entry back to pending, reopening the
// instance if it had been fully completed.
func (s *Service) ReopenWorkItem(ctx context.Context, instanceID uuid.UUID, index int, now time.Time) (*Instance, error) {
	inst, err := s.instances.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get instance: %w", err)
	}
	if inst == nil {
		return nil, &ErrInstanceNotFound{InstanceID: instanceID}
	}
	if index < 0 || index >= len(inst.WorkItems) {
		return nil, &ErrWorkItemIndex{InstanceID: instanceID, Index: index}
	}

	inst.WorkItems[index].Status = WorkItemPending
	inst.WorkItems[index].CompletedBy = nil
	inst.WorkItems[index].CompletedAt = nil
	inst.Status = InstanceInProgress
	inst.UpdatedAt = now

	if err := s.instances.UpdateInstance(ctx, inst); err != nil {
		return nil, fmt.Errorf("failed to update instance: %w", err)
	}
	return inst, nil
}

func instanceStatus(workItems []InstanceWorkItem) string {
	for _, wi := range workItems {
		if wi.Status != WorkItemCompleted {
			return InstanceInProgress
		}
	}
	return InstanceCompleted
}
