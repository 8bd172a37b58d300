package schedule

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrItemNotFound indicates a scheduled item does not exist or was
// deactivated before materialization.
type ErrItemNotFound struct {
	ItemID uuid.UUID
}

func (e *ErrItemNotFound) Error() string {
	return fmt.Sprintf("scheduled item not found: %s", e.ItemID)
}

// ErrInstanceNotFound indicates an instance does not exist.
type ErrInstanceNotFound struct {
	InstanceID uuid.UUID
}

func (e *ErrInstanceNotFound) Error() string {
	return fmt.Sprintf("instance not found: %s", e.InstanceID)
}

// ErrWorkItemIndex indicates a work-item index outside the instance's list.
type ErrWorkItemIndex struct {
	InstanceID uuid.UUID
	Index      int
}

func (e *ErrWorkItemIndex) Error() string {
	return fmt.Sprintf("instance %s has no work item at index %d", e.InstanceID, e.Index)
}
