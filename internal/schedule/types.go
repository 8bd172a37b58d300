// Package schedule materializes dated instances of recurring and one-off
// work items (task lists, food-safety checklists) and projects which items
// come due over a horizon.
package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/recurrence"
)

// Item kinds.
const (
	ItemKindTaskList   = "task_list"
	ItemKindFoodSafety = "food_safety"
)

// Instance statuses.
const (
	InstanceInProgress = "in_progress"
	InstanceCompleted  = "completed"
)

// Work item statuses within an instance.
const (
	WorkItemPending   = "pending"
	WorkItemCompleted = "completed"
)

// SlotOnce is the slot key shared by every materialization attempt of a
// non-recurring item, so the uniqueness constraint collapses them to one.
const SlotOnce = "once"

// Item is a reusable definition of recurring or one-off work.
type Item struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	Kind       string           `json:"kind"`
	Recurring  bool             `json:"recurring"`
	Recurrence *recurrence.Spec `json:"recurrence,omitempty"`
	WorkItems  []WorkItem       `json:"work_items"`
	Active     bool             `json:"active"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// WorkItem is a single entry in an item definition.
type WorkItem struct {
	Title      string     `json:"title"`
	AssignedTo *uuid.UUID `json:"assigned_to,omitempty"`
}

// Instance is one dated occurrence of an Item, tracking per-entry completion.
type Instance struct {
	ID              uuid.UUID          `json:"id"`
	ScheduledItemID uuid.UUID          `json:"scheduled_item_id"`
	Date            time.Time          `json:"date"`
	SlotKey         string             `json:"slot_key"`
	WorkItems       []InstanceWorkItem `json:"work_items"`
	Status          string             `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// InstanceWorkItem is the stateful copy of a WorkItem inside an instance.
type InstanceWorkItem struct {
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
	CompletedBy *uuid.UUID `json:"completed_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SlotKey returns the uniqueness bucket for an item on a date: the local
// calendar day for recurring items, a single shared key otherwise.
func SlotKey(item *Item, date time.Time) string {
	if !item.Recurring {
		return SlotOnce
	}
	return recurrence.StartOfDay(date).Format("2006-01-02")
}
