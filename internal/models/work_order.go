package models

import (
	"time"

	"github.com/google/uuid"
)

type WorkOrderStatus string

const (
	StatusOpen       WorkOrderStatus = "Open"
	StatusInProgress WorkOrderStatus = "In Progress"
	StatusCompleted  WorkOrderStatus = "Completed"
	StatusCancelled  WorkOrderStatus = "Cancelled"
	StatusOnHold     WorkOrderStatus = "On Hold"
)

var WorkOrderStatuses = []WorkOrderStatus{StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled, StatusOnHold}

func (s WorkOrderStatus) Valid() bool {
	for _, v := range WorkOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type WorkOrderPriority string

const (
	PriorityLow    WorkOrderPriority = "Low"
	PriorityMedium WorkOrderPriority = "Medium"
	PriorityHigh   WorkOrderPriority = "High"
)

var WorkOrderPriorities = []WorkOrderPriority{PriorityLow, PriorityMedium, PriorityHigh}

func (p WorkOrderPriority) Valid() bool {
	for _, v := range WorkOrderPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// WorkOrder is a trackable task, returned with its location embedded.
type WorkOrder struct {
	ID               uuid.UUID         `json:"id"`
	Title            string            `json:"title"`
	Description      *string           `json:"description"`
	Status           WorkOrderStatus   `json:"status"`
	Priority         WorkOrderPriority `json:"priority"`
	Location         *Location         `json:"location"`
	LocationID       *uuid.UUID        `json:"location_id"`
	AssignedToUserID *uuid.UUID        `json:"assigned_to_user_id"`
	CreatedByUserID  uuid.UUID         `json:"created_by_user_id"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// WorkOrderCreate is the payload for POST /work-orders.
type WorkOrderCreate struct {
	Title            string            `json:"title" binding:"required"`
	Description      *string           `json:"description"`
	Status           WorkOrderStatus   `json:"status"`
	Priority         WorkOrderPriority `json:"priority"`
	LocationID       *uuid.UUID        `json:"location_id"`
	AssignedToUserID *uuid.UUID        `json:"assigned_to_user_id"`
}

// ApplyDefaults fills the initial status and default priority.
func (w *WorkOrderCreate) ApplyDefaults() {
	if w.Status == "" {
		w.Status = StatusOpen
	}
	if w.Priority == "" {
		w.Priority = PriorityMedium
	}
}

// NewWorkOrder is what gets inserted: the create payload plus the creator.
type NewWorkOrder struct {
	WorkOrderCreate
	CreatedByUserID uuid.UUID
}

// WorkOrderUpdate is the payload for PUT /work-orders/{id}. Only fields present in the
// body are changed.
type WorkOrderUpdate struct {
	Title            Field[string]            `json:"title"`
	Description      Field[string]            `json:"description"`
	Status           Field[WorkOrderStatus]   `json:"status"`
	Priority         Field[WorkOrderPriority] `json:"priority"`
	LocationID       Field[uuid.UUID]         `json:"location_id"`
	AssignedToUserID Field[uuid.UUID]         `json:"assigned_to_user_id"`
}

// Changes returns the column/value pairs for the fields present in the update, in a
// stable column order. Explicit nulls map to nil values.
func (u WorkOrderUpdate) Changes() []ColumnValue {
	var out []ColumnValue
	add := func(column string, set bool, value any) {
		if set {
			out = append(out, ColumnValue{Column: column, Value: value})
		}
	}
	add("title", u.Title.Set, ptrValue(u.Title.Value))
	add("description", u.Description.Set, ptrValue(u.Description.Value))
	add("status", u.Status.Set, ptrValue(u.Status.Value))
	add("priority", u.Priority.Set, ptrValue(u.Priority.Value))
	add("location_id", u.LocationID.Set, ptrValue(u.LocationID.Value))
	add("assigned_to_user_id", u.AssignedToUserID.Set, ptrValue(u.AssignedToUserID.Value))
	return out
}

// ColumnValue is a single column assignment for a partial update.
type ColumnValue struct {
	Column string
	Value  any
}

func ptrValue[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// WorkOrderFilter holds the optional equality filters for listing.
type WorkOrderFilter struct {
	Status     WorkOrderStatus
	Priority   WorkOrderPriority
	AssignedTo *uuid.UUID
}

// WorkOrderPage is the response for GET /work-orders.
type WorkOrderPage struct {
	Data       []WorkOrder `json:"data"`
	Count      int         `json:"count"`
	Pagination Pagination  `json:"pagination"`
}
