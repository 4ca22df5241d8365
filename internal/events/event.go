// Package events defines the repair workflow's domain events. The bus itself
// lives in platform/events; modules import both through this package.
package events

import (
	"repairshop_backend/platform/events"
	"repairshop_backend/platform/logger"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var NewBaseEvent = events.NewBaseEvent

func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Workflow Domain Events
// =============================================================================

// RepairRequestOpened is published when a paid request enters the workflow.
type RepairRequestOpened struct {
	BaseEvent
	RequestID  uuid.UUID `json:"requestId"`
	CustomerID uuid.UUID `json:"customerId"`
	StoreID    uuid.UUID `json:"storeId"`
	Priority   string    `json:"priority"`
}

func (e RepairRequestOpened) EventName() string { return "workflow.request.opened" }

// RepairAssigned is published when a manager assigns an employee to a request.
type RepairAssigned struct {
	BaseEvent
	RequestID  uuid.UUID `json:"requestId"`
	ManagerID  uuid.UUID `json:"managerId"`
	EmployeeID uuid.UUID `json:"employeeId"`
}

func (e RepairAssigned) EventName() string { return "workflow.repair.assigned" }

// RepairSubmitted is published when an employee submits a repair for approval.
type RepairSubmitted struct {
	BaseEvent
	RequestID  uuid.UUID `json:"requestId"`
	EmployeeID uuid.UUID `json:"employeeId"`
	ManagerID  uuid.UUID `json:"managerId"`
}

func (e RepairSubmitted) EventName() string { return "workflow.repair.submitted" }

// RepairApproved is published when a request becomes ready for pickup.
type RepairApproved struct {
	BaseEvent
	RequestID  uuid.UUID `json:"requestId"`
	CustomerID uuid.UUID `json:"customerId"`
	ManagerID  uuid.UUID `json:"managerId"`
}

func (e RepairApproved) EventName() string { return "workflow.repair.approved" }

// RepairReassigned is published when a manager sends a repair back to an employee.
type RepairReassigned struct {
	BaseEvent
	RequestID     uuid.UUID `json:"requestId"`
	ManagerID     uuid.UUID `json:"managerId"`
	NewEmployeeID uuid.UUID `json:"newEmployeeId"`
}

func (e RepairReassigned) EventName() string { return "workflow.repair.reassigned" }

// RepairCompleted is published when the device has been handed back.
type RepairCompleted struct {
	BaseEvent
	RequestID  uuid.UUID `json:"requestId"`
	CustomerID uuid.UUID `json:"customerId"`
	ManagerID  uuid.UUID `json:"managerId"`
	Rating     int       `json:"rating"`
}

func (e RepairCompleted) EventName() string { return "workflow.repair.completed" }

// RepairRejected is published when a request is closed without a repair.
type RepairRejected struct {
	BaseEvent
	RequestID  uuid.UUID `json:"requestId"`
	CustomerID uuid.UUID `json:"customerId"`
	ActorID    uuid.UUID `json:"actorId"`
	Reason     string    `json:"reason,omitempty"`
}

func (e RepairRejected) EventName() string { return "workflow.repair.rejected" }
