package repository

import (
	"context"

	"repairshop_backend/internal/workflow/domain"

	"github.com/google/uuid"
)

// ActivityFilter narrows a ledger query. ServiceRequestID is required; nil
// fields are not filtered on. Results are always in creation order.
type ActivityFilter struct {
	ServiceRequestID     uuid.UUID
	ProcessingEmployeeID *uuid.UUID
	AssignedTo           *uuid.UUID
	Type                 *domain.ActivityType
	Status               *domain.ActivityStatus
}

// Store is the persistence contract for service requests and their ledger.
type Store interface {
	GetRequest(ctx context.Context, id uuid.UUID) (domain.ServiceRequest, error)
	// LockRequest loads a request and holds a row lock until the surrounding
	// transaction ends.
	LockRequest(ctx context.Context, id uuid.UUID) (domain.ServiceRequest, error)
	InsertRequest(ctx context.Context, req domain.ServiceRequest) error
	// UpdateRequest persists req only if the stored status still equals
	// expected, rejecting with InvalidTransition otherwise.
	UpdateRequest(ctx context.Context, req domain.ServiceRequest, expected domain.RequestStatus) error

	// InsertActivity stores a and fills in its sequence and creation time.
	InsertActivity(ctx context.Context, a *domain.Activity) error
	// CompleteActivity persists a completion only if the stored activity is
	// still in progress.
	CompleteActivity(ctx context.Context, a domain.Activity) error
	GetActivity(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	ListActivities(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error)
}

// Transactor is a Store that can run a unit of work atomically. Every write
// made through the Store passed to fn commits together or not at all.
type Transactor interface {
	Store
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

func requestNotFound(id uuid.UUID) error {
	return domain.InvalidReference("service request " + id.String() + " does not exist")
}

func activityNotFound(id uuid.UUID) error {
	return domain.InvalidReference("activity " + id.String() + " does not exist")
}

func statusMoved(id uuid.UUID, expected domain.RequestStatus) error {
	return domain.InvalidTransition("service request " + id.String() + " is no longer " + string(expected))
}

func activityNotOpen(id uuid.UUID) error {
	return domain.InvalidStateForType("activity " + id.String() + " is not in progress")
}
