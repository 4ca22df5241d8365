package service

import (
	"context"
	"time"

	"repairshop_backend/internal/workflow/domain"
	"repairshop_backend/internal/workflow/repository"
	"repairshop_backend/platform/apperr"

	"github.com/google/uuid"
)

// Ledger is the only writer of employee activities. Every mutation is
// validated before it reaches the store.
type Ledger struct {
	store repository.Store
	now   func() time.Time
}

// NewLedger binds a ledger to store, which may be a transaction.
func NewLedger(store repository.Store, now func() time.Time) *Ledger {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Ledger{store: store, now: now}
}

// Create validates d against the resolved roles and appends it.
func (l *Ledger) Create(ctx context.Context, d domain.ActivityDraft, roles domain.ActorRoles) (domain.Activity, error) {
	exists := true
	if _, err := l.store.GetRequest(ctx, d.ServiceRequestID); err != nil {
		if apperr.GetCode(err) != domain.CodeInvalidReference {
			return domain.Activity{}, err
		}
		exists = false
	}

	a, err := domain.ValidateNewActivity(d, domain.ValidationContext{
		RequestExists: exists,
		Roles:         roles,
		Now:           l.now(),
	})
	if err != nil {
		return domain.Activity{}, err
	}
	if err := l.store.InsertActivity(ctx, &a); err != nil {
		return domain.Activity{}, err
	}
	return a, nil
}

// SetCompleted closes an open repair or approval activity.
func (l *Ledger) SetCompleted(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	current, err := l.store.GetActivity(ctx, id)
	if err != nil {
		return domain.Activity{}, err
	}
	done, err := domain.ValidateCompletion(current, domain.ActivityCompleted, l.now())
	if err != nil {
		return domain.Activity{}, err
	}
	if err := l.store.CompleteActivity(ctx, done); err != nil {
		return domain.Activity{}, err
	}
	return done, nil
}

// ListForRequest returns every activity of a request in creation order.
func (l *Ledger) ListForRequest(ctx context.Context, requestID uuid.UUID) ([]domain.Activity, error) {
	return l.store.ListActivities(ctx, repository.ActivityFilter{ServiceRequestID: requestID})
}

// GetByID returns one activity.
func (l *Ledger) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	return l.store.GetActivity(ctx, id)
}

// Find runs a filtered ledger query.
func (l *Ledger) Find(ctx context.Context, filter repository.ActivityFilter) ([]domain.Activity, error) {
	return l.store.ListActivities(ctx, filter)
}

// openOfType returns the open activities of typ on a request, optionally
// limited to one processing employee.
func (l *Ledger) openOfType(ctx context.Context, requestID uuid.UUID, typ domain.ActivityType, owner *uuid.UUID) ([]domain.Activity, error) {
	status := domain.ActivityInProgress
	return l.store.ListActivities(ctx, repository.ActivityFilter{
		ServiceRequestID:     requestID,
		ProcessingEmployeeID: owner,
		Type:                 &typ,
		Status:               &status,
	})
}
