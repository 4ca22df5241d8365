package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType classifies a ledger entry. It is fixed at creation.
type ActivityType string

const (
	ActivityRepair       ActivityType = "repair"
	ActivityApproval     ActivityType = "approval"
	ActivityAssignSubmit ActivityType = "assign_submit"
)

// ParseActivityType validates a stored activity type.
func ParseActivityType(value string) (ActivityType, bool) {
	switch ActivityType(value) {
	case ActivityRepair, ActivityApproval, ActivityAssignSubmit:
		return ActivityType(value), true
	default:
		return "", false
	}
}

// ActivityStatus is the progress of an activity.
type ActivityStatus string

const (
	ActivityInProgress ActivityStatus = "in_progress"
	ActivityCompleted  ActivityStatus = "completed"
)

// ParseActivityStatus validates a stored activity status.
func ParseActivityStatus(value string) (ActivityStatus, bool) {
	switch ActivityStatus(value) {
	case ActivityInProgress, ActivityCompleted:
		return ActivityStatus(value), true
	default:
		return "", false
	}
}

// Comment is an optional note attached to a hand-off.
type Comment struct {
	Date time.Time
	Text string
}

// Activity is one audit record in a service request's ledger.
type Activity struct {
	ID                   uuid.UUID
	ServiceRequestID     uuid.UUID
	Type                 ActivityType
	ProcessingEmployeeID uuid.UUID
	AssignedBy           uuid.UUID
	AssignedTo           *uuid.UUID
	Comments             *Comment
	Status               ActivityStatus
	StartTime            time.Time
	EndTime              *time.Time
	Seq                  int64
	CreatedAt            time.Time
}

// IsOpen reports whether the activity is still in progress.
func (a Activity) IsOpen() bool {
	return a.Status == ActivityInProgress
}

// CheckShape verifies the invariants that tie type to status and optional
// fields. Repositories call it on every row they load so an inconsistent
// record is never handed to the workflow.
func (a Activity) CheckShape() error {
	switch a.Type {
	case ActivityAssignSubmit:
		if a.Status != ActivityCompleted {
			return InvalidStateForType("assign_submit activities are always completed")
		}
		if a.AssignedTo == nil {
			return InvalidField("assign_submit activity requires assigned_to")
		}
		if a.Comments != nil && a.Comments.Text == "" {
			return InvalidField("hand-off comment must not be empty")
		}
	case ActivityRepair, ActivityApproval:
		if a.AssignedTo != nil || a.Comments != nil {
			return InvalidField(string(a.Type) + " activity must not carry assigned_to or comments")
		}
		if a.Status != ActivityInProgress && a.Status != ActivityCompleted {
			return InvalidStateForType("unknown activity status " + string(a.Status))
		}
	default:
		return InvalidField("unknown activity type " + string(a.Type))
	}
	if a.Status == ActivityCompleted && a.EndTime == nil {
		return InvalidStateForType("completed activity requires end_time")
	}
	return nil
}
